package geocoding_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/athyk213/ISS-Tracker/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(_ *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	}
}

func fastSettings() geocoding.NominatimSettings {
	return geocoding.NominatimSettings{RateLimit: 1000}
}

func TestNominatimProvider_ReverseGeocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful reverse geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Equal(t, "nominatim.openstreetmap.org", req.URL.Host)
				assert.Equal(t, "/reverse", req.URL.Path)
				assert.Equal(t, "56.38422100482626", req.URL.Query().Get("lat"))
				assert.Equal(t, "98.88694979985289", req.URL.Query().Get("lon"))
				assert.Equal(t, "jsonv2", req.URL.Query().Get("format"))
				assert.Equal(t, "en", req.URL.Query().Get("accept-language"))
				assert.Equal(t, geocoding.DefaultUserAgent, req.Header.Get("User-Agent"))

				return respond(http.StatusOK, `{
					"place_id": 1,
					"display_name": "Chunsky Rayon, Irkutsk Oblast, Siberian Federal District, Russia"
				}`)(req)
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, fastSettings(), logger)
		address, err := provider.ReverseGeocode(ctx, 56.38422100482626, 98.88694979985289)

		require.NoError(t, err)
		assert.Equal(t, "Chunsky Rayon, Irkutsk Oblast, Siberian Federal District, Russia", address)
	})

	t.Run("custom user agent and language", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "tracker-test/0.1 (ops@example.com)", req.Header.Get("User-Agent"))
				assert.Equal(t, "de", req.URL.Query().Get("accept-language"))
				assert.Equal(t, "de", req.Header.Get("Accept-Language"))

				return respond(http.StatusOK, `{"display_name":"Berlin, Deutschland"}`)(req)
			},
		}

		settings := fastSettings()
		settings.UserAgent = "tracker-test/0.1 (ops@example.com)"
		settings.Language = "de"
		provider := geocoding.NewNominatimProviderWithClient(mockClient, settings, logger)

		address, err := provider.ReverseGeocode(ctx, 52.52, 13.405)

		require.NoError(t, err)
		assert.Equal(t, "Berlin, Deutschland", address)
	})

	t.Run("unable to geocode", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, `{"error":"Unable to geocode"}`)}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, fastSettings(), logger)
		address, err := provider.ReverseGeocode(ctx, 0, -140)

		require.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		assert.Empty(t, address)
	})

	t.Run("empty display name", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, `{}`)}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, fastSettings(), logger)
		_, err := provider.ReverseGeocode(ctx, 0, 0)

		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
	})

	t.Run("HTTP error response", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusTooManyRequests, "slow down")}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, fastSettings(), logger)
		_, err := provider.ReverseGeocode(ctx, 1, 1)

		require.Error(t, err)
		assert.NotErrorIs(t, err, geocoding.ErrEmptyResponse)
		assert.Contains(t, err.Error(), "status 429")
	})

	t.Run("transport error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, fastSettings(), logger)
		_, err := provider.ReverseGeocode(ctx, 1, 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, "not json")}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, fastSettings(), logger)
		_, err := provider.ReverseGeocode(ctx, 1, 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("cancelled context stops at the limiter", func(t *testing.T) {
		called := false
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				called = true
				return respond(http.StatusOK, `{"display_name":"x"}`)(req)
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, fastSettings(), logger)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := provider.ReverseGeocode(cancelled, 1, 1)

		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestNominatimProvider_AgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Pacific Ocean"}`))
	}))
	defer server.Close()

	provider := geocoding.NewNominatimProvider(geocoding.NominatimSettings{
		BaseURL:   server.URL + "/reverse",
		RateLimit: 1000,
	}, slog.Default())

	address, err := provider.ReverseGeocode(t.Context(), -10, -150)

	require.NoError(t, err)
	assert.Equal(t, "Pacific Ocean", address)
}
