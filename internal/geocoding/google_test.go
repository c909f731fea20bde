package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/athyk213/ISS-Tracker/internal/geocoding"
	"github.com/athyk213/ISS-Tracker/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleProvider_ReverseGeocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, "", slog.Default())
	ctx := t.Context()

	request := func(lat, lon float64) *maps.GeocodingRequest {
		return &maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: lat, Lng: lon}, Language: "en"}
	}

	t.Run("api returns error", func(t *testing.T) {
		mockClient.On("ReverseGeocode", ctx, request(1, 2)).Return(nil, assert.AnError).Once()

		_, err := provider.ReverseGeocode(ctx, 1, 2)

		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api returns empty response", func(t *testing.T) {
		mockClient.On("ReverseGeocode", ctx, request(0, -140)).Return(nil, nil).Once()

		address, err := provider.ReverseGeocode(ctx, 0, -140)

		assert.Empty(t, address)
		require.ErrorIs(t, err, geocoding.ErrGoogleEmptyResponse)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful reverse geocoding", func(t *testing.T) {
		response := []maps.GeocodingResult{
			{FormattedAddress: "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA"},
			{FormattedAddress: "Mountain View, CA, USA"},
		}
		mockClient.On("ReverseGeocode", ctx, request(37.42, -122.08)).Return(response, nil).Once()

		address, err := provider.ReverseGeocode(ctx, 37.42, -122.08)

		require.NoError(t, err)
		assert.Equal(t, "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA", address)
		mockClient.AssertExpectations(t)
	})
}
