package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultNominatimURL is the public reverse geocoding endpoint.
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/reverse"
	// DefaultUserAgent identifies the service as the Nominatim usage policy requires:
	// https://operations.osmfoundation.org/policies/nominatim/
	DefaultUserAgent = "ISS-Tracker/1.0 (https://github.com/athyk213/ISS-Tracker)"
	// DefaultLanguage is the preferred language of returned addresses.
	DefaultLanguage = "en"

	defaultNominatimTimeout = 10 * time.Second
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// The public instance allows 1 request/second, which the limiter enforces.
type NominatimProvider struct {
	client    HTTPClient
	baseURL   string
	userAgent string
	language  string
	limiter   *rate.Limiter
	log       *slog.Logger
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NominatimSettings tunes a NominatimProvider. Zero fields fall back to defaults.
type NominatimSettings struct {
	BaseURL   string
	UserAgent string
	Language  string
	RateLimit int // requests per second
	Timeout   time.Duration
}

// nominatimResponse is the jsonv2 reverse geocoding payload. Nominatim
// answers 200 with an "error" field when nothing is found.
type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// ErrNominatimEmptyResponse is returned when Nominatim finds no address.
var ErrNominatimEmptyResponse = fmt.Errorf("nominatim: %w", ErrEmptyResponse)

// NewNominatimProvider creates a Nominatim provider backed by an http.Client.
func NewNominatimProvider(settings NominatimSettings, log *slog.Logger) *NominatimProvider {
	if settings.Timeout <= 0 {
		settings.Timeout = defaultNominatimTimeout
	}

	return NewNominatimProviderWithClient(&http.Client{Timeout: settings.Timeout}, settings, log)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, settings NominatimSettings, log *slog.Logger) *NominatimProvider {
	if settings.BaseURL == "" {
		settings.BaseURL = DefaultNominatimURL
	}
	if settings.UserAgent == "" {
		settings.UserAgent = DefaultUserAgent
	}
	if settings.Language == "" {
		settings.Language = DefaultLanguage
	}
	if settings.RateLimit <= 0 {
		settings.RateLimit = 1
	}

	return &NominatimProvider{
		client:    client,
		baseURL:   settings.BaseURL,
		userAgent: settings.UserAgent,
		language:  settings.Language,
		limiter:   rate.NewLimiter(rate.Limit(settings.RateLimit), 1),
		log:       log,
	}
}

// ReverseGeocode looks up the address closest to the given coordinates.
func (np *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("format", "jsonv2")
	query.Set("accept-language", np.language)
	reqURL.RawQuery = query.Encode()

	np.log.DebugContext(ctx, "Nominatim request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", np.userAgent)
	req.Header.Set("Accept-Language", np.language)

	resp, err := np.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute reverse geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result nominatimResponse
	if err = json.Unmarshal(body, &result); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return "", fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if result.Error != "" || result.DisplayName == "" {
		np.log.DebugContext(ctx, "Nominatim found no address", "lat", lat, "lon", lon, "reason", result.Error)
		return "", ErrNominatimEmptyResponse
	}

	return result.DisplayName, nil
}
