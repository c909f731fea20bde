package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes.
type GoogleProvider struct {
	client   GoogleAPIClient
	language string
	log      *slog.Logger
}

// GoogleAPIClient is the subset of *maps.Client used by GoogleProvider.
type GoogleAPIClient interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrGoogleEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrGoogleEmptyResponse = fmt.Errorf("google maps: %w", ErrEmptyResponse)

// NewGoogleProvider wraps a Google Maps client. Addresses are requested in language.
func NewGoogleProvider(client GoogleAPIClient, language string, log *slog.Logger) *GoogleProvider {
	if language == "" {
		language = DefaultLanguage
	}

	return &GoogleProvider{client: client, language: language, log: log}
}

// ReverseGeocode returns the formatted address of the most specific result
// for the given coordinates.
func (gp *GoogleProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	gp.log.DebugContext(ctx, "Reverse geocoding using Google Maps", "lat", lat, "lon", lon)

	req := maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lon},
		Language: gp.language,
	}
	results, err := gp.client.ReverseGeocode(ctx, &req)
	if err != nil {
		return "", fmt.Errorf("failed to reverse geocode coordinates: %w", err)
	}

	if len(results) == 0 || results[0].FormattedAddress == "" {
		return "", ErrGoogleEmptyResponse
	}

	return results[0].FormattedAddress, nil
}
