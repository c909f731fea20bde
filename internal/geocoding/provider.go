package geocoding

import (
	"context"
	"errors"
)

// Provider resolves geographic coordinates to a human-readable address.
// When the coordinates have no address (open ocean, for instance) the
// returned error wraps ErrEmptyResponse.
type Provider interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// ErrEmptyResponse is returned when a provider has no address for the coordinates.
var ErrEmptyResponse = errors.New("geocoding provider returned empty response")
