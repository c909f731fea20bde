package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/athyk213/ISS-Tracker/internal/astro"
	"github.com/athyk213/ISS-Tracker/internal/geocoding"
	"github.com/athyk213/ISS-Tracker/internal/metrics"
	"github.com/athyk213/ISS-Tracker/internal/models"
)

// Resolver turns a state vector into a geodetic position with a place name.
type Resolver struct {
	log          *slog.Logger       // Logger for logging resolver activities
	provider     geocoding.Provider // Reverse geocoding provider
	providerName string             // Name of the provider for metrics labeling
	metrics      *metrics.Metrics   // Metrics for tracking geocoding outcomes
	eop          astro.EOP          // Earth orientation parameters for the frame transform
}

// NewResolver creates a Resolver. providerName labels the geocoding metrics.
func NewResolver(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	eop astro.EOP,
) *Resolver {
	return &Resolver{
		log:          log,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		eop:          eop,
	}
}

// Locate converts the position of sv to WGS84 latitude, longitude and height,
// then resolves the coordinates to an address. Geocoding never fails the
// call: when no address is available the sentinel models.AddressNotFound is
// returned. A malformed EPOCH fails with astro.ErrInvalidEpoch.
func (r *Resolver) Locate(ctx context.Context, sv models.StateVector) (models.Location, error) {
	epoch, err := astro.ParseEpoch(sv.Epoch)
	if err != nil {
		return models.Location{}, err
	}

	geo, err := astro.Locate(astro.Vector{X: sv.X, Y: sv.Y, Z: sv.Z}, epoch, r.eop)
	if err != nil {
		return models.Location{}, err
	}

	return models.Location{
		Latitude:    geo.Latitude,
		Longitude:   geo.Longitude,
		Altitude:    geo.Height,
		Geoposition: r.address(ctx, geo.Latitude, geo.Longitude),
	}, nil
}

func (r *Resolver) address(ctx context.Context, lat, lon float64) string {
	startTime := time.Now()
	address, err := r.provider.ReverseGeocode(ctx, lat, lon)
	duration := time.Since(startTime).Seconds()
	r.metrics.GeocodeSeconds.WithLabelValues(r.providerName).Observe(duration)

	switch {
	case errors.Is(err, geocoding.ErrEmptyResponse):
		r.metrics.GeocodeRequests.WithLabelValues(r.providerName, metrics.OutcomeEmpty).Inc()
		r.log.DebugContext(ctx, "No address for coordinates", "lat", lat, "lon", lon)

		return models.AddressNotFound
	case err != nil:
		r.metrics.GeocodeRequests.WithLabelValues(r.providerName, metrics.OutcomeError).Inc()
		r.log.WarnContext(ctx, "Reverse geocoding failed", "lat", lat, "lon", lon, "error", err)

		return models.AddressNotFound
	case address == "":
		r.metrics.GeocodeRequests.WithLabelValues(r.providerName, metrics.OutcomeEmpty).Inc()

		return models.AddressNotFound
	}

	r.metrics.GeocodeRequests.WithLabelValues(r.providerName, metrics.OutcomeSuccess).Inc()

	return address
}
