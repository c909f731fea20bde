package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/athyk213/ISS-Tracker/internal/models"
	"github.com/athyk213/ISS-Tracker/internal/oem"
	"github.com/athyk213/ISS-Tracker/internal/orbit"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrNotFound is returned when no state vector carries the requested epoch.
	ErrNotFound = errors.New("epoch not found")
	// ErrInvalidParameter is returned for a limit or offset that is not a
	// non-negative integer.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Fetcher downloads the raw ephemeris document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Tracker answers ephemeris queries. Every call downloads and parses the
// feed anew; nothing is cached between calls.
type Tracker struct {
	log      *slog.Logger
	fetcher  Fetcher
	resolver *Resolver
	clock    clockwork.Clock
}

// NewTracker creates a Tracker. The clock supplies "now" for Now.
func NewTracker(log *slog.Logger, fetcher Fetcher, resolver *Resolver, clock clockwork.Clock) *Tracker {
	return &Tracker{log: log, fetcher: fetcher, resolver: resolver, clock: clock}
}

func (t *Tracker) document(ctx context.Context) (*oem.Document, error) {
	raw, err := t.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	t.log.InfoContext(ctx, "Parsing XML data...")

	doc, err := oem.Decode(raw)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to parse ISS data", "error", err)
		return nil, err
	}

	return doc, nil
}

func (t *Tracker) stateVectors(ctx context.Context) ([]models.StateVector, error) {
	doc, err := t.document(ctx)
	if err != nil {
		return nil, err
	}

	vectors, err := doc.StateVectors()
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to parse ISS data", "error", err)
		return nil, err
	}

	return vectors, nil
}

// Comments returns the free-text comments of the ephemeris data block.
func (t *Tracker) Comments(ctx context.Context) ([]string, error) {
	doc, err := t.document(ctx)
	if err != nil {
		return nil, err
	}

	return doc.Comments(), nil
}

// Header returns the message header as a generic mapping.
func (t *Tracker) Header(ctx context.Context) (map[string]any, error) {
	doc, err := t.document(ctx)
	if err != nil {
		return nil, err
	}

	return doc.Header()
}

// Metadata returns the segment metadata as a generic mapping.
func (t *Tracker) Metadata(ctx context.Context) (map[string]any, error) {
	doc, err := t.document(ctx)
	if err != nil {
		return nil, err
	}

	return doc.Metadata()
}

// ParseWindow converts raw limit and offset query values. Empty strings mean
// the parameter was not supplied.
func ParseWindow(limitRaw, offsetRaw string) (limit, offset *int, err error) {
	parse := func(name, raw string) (*int, error) {
		if raw == "" {
			return nil, nil //nolint:nilnil // absent parameter
		}

		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrInvalidParameter, name, raw)
		}

		return &v, nil
	}

	if limit, err = parse("limit", limitRaw); err != nil {
		return nil, nil, err
	}
	if offset, err = parse("offset", offsetRaw); err != nil {
		return nil, nil, err
	}

	return limit, offset, nil
}

// Epochs returns the state vectors in feed order, windowed by offset and
// limit. A nil limit means all remaining vectors and a nil offset means 0.
// Windows past the end are clamped and may be empty.
func (t *Tracker) Epochs(ctx context.Context, limit, offset *int) ([]models.StateVector, error) {
	if (limit != nil && *limit < 0) || (offset != nil && *offset < 0) {
		return nil, fmt.Errorf("%w: limit and offset must be non-negative", ErrInvalidParameter)
	}

	vectors, err := t.stateVectors(ctx)
	if err != nil {
		return nil, err
	}

	start := 0
	if offset != nil {
		start = min(*offset, len(vectors))
	}

	end := len(vectors)
	if limit != nil {
		end = start + min(*limit, len(vectors)-start)
	}

	return vectors[start:end], nil
}

// Epoch returns the state vector whose EPOCH equals epoch exactly.
func (t *Tracker) Epoch(ctx context.Context, epoch string) (models.StateVector, error) {
	vectors, err := t.stateVectors(ctx)
	if err != nil {
		return models.StateVector{}, err
	}

	for _, sv := range vectors {
		if sv.Epoch == epoch {
			return sv, nil
		}
	}

	return models.StateVector{}, fmt.Errorf("%w: %s", ErrNotFound, epoch)
}

// Speed returns the instantaneous speed at epoch.
func (t *Tracker) Speed(ctx context.Context, epoch string) (models.Speed, error) {
	sv, err := t.Epoch(ctx, epoch)
	if err != nil {
		return models.Speed{}, err
	}

	return models.Speed{Speed: orbit.SpeedOf(sv)}, nil
}

// Location returns the geodetic position and address at epoch.
func (t *Tracker) Location(ctx context.Context, epoch string) (models.Location, error) {
	sv, err := t.Epoch(ctx, epoch)
	if err != nil {
		return models.Location{}, err
	}

	return t.resolver.Locate(ctx, sv)
}

// Now returns the state vector nearest to the current time with its speed,
// position and address.
func (t *Tracker) Now(ctx context.Context) (models.Current, error) {
	vectors, err := t.stateVectors(ctx)
	if err != nil {
		return models.Current{}, err
	}

	t.log.InfoContext(ctx, "Getting closest epoch info...")

	closest, speed, err := orbit.Closest(vectors, t.clock.Now().UTC())
	if err != nil {
		return models.Current{}, err
	}

	loc, err := t.resolver.Locate(ctx, closest)
	if err != nil {
		return models.Current{}, err
	}

	return models.Current{
		ClosestEpoch: closest.Epoch,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		Altitude:     loc.Altitude,
		Geoposition:  loc.Geoposition,
		Speed:        speed,
	}, nil
}
