// Package orbit holds the kinematic helpers applied to ephemeris samples.
package orbit

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/athyk213/ISS-Tracker/internal/astro"
	"github.com/athyk213/ISS-Tracker/internal/models"
)

// ErrNoData is returned when there is no sample to select from.
var ErrNoData = errors.New("no state vectors available")

// LookaheadTolerance bounds how far past "now" the nearest-epoch scan looks
// before stopping.
const LookaheadTolerance = 4*time.Minute + time.Millisecond

// Speed returns the magnitude of a velocity vector.
func Speed(vx, vy, vz float64) float64 {
	return math.Sqrt(vx*vx + vy*vy + vz*vz)
}

// SpeedOf returns the instantaneous speed of a state vector.
func SpeedOf(sv models.StateVector) float64 {
	return Speed(sv.XDot, sv.YDot, sv.ZDot)
}

// Closest returns the state vector whose epoch is nearest to now, and its speed.
//
// Vectors must be in ascending epoch order with a sampling interval below
// LookaheadTolerance; the scan stops at the first epoch that lies further
// than the tolerance in the future. The input is never reordered.
func Closest(vectors []models.StateVector, now time.Time) (models.StateVector, float64, error) {
	if len(vectors) == 0 {
		return models.StateVector{}, 0, ErrNoData
	}

	best := -1
	var bestDiff time.Duration
	for idx, sv := range vectors {
		epoch, err := astro.ParseEpoch(sv.Epoch)
		if err != nil {
			return models.StateVector{}, 0, fmt.Errorf("state vector %d: %w", idx, err)
		}

		diff := now.Sub(epoch)
		if diff < -LookaheadTolerance {
			break
		}

		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff {
			best, bestDiff = idx, diff
		}
	}

	// Every sample lies beyond the lookahead window; the first is nearest.
	if best < 0 {
		best = 0
	}

	closest := vectors[best]

	return closest, SpeedOf(closest), nil
}
