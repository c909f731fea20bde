package astro

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sampleEpoch = "2024-045T12:04:00.000Z"

	wgs84A = 6378.137
	wgs84F = 1 / 298.257223563
)

// Position of {100, 200, 300} km at sampleEpoch computed with IERS Earth
// orientation data.
const (
	refLatitude  = 56.38422100482626
	refLongitude = 98.88694979985289
	refHeight    = -5989.66879422592
)

func TestParseEpoch(t *testing.T) {
	t.Run("day of year with milliseconds", func(t *testing.T) {
		got, err := ParseEpoch(sampleEpoch)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.February, 14, 12, 4, 0, 0, time.UTC), got)
	})

	t.Run("microsecond fraction", func(t *testing.T) {
		got, err := ParseEpoch("2024-366T23:59:59.123456Z")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.December, 31, 23, 59, 59, 123456000, time.UTC), got)
	})

	t.Run("no fraction", func(t *testing.T) {
		got, err := ParseEpoch("2024-001T00:00:00Z")

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, epoch := range []string{"", "2024-02-14T12:04:00Z", "2024-045 12:04:00Z", "yesterday"} {
			_, err := ParseEpoch(epoch)
			require.ErrorIs(t, err, ErrInvalidEpoch, epoch)
		}
	})
}

func TestNewTimescales(t *testing.T) {
	utc := time.Date(2024, time.February, 14, 12, 4, 0, 0, time.UTC)
	utcJD := 2460355.0 + 4.0/(24*60)

	t.Run("TT runs 37 leap seconds plus 32.184 s ahead of UTC", func(t *testing.T) {
		ts, err := newTimescales(utc, 0)

		require.NoError(t, err)
		assert.InDelta(t, 69.184, (ts.TT.D1-utcJD+ts.TT.D2)*86400, 1e-4)
		assert.InDelta(t, 0, (ts.UT1.D1-utcJD+ts.UT1.D2)*86400, 1e-4)
	})

	t.Run("UT1 follows DUT1", func(t *testing.T) {
		ts, err := newTimescales(utc, -0.3)

		require.NoError(t, err)
		assert.InDelta(t, -0.3, (ts.UT1.D1-utcJD+ts.UT1.D2)*86400, 1e-4)
	})

	t.Run("before UTC", func(t *testing.T) {
		_, err := newTimescales(time.Date(1959, time.December, 31, 0, 0, 0, 0, time.UTC), 0)
		require.ErrorIs(t, err, ErrInvalidEpoch)
	})
}

func TestSecularPole(t *testing.T) {
	xp, yp := SecularPole(2000)
	assert.InDelta(t, 0.055, xp, 1e-12)
	assert.InDelta(t, 0.3205, yp, 1e-12)

	xp, yp = SecularPole(2024.12)
	assert.InDelta(t, 0.0954, xp, 1e-4)
	assert.InDelta(t, 0.4039, yp, 1e-4)
}

func TestGCRSToITRS_PreservesLength(t *testing.T) {
	pos := Vector{X: -4502.5, Y: 3320.1, Z: 3805.7}

	got, err := GCRSToITRS(pos, time.Date(2024, time.February, 14, 12, 4, 0, 0, time.UTC), EOP{})

	require.NoError(t, err)
	norm := func(v Vector) float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
	assert.InDelta(t, norm(pos), norm(got), 1e-9)
	assert.NotEqual(t, pos, got)
}

func TestToGeodetic(t *testing.T) {
	t.Run("equator prime meridian", func(t *testing.T) {
		got, err := ToGeodetic(Vector{X: wgs84A})

		require.NoError(t, err)
		assert.InDelta(t, 0, got.Latitude, 1e-12)
		assert.InDelta(t, 0, got.Longitude, 1e-12)
		assert.InDelta(t, 0, got.Height, 1e-9)
	})

	t.Run("above the equator at 90 east", func(t *testing.T) {
		got, err := ToGeodetic(Vector{Y: wgs84A + 420})

		require.NoError(t, err)
		assert.InDelta(t, 0, got.Latitude, 1e-12)
		assert.InDelta(t, 90, got.Longitude, 1e-12)
		assert.InDelta(t, 420, got.Height, 1e-9)
	})

	t.Run("south pole", func(t *testing.T) {
		polarRadius := wgs84A * (1 - wgs84F)
		got, err := ToGeodetic(Vector{Z: -polarRadius - 10})

		require.NoError(t, err)
		assert.InDelta(t, -90, got.Latitude, 1e-12)
		assert.InDelta(t, 0, got.Longitude, 1e-12)
		assert.InDelta(t, 10, got.Height, 1e-9)
	})
}

func TestLocate(t *testing.T) {
	utc, err := ParseEpoch(sampleEpoch)
	require.NoError(t, err)
	pos := Vector{X: 100, Y: 200, Z: 300}

	t.Run("default orientation matches the IERS reference", func(t *testing.T) {
		got, err := Locate(pos, utc, EOP{})

		require.NoError(t, err)
		assert.InEpsilon(t, refLatitude, got.Latitude, 1e-6)
		assert.InEpsilon(t, refLongitude, got.Longitude, 1e-6)
		assert.InEpsilon(t, refHeight, got.Height, 1e-6)
	})

	t.Run("measured pole equal to the secular pole", func(t *testing.T) {
		ts, err := newTimescales(utc, 0)
		require.NoError(t, err)
		xp, yp := EOP{}.pole(ts)

		secular, err := Locate(pos, utc, EOP{})
		require.NoError(t, err)
		measured, err := Locate(pos, utc, EOP{Xp: xp / arcsecToRad, Yp: yp / arcsecToRad, MeasuredPole: true})
		require.NoError(t, err)

		assert.InDelta(t, secular.Latitude, measured.Latitude, 1e-12)
		assert.InDelta(t, secular.Longitude, measured.Longitude, 1e-12)
	})

	t.Run("measured zero pole moves the position", func(t *testing.T) {
		secular, err := Locate(pos, utc, EOP{})
		require.NoError(t, err)
		zero, err := Locate(pos, utc, EOP{MeasuredPole: true})
		require.NoError(t, err)

		assert.NotEqual(t, secular.Latitude, zero.Latitude)
		assert.Greater(t, math.Abs(zero.Latitude-refLatitude), math.Abs(secular.Latitude-refLatitude))
	})

	t.Run("DUT1 turns the longitude", func(t *testing.T) {
		base, err := Locate(pos, utc, EOP{})
		require.NoError(t, err)
		late, err := Locate(pos, utc, EOP{DUT1: 1})
		require.NoError(t, err)

		// One second of Earth rotation is about 0.0042 degrees.
		assert.InDelta(t, -0.0042, late.Longitude-base.Longitude, 1e-4)
		assert.InDelta(t, base.Latitude, late.Latitude, 1e-6)
	})

	t.Run("epoch before UTC", func(t *testing.T) {
		_, err := Locate(pos, time.Date(1959, time.January, 1, 0, 0, 0, 0, time.UTC), EOP{})
		require.ErrorIs(t, err, ErrInvalidEpoch)
	})
}
