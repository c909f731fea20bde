package astro

import (
	"errors"
	"fmt"
	"time"

	"github.com/hebl/gofa"
)

// EpochLayout is the day-of-year timestamp layout used by the OEM feed.
// Fractional seconds are accepted on parse.
const EpochLayout = "2006-002T15:04:05Z"

// ErrInvalidEpoch is returned for timestamps that cannot be parsed or fall
// before the start of UTC.
var ErrInvalidEpoch = errors.New("invalid epoch")

// utcStart is where the leap second table begins. Earlier instants have no
// defined TAI-UTC.
var utcStart = time.Date(1960, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseEpoch parses an EPOCH value such as 2024-045T12:04:00.000Z as UTC.
func ParseEpoch(epoch string) (time.Time, error) {
	t, err := time.Parse(EpochLayout, epoch)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidEpoch, epoch, err)
	}

	return t.UTC(), nil
}

// julianDate is a two-part Julian Date as taken by the SOFA routines.
type julianDate struct {
	D1, D2 float64
}

// timescales holds an instant expressed in TT and UT1.
type timescales struct {
	TT  julianDate
	UT1 julianDate
}

// newTimescales converts a UTC instant to TT (through TAI and the leap second
// table) and UT1 (through dut1 seconds).
func newTimescales(utc time.Time, dut1 float64) (timescales, error) {
	utc = utc.UTC()
	if utc.Before(utcStart) {
		return timescales{}, fmt.Errorf("%w: %s predates UTC", ErrInvalidEpoch, utc.Format(time.RFC3339))
	}

	sec := float64(utc.Second()) + float64(utc.Nanosecond())/1e9

	var u, tai, tt, ut1 julianDate
	// Positive statuses only warn that the leap second table may be stale.
	if status := gofa.Dtf2d("UTC", utc.Year(), int(utc.Month()), utc.Day(),
		utc.Hour(), utc.Minute(), sec, &u.D1, &u.D2); status < 0 {
		return timescales{}, fmt.Errorf("%w: dtf2d status %d", ErrInvalidEpoch, status)
	}
	if status := gofa.Utctai(u.D1, u.D2, &tai.D1, &tai.D2); status < 0 {
		return timescales{}, fmt.Errorf("%w: utctai status %d", ErrInvalidEpoch, status)
	}
	gofa.Taitt(tai.D1, tai.D2, &tt.D1, &tt.D2)
	if status := gofa.Utcut1(u.D1, u.D2, dut1, &ut1.D1, &ut1.D2); status < 0 {
		return timescales{}, fmt.Errorf("%w: utcut1 status %d", ErrInvalidEpoch, status)
	}

	return timescales{TT: tt, UT1: ut1}, nil
}
