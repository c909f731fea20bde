// Package astro converts ephemeris samples from the celestial GCRS frame into
// Earth-fixed geodetic coordinates.
//
// The heavy lifting is done by gofa, a Go port of the IAU SOFA library: the
// GCRS to ITRS matrix is the IAU 2006/2000A CIO-based one (C2t06a) and the
// geodetic conversion is on the WGS84 ellipsoid (Gc2gd).
package astro

import (
	"math"
	"time"

	"github.com/hebl/gofa"
)

const arcsecToRad = math.Pi / 648000

// Vector is a Cartesian position. Units are carried through unchanged.
type Vector struct {
	X, Y, Z float64
}

// EOP holds the Earth orientation parameters applied by the terrestrial
// rotation.
//
// Unless MeasuredPole is set, Xp and Yp are ignored and the IERS secular pole
// at the epoch stands in for polar motion.
type EOP struct {
	DUT1         float64 // UT1-UTC, seconds.
	Xp           float64 // Polar motion x, arcseconds.
	Yp           float64 // Polar motion y, arcseconds.
	MeasuredPole bool
}

// SecularPole returns the IERS conventional mean pole (IERS Conventions 2010,
// 2018 update) in arcseconds at the given Julian epoch.
func SecularPole(epoch float64) (xp, yp float64) {
	dt := epoch - 2000
	return (55.0 + 1.677*dt) / 1000, (320.5 + 3.460*dt) / 1000
}

// pole returns the polar motion in radians to use at ts.
func (e EOP) pole(ts timescales) (xp, yp float64) {
	xp, yp = e.Xp, e.Yp
	if !e.MeasuredPole {
		xp, yp = SecularPole(gofa.Epj(ts.TT.D1, ts.TT.D2))
	}

	return xp * arcsecToRad, yp * arcsecToRad
}

// GCRSToITRS rotates a GCRS position at the given UTC instant into the ITRS.
func GCRSToITRS(pos Vector, utc time.Time, eop EOP) (Vector, error) {
	ts, err := newTimescales(utc, eop.DUT1)
	if err != nil {
		return Vector{}, err
	}

	xp, yp := eop.pole(ts)

	var rc2t [3][3]float64
	gofa.C2t06a(ts.TT.D1, ts.TT.D2, ts.UT1.D1, ts.UT1.D2, xp, yp, &rc2t)

	return rotate(rc2t, pos), nil
}

func rotate(r [3][3]float64, v Vector) Vector {
	return Vector{
		X: r[0][0]*v.X + r[0][1]*v.Y + r[0][2]*v.Z,
		Y: r[1][0]*v.X + r[1][1]*v.Y + r[1][2]*v.Z,
		Z: r[2][0]*v.X + r[2][1]*v.Y + r[2][2]*v.Z,
	}
}
