package astro

import (
	"fmt"
	"math"
	"time"

	"github.com/hebl/gofa"
)

// wgs84 is the SOFA reference ellipsoid identifier for WGS84.
const wgs84 = 1

// Geodetic is a position on the WGS84 ellipsoid.
type Geodetic struct {
	Latitude  float64 // degrees, positive north
	Longitude float64 // degrees, positive east
	Height    float64 // kilometres above the ellipsoid
}

// ToGeodetic converts an Earth-fixed Cartesian position in kilometres to
// WGS84 geodetic coordinates.
func ToGeodetic(pos Vector) (Geodetic, error) {
	xyz := [3]float64{pos.X * 1000, pos.Y * 1000, pos.Z * 1000}

	var elong, phi, height float64
	if status := gofa.Gc2gd(wgs84, xyz, &elong, &phi, &height); status != 0 {
		return Geodetic{}, fmt.Errorf("geodetic conversion: gc2gd status %d", status)
	}

	return Geodetic{
		Latitude:  degrees(phi),
		Longitude: degrees(elong),
		Height:    height / 1000,
	}, nil
}

// Locate places a GCRS position (km) sampled at the given UTC instant on the
// WGS84 ellipsoid.
func Locate(pos Vector, utc time.Time, eop EOP) (Geodetic, error) {
	itrs, err := GCRSToITRS(pos, utc, eop)
	if err != nil {
		return Geodetic{}, err
	}

	return ToGeodetic(itrs)
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
