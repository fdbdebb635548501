// Package transform provides coordinate conversions for satellite positions.
//
// The primary transform is inertial (TEME) to geodetic
// latitude/longitude/altitude: rotate by Greenwich Mean Sidereal Time into
// the Earth-fixed frame, then solve the oblate-Earth latitude iteratively.
// The GMST-only rotation ignores polar motion and the equation of equinoxes,
// which is well under the accuracy of TLE-propagated positions.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Ch. 3.
package transform

import (
	"math"
	"time"
)

// WGS-84 ellipsoid parameters, in km.
const (
	wgs84A  = 6378.137              // semi-major axis
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// Geodetic is a position referenced to the WGS-84 ellipsoid.
type Geodetic struct {
	LatDeg float64 `json:"latitude"`
	LonDeg float64 `json:"longitude"`
	AltKm  float64 `json:"altitude_km"`
}

// ECIToGeodetic converts an inertial position (km) at the given UTC instant
// to geodetic coordinates.
//
// The latitude solve runs a fixed 5 iterations from the spherical
// approximation, which converges to well under a meter for Earth orbits.
// Always returns a value; near the poles the longitude is poorly
// conditioned but finite.
func ECIToGeodetic(pos Vec3, t time.Time) Geodetic {
	gmst := GMST(t)
	cosG := math.Cos(gmst)
	sinG := math.Sin(gmst)

	// Rotate about Z by -GMST into the Earth-fixed frame.
	x := pos.X*cosG + pos.Y*sinG
	y := -pos.X*sinG + pos.Y*cosG
	z := pos.Z

	lon := math.Atan2(y, x)
	p := math.Sqrt(x*x + y*y)

	lat := math.Atan2(z, p*(1-wgs84E2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(z+wgs84E2*n*sinLat, p)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = p/cosLat - n
	} else {
		// Polar singularity: height along the rotation axis.
		alt = math.Abs(z)/math.Abs(sinLat) - n*(1-wgs84E2)
	}

	return Geodetic{
		LatDeg: lat * 180.0 / math.Pi,
		LonDeg: lon * 180.0 / math.Pi,
		AltKm:  alt,
	}
}
