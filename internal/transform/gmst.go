package transform

import (
	"math"
	"time"
)

// j2000 is the Julian Date of the J2000.0 epoch.
const j2000 = 2451545.0

// JulianDate converts a UTC time to Julian Date using the standard
// astronomical algorithm.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	y := float64(t.Year())
	m := float64(t.Month())

	// January and February count as months 13/14 of the previous year.
	if m <= 2 {
		y--
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	day := float64(t.Day())
	frac := (float64(t.Hour()) +
		float64(t.Minute())/60 +
		(float64(t.Second())+float64(t.Nanosecond())/1e9)/3600) / 24

	return math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + day + b - 1524.5 + frac
}

// GMST returns Greenwich Mean Sidereal Time in radians for a UTC instant,
// using the IAU-82 model (Vallado Eq 3-47):
//
//	θ = 67310.54841 + (876600h + 8640184.812866)*T + 0.093104*T² - 6.2e-6*T³
//
// with T in Julian centuries of UT1 from J2000.0 and θ in seconds of time.
func GMST(t time.Time) float64 {
	tc := (JulianDate(t) - j2000) / 36525.0

	sec := 67310.54841 +
		(876600.0*3600+8640184.812866)*tc +
		0.093104*tc*tc -
		6.2e-6*tc*tc*tc

	sec = math.Mod(sec, 86400)
	if sec < 0 {
		sec += 86400
	}
	return sec / 86400 * 2 * math.Pi
}
