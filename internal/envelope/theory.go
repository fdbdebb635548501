package envelope

import "math"

// Constants for the theoretical encounter-cycle estimates.
// Earth gravitational parameter and J2 from WGS-84 / EGM-96.
const (
	earthRadiusKm = 6378.137
	muEarth       = 398600.4418 // km^3/s^2
	j2            = 1.08263e-3
)

// OrbitalPeriodMinutes returns the Keplerian period for a circular orbit at
// the given altitude.
func OrbitalPeriodMinutes(altitudeKm float64) float64 {
	a := earthRadiusKm + altitudeKm
	return 2 * math.Pi * math.Sqrt(a*a*a/muEarth) / 60
}

// MeanMotionRadPerSec returns the mean motion for a circular orbit at the
// given altitude.
func MeanMotionRadPerSec(altitudeKm float64) float64 {
	a := earthRadiusKm + altitudeKm
	return math.Sqrt(muEarth / (a * a * a))
}

// RAANPrecessionDegPerDay returns the secular J2 nodal regression rate.
// Negative for prograde orbits (inclination below 90 degrees).
func RAANPrecessionDegPerDay(altitudeKm, inclinationDeg float64) float64 {
	a := earthRadiusKm + altitudeKm
	n := MeanMotionRadPerSec(altitudeKm)
	ratio := earthRadiusKm / a
	radPerSec := -1.5 * j2 * ratio * ratio * n * math.Cos(inclinationDeg*math.Pi/180)
	return radPerSec * 86400 * 180 / math.Pi
}

// SynodicPeriodHours returns how often the faster object laps the slower one
// in phase. Identical periods never realign; the result is +Inf.
func SynodicPeriodHours(periodAMin, periodBMin float64) float64 {
	if periodAMin == periodBMin {
		return math.Inf(1)
	}
	synodicMin := math.Abs(periodAMin * periodBMin / (periodAMin - periodBMin))
	return synodicMin / 60
}

// DifferentialRAANPeriodHours returns the time for the two orbital planes to
// complete a full relative revolution of their ascending nodes. Equal
// precession rates mean the planes stay locked; the result is +Inf.
func DifferentialRAANPeriodHours(rateADegPerDay, rateBDegPerDay float64) float64 {
	diff := math.Abs(rateADegPerDay - rateBDegPerDay)
	if diff == 0 {
		return math.Inf(1)
	}
	return 360 / diff * 24
}
