package tle

import (
	"math"
	"time"
)

const (
	earthRadiusKm = 6378.137
	muEarth       = 398600.4418 // km^3/s^2
)

// TLE is a single orbital-state snapshot parsed from a two-line element set.
// Immutable once parsed.
type TLE struct {
	NORADID int
	Name    string
	Epoch   time.Time
	Line1   string
	Line2   string

	// Elements from line 2.
	InclinationDeg float64
	RAANDeg        float64
	Eccentricity   float64
	ArgPerigeeDeg  float64
	MeanAnomalyDeg float64
	MeanMotion     float64 // revolutions per day
}

// PeriodMinutes returns the orbital period derived from mean motion.
func (t TLE) PeriodMinutes() float64 {
	if t.MeanMotion == 0 {
		return 0
	}
	return 1440.0 / t.MeanMotion
}

// AltitudeKm returns the approximate altitude assuming a circular orbit,
// derived from the period via Kepler's third law.
func (t TLE) AltitudeKm() float64 {
	periodSec := t.PeriodMinutes() * 60
	if periodSec == 0 {
		return 0
	}
	semiMajor := math.Cbrt(muEarth * math.Pow(periodSec/(2*math.Pi), 2))
	return semiMajor - earthRadiusKm
}
