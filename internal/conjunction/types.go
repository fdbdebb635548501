// Package conjunction finds close approaches between two satellites by
// sampling their separation over a time window, detecting local minima, and
// refining each minimum with a ternary search.
package conjunction

import (
	"time"

	"github.com/kvsankar/sattosat/internal/propagation"
	"github.com/kvsankar/sattosat/internal/transform"
)

// Defaults for scan parameters.
const (
	DefaultStep        = 30 * time.Second
	DefaultThresholdKm = 1000.0
	DefaultPrecision   = 100 * time.Millisecond
)

// StateProvider yields a satellite state vector at an instant.
// Implemented by propagation.Ephemeris and propagation.SGP4Propagator.
type StateProvider interface {
	StateAt(t time.Time) (propagation.State, error)
}

// Window is a closed scan interval [Start, End] sampled at Step cadence;
// both endpoints are sample instants when End lands on the step grid.
type Window struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// Instants returns the number of sample instants in the window.
func (w Window) Instants() int {
	if !w.End.After(w.Start) || w.Step <= 0 {
		return 0
	}
	return int(w.End.Sub(w.Start)/w.Step) + 1
}

// At returns the i-th sample instant.
func (w Window) At(i int) time.Time {
	return w.Start.Add(time.Duration(i) * w.Step)
}

// Sample is the separation between the two objects at one instant.
type Sample struct {
	Time       time.Time
	DistanceKm float64
}

// Bracket is an interval known to contain a local minimum of the separation.
type Bracket struct {
	At    time.Time // coarse sample where the minimum was observed
	Start time.Time
	End   time.Time
}

// Event is a refined conjunction: the instant of closest approach with the
// geometry at that instant.
type Event struct {
	Time           time.Time          `json:"time"`
	DistanceKm     float64            `json:"distance_km"`
	RelVelocityKmS float64            `json:"relative_velocity_km_s"`
	A              transform.Geodetic `json:"object_a"`
	B              transform.Geodetic `json:"object_b"`
}
