package propagation

import (
	"fmt"
	"strings"
	"time"

	sgp4 "github.com/akhenakh/sgp4"

	"github.com/kvsankar/sattosat/internal/tle"
	"github.com/kvsankar/sattosat/internal/transform"
)

// SGP4 library choice: github.com/akhenakh/sgp4
//
// Selected because it propagates at fractional minutes since epoch
// (FindPosition takes a float64), which the sub-second extremum refinement
// requires, and returns velocity alongside position. The more widely used
// joshuaferrara/go-satellite only accepts whole-second instants; it remains
// a cross-validation reference in the transform tests.

// SGP4Propagator propagates a single orbital-state snapshot.
type SGP4Propagator struct {
	sat     *sgp4.TLE
	epoch   time.Time
	noradID int
}

// NewSGP4Propagator initializes the SGP4 model for one snapshot.
// Returns an error if the element set cannot be initialized.
func NewSGP4Propagator(snapshot tle.TLE) (*SGP4Propagator, error) {
	name := snapshot.Name
	if name == "" {
		name = fmt.Sprintf("NORAD-%d", snapshot.NORADID)
	}
	raw := strings.Join([]string{name, snapshot.Line1, snapshot.Line2}, "\n")

	sat, err := sgp4.ParseTLE(raw)
	if err != nil {
		return nil, fmt.Errorf("sgp4 init failed for NORAD %d: %w", snapshot.NORADID, err)
	}
	return &SGP4Propagator{
		sat:     sat,
		epoch:   snapshot.Epoch,
		noradID: snapshot.NORADID,
	}, nil
}

// StateAt computes the snapshot's state vector at the given instant.
// Position in km, velocity in km/s, TEME frame.
func (p *SGP4Propagator) StateAt(t time.Time) (State, error) {
	tsince := t.Sub(p.sat.EpochTime()).Minutes()

	eci, err := p.sat.FindPosition(tsince)
	if err != nil {
		return State{}, &Error{NORADID: p.noradID, Code: CodeModelError, Reason: err.Error()}
	}

	st := State{
		Position: transform.Vec3{X: eci.Position.X, Y: eci.Position.Y, Z: eci.Position.Z},
		Velocity: transform.Vec3{X: eci.Velocity.X, Y: eci.Velocity.Y, Z: eci.Velocity.Z},
	}

	if !st.Position.IsFinite() || !st.Velocity.IsFinite() {
		return State{}, &Error{NORADID: p.noradID, Code: CodeNonFinite, Reason: "output is NaN/Inf"}
	}

	// Sanity check: between low LEO (~6200 km) and well past GEO.
	if mag := st.Position.Norm(); mag < 6200.0 || mag > 50000.0 {
		return State{}, &Error{
			NORADID: p.noradID,
			Code:    CodeUnreasonable,
			Reason:  fmt.Sprintf("unreasonable position magnitude %.1f km", mag),
		}
	}

	return st, nil
}

// Epoch returns the snapshot's reference epoch.
func (p *SGP4Propagator) Epoch() time.Time { return p.epoch }
