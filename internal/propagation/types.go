package propagation

import (
	"fmt"

	"github.com/kvsankar/sattosat/internal/transform"
)

// State is a propagated state vector in the inertial (TEME) frame.
type State struct {
	Position transform.Vec3 // km
	Velocity transform.Vec3 // km/s
}

// Error codes for propagation failures.
const (
	CodeModelError = iota + 1 // the SGP4 model itself reported an error
	CodeNonFinite             // output contained NaN/Inf
	CodeUnreasonable          // position magnitude outside plausible orbit range
)

// Error reports a per-instant propagation failure. Callers recover locally:
// the failed instant is skipped while sampling, or the refinement attempt
// carrying it is abandoned. Never retried.
type Error struct {
	NORADID int
	Code    int
	Reason  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("propagation failed for NORAD %d (code %d): %s", e.NORADID, e.Code, e.Reason)
}
