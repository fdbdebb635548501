package conjunction

import (
	"context"
	"fmt"
	"time"

	"github.com/kvsankar/sattosat/internal/transform"
)

// Refiner narrows a bracket to the instant of closest approach using a
// ternary search, then evaluates the full event geometry at that instant.
type Refiner struct {
	A         StateProvider
	B         StateProvider
	Precision time.Duration // stop when the bracket shrinks below this
}

// separation computes the inter-object distance at t.
func (r *Refiner) separation(t time.Time) (float64, error) {
	a, err := r.A.StateAt(t)
	if err != nil {
		return 0, err
	}
	b, err := r.B.StateAt(t)
	if err != nil {
		return 0, err
	}
	return b.Position.Sub(a.Position).Norm(), nil
}

// Refine shrinks the bracket until it is narrower than the precision and
// returns the event at its midpoint. The separation is assumed unimodal on
// the bracket; coarse sampling guarantees that for well-separated minima.
//
// A propagation failure inside the bracket abandons the refinement; the
// caller drops the candidate.
func (r *Refiner) Refine(ctx context.Context, b Bracket) (Event, error) {
	precision := r.Precision
	if precision <= 0 {
		precision = DefaultPrecision
	}

	start, end := b.Start, b.End
	for end.Sub(start) > precision {
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}

		third := end.Sub(start) / 3
		t1 := start.Add(third)
		t2 := end.Add(-third)

		d1, err := r.separation(t1)
		if err != nil {
			return Event{}, fmt.Errorf("refining bracket at %s: %w", b.At.Format(time.RFC3339), err)
		}
		d2, err := r.separation(t2)
		if err != nil {
			return Event{}, fmt.Errorf("refining bracket at %s: %w", b.At.Format(time.RFC3339), err)
		}

		if d1 < d2 {
			end = t2
		} else {
			start = t1
		}
	}

	mid := start.Add(end.Sub(start) / 2)
	return r.eventAt(mid)
}

// eventAt evaluates the full conjunction geometry at t.
func (r *Refiner) eventAt(t time.Time) (Event, error) {
	sa, err := r.A.StateAt(t)
	if err != nil {
		return Event{}, err
	}
	sb, err := r.B.StateAt(t)
	if err != nil {
		return Event{}, err
	}

	return Event{
		Time:           t,
		DistanceKm:     sb.Position.Sub(sa.Position).Norm(),
		RelVelocityKmS: sb.Velocity.Sub(sa.Velocity).Norm(),
		A:              transform.ECIToGeodetic(sa.Position, t),
		B:              transform.ECIToGeodetic(sb.Position, t),
	}, nil
}
