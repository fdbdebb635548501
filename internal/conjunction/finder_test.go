package conjunction

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/kvsankar/sattosat/internal/propagation"
	"github.com/kvsankar/sattosat/internal/transform"
)

// circularOrbit is an equatorial circular trajectory with the given radius
// and period, at angle zero (positive X axis) at t0.
func circularOrbit(t0 time.Time, radiusKm float64, period time.Duration) orbitFunc {
	omega := 2 * math.Pi / period.Seconds()
	return func(t time.Time) (propagation.State, error) {
		theta := omega * t.Sub(t0).Seconds()
		return propagation.State{
			Position: transform.Vec3{
				X: radiusKm * math.Cos(theta),
				Y: radiusKm * math.Sin(theta),
			},
			Velocity: transform.Vec3{
				X: -radiusKm * omega * math.Sin(theta),
				Y: radiusKm * omega * math.Cos(theta),
			},
		}, nil
	}
}

// The moving object passes its closest point to the fixed one once per
// revolution, so a window spanning three revolutions yields three events.
func TestFinderPeriodicApproaches(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	period := 90 * time.Minute

	f := &Finder{
		A:       stationary(transform.Vec3{X: 7000}),
		B:       circularOrbit(t0, 7200, period),
		Workers: 4,
		Logger:  discard(),
	}

	w := Window{
		Start: t0.Add(-45 * time.Minute),
		End:   t0.Add(3*period - 45*time.Minute),
		Step:  30 * time.Second,
	}

	events, err := f.Find(context.Background(), w)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	for _, ev := range events {
		// Closest approach is radius difference, reached at angle zero.
		if math.Abs(ev.DistanceKm-200) > 0.5 {
			t.Errorf("event distance %.3f km, want ~200", ev.DistanceKm)
		}

		phase := math.Mod(ev.Time.Sub(t0).Seconds(), period.Seconds())
		if phase > period.Seconds()/2 {
			phase -= period.Seconds()
		}
		if math.Abs(phase) > 1 {
			t.Errorf("event at %v is %.2f s off a revolution boundary", ev.Time, phase)
		}
	}
}

func TestFinderSortsByDistance(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Two parabolic dips of different depth inside one window.
	b := orbitFunc(func(at time.Time) (propagation.State, error) {
		dt1 := at.Sub(t0.Add(20 * time.Minute)).Seconds()
		dt2 := at.Sub(t0.Add(70 * time.Minute)).Seconds()
		d := math.Min(500+1e-3*dt1*dt1, 120+1e-3*dt2*dt2)
		return propagation.State{Position: transform.Vec3{X: d}}, nil
	})

	f := &Finder{A: stationary(transform.Vec3{}), B: b, Workers: 2, Logger: discard()}
	events, err := f.Find(context.Background(), Window{
		Start: t0, End: t0.Add(90 * time.Minute), Step: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].DistanceKm > events[1].DistanceKm {
		t.Errorf("events not sorted by ascending distance: %.1f before %.1f",
			events[0].DistanceKm, events[1].DistanceKm)
	}
	if math.Abs(events[0].DistanceKm-120) > 1 {
		t.Errorf("closest event = %.2f km, want ~120", events[0].DistanceKm)
	}
}

func TestFinderThresholdFilters(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tmin := t0.Add(30 * time.Minute)

	f := &Finder{
		A:           stationary(transform.Vec3{}),
		B:           parabolicApproach(tmin, 150, 1e-3),
		ThresholdKm: 100,
		Workers:     2,
		Logger:      discard(),
	}

	events, err := f.Find(context.Background(), Window{
		Start: t0, End: t0.Add(time.Hour), Step: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events above a 100 km threshold, want 0", len(events))
	}

	// Scan keeps the unfiltered minimum.
	all, err := f.Scan(context.Background(), Window{
		Start: t0, End: t0.Add(time.Hour), Step: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Scan got %d events, want 1", len(all))
	}
	if math.Abs(all[0].DistanceKm-150) > 1 {
		t.Errorf("unfiltered minimum = %.2f km, want ~150", all[0].DistanceKm)
	}
}

// An event exactly at the threshold distance is excluded: the cut is
// strictly-closer-than, not at-or-closer.
func TestFinderThresholdExclusive(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	flatStart := t0.Add(10 * time.Minute)
	flatEnd := t0.Add(12 * time.Minute)

	// Separation steps down to a flat 150 km floor for two minutes. Every
	// instant the refinement can evaluate sits on the floor, so the refined
	// event distance is exactly 150.
	b := orbitFunc(func(at time.Time) (propagation.State, error) {
		d := 160.0
		if !at.Before(flatStart) && at.Before(flatEnd) {
			d = 150.0
		}
		return propagation.State{Position: transform.Vec3{X: d}}, nil
	})

	f := &Finder{
		A:           stationary(transform.Vec3{}),
		B:           b,
		ThresholdKm: 150,
		Workers:     2,
		Logger:      discard(),
	}
	w := Window{Start: t0, End: t0.Add(20 * time.Minute), Step: 30 * time.Second}

	all, err := f.Scan(context.Background(), w)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(all) != 1 || all[0].DistanceKm != 150 {
		t.Fatalf("Scan = %+v, want one event at exactly 150 km", all)
	}

	events, err := f.Find(context.Background(), w)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events at the exact threshold, want 0", len(events))
	}
}

func TestFinderConstantSeparation(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	f := &Finder{
		A:       stationary(transform.Vec3{X: 7000}),
		B:       stationary(transform.Vec3{X: 7000, Y: 50}),
		Workers: 2,
		Logger:  discard(),
	}

	events, err := f.Find(context.Background(), Window{
		Start: t0, End: t0.Add(2 * time.Hour), Step: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events for constant separation, want 0", len(events))
	}
}

func TestFinderRefinementIdempotent(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tmin := t0.Add(42*time.Minute + 17*time.Second + 400*time.Millisecond)

	f := &Finder{
		A:       stationary(transform.Vec3{}),
		B:       parabolicApproach(tmin, 75, 2e-3),
		Workers: 2,
		Logger:  discard(),
	}
	w := Window{Start: t0, End: t0.Add(90 * time.Minute), Step: 30 * time.Second}

	first, err := f.Find(context.Background(), w)
	if err != nil {
		t.Fatalf("first Find: %v", err)
	}
	second, err := f.Find(context.Background(), w)
	if err != nil {
		t.Fatalf("second Find: %v", err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("got %d and %d events, want 1 each", len(first), len(second))
	}
	if !first[0].Time.Equal(second[0].Time) {
		t.Errorf("refined times differ across runs: %v vs %v", first[0].Time, second[0].Time)
	}
	if off := first[0].Time.Sub(tmin); off < -DefaultPrecision || off > DefaultPrecision {
		t.Errorf("refined time off by %v, want within %v", off, DefaultPrecision)
	}
}
