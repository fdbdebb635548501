package envelope

import (
	"math"
	"testing"
	"time"

	"github.com/kvsankar/sattosat/internal/conjunction"
)

func eventAt(t time.Time, km float64) conjunction.Event {
	return conjunction.Event{Time: t, DistanceKm: km}
}

func TestGroupPasses(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Three bursts of events: two close together, one three hours later.
	events := []conjunction.Event{
		eventAt(t0, 400),
		eventAt(t0.Add(10*time.Minute), 250),
		eventAt(t0.Add(20*time.Minute), 380),

		eventAt(t0.Add(80*time.Minute), 600),
		eventAt(t0.Add(95*time.Minute), 150),

		eventAt(t0.Add(4*time.Hour+35*time.Minute), 900),
	}

	passes := GroupPasses(events, DefaultPassGap)
	if len(passes) != 3 {
		t.Fatalf("got %d passes, want 3", len(passes))
	}

	if n := len(passes[0].Events); n != 3 {
		t.Errorf("pass 0 has %d events, want 3", n)
	}
	if passes[0].Min.DistanceKm != 250 {
		t.Errorf("pass 0 min = %v km, want 250", passes[0].Min.DistanceKm)
	}
	if passes[1].Min.DistanceKm != 150 {
		t.Errorf("pass 1 min = %v km, want 150", passes[1].Min.DistanceKm)
	}
	if !passes[0].Start.Equal(t0) || !passes[0].End.Equal(t0.Add(20*time.Minute)) {
		t.Errorf("pass 0 span [%v, %v]", passes[0].Start, passes[0].End)
	}
	if len(passes[2].Events) != 1 || passes[2].Min.DistanceKm != 900 {
		t.Errorf("pass 2 = %+v, want the single 900 km event", passes[2])
	}
}

func TestGroupPassesSortsInput(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Distance-ordered input, as the finder produces.
	events := []conjunction.Event{
		eventAt(t0.Add(2*time.Hour), 100),
		eventAt(t0, 300),
		eventAt(t0.Add(5*time.Minute), 500),
	}

	passes := GroupPasses(events, DefaultPassGap)
	if len(passes) != 2 {
		t.Fatalf("got %d passes, want 2", len(passes))
	}
	if !passes[0].Start.Equal(t0) {
		t.Errorf("first pass starts at %v, want %v", passes[0].Start, t0)
	}
	// Input slice must be untouched.
	if !events[0].Time.Equal(t0.Add(2 * time.Hour)) {
		t.Error("GroupPasses reordered the caller's slice")
	}
}

func TestGroupPassesEmpty(t *testing.T) {
	if got := GroupPasses(nil, DefaultPassGap); got != nil {
		t.Errorf("got %v for no events, want nil", got)
	}
}

func TestMinima(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Per-pass depths tracing two envelope troughs ~50h apart.
	depths := []float64{800, 600, 300, 90, 280, 550, 780, 820, 640, 310, 70, 260, 590, 810}
	events := make([]conjunction.Event, len(depths))
	for i, d := range depths {
		events[i] = eventAt(t0.Add(time.Duration(i)*8*time.Hour), d)
	}

	minima := Minima(events, DefaultWindowSize, DefaultMinimumDedupe)
	if len(minima) != 2 {
		t.Fatalf("got %d minima, want 2: %+v", len(minima), minima)
	}
	if minima[0].DistanceKm != 90 || minima[1].DistanceKm != 70 {
		t.Errorf("minima depths = %v and %v, want 90 and 70", minima[0].DistanceKm, minima[1].DistanceKm)
	}

	periods := Periods(minima)
	if len(periods) != 1 {
		t.Fatalf("got %d periods, want 1", len(periods))
	}
	if want := 7 * 8.0; periods[0] != want {
		t.Errorf("period = %v h, want %v", periods[0], want)
	}
}

func TestMinimaDedupe(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Two equal-depth local minima 30 minutes apart; the second falls inside
	// the dedupe horizon and is dropped.
	depths := []float64{500, 400, 100, 400, 100, 400, 500}
	events := make([]conjunction.Event, len(depths))
	for i, d := range depths {
		events[i] = eventAt(t0.Add(time.Duration(i)*15*time.Minute), d)
	}

	minima := Minima(events, DefaultWindowSize, time.Hour)
	if len(minima) != 1 {
		t.Fatalf("got %d minima, want 1 after dedupe: %+v", len(minima), minima)
	}
	if !minima[0].Time.Equal(t0.Add(30 * time.Minute)) {
		t.Errorf("kept minimum at %v, want the earlier one", minima[0].Time)
	}
}

func TestMinimaDedupeBoundary(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	depths := []float64{500, 400, 100, 400, 100, 400, 500}

	// Spaced 30 minutes: the second local minimum lands exactly one hour
	// after the first, which is not "more than" the dedupe interval.
	exact := make([]conjunction.Event, len(depths))
	for i, d := range depths {
		exact[i] = eventAt(t0.Add(time.Duration(i)*30*time.Minute), d)
	}
	if got := Minima(exact, DefaultWindowSize, time.Hour); len(got) != 1 {
		t.Errorf("got %d minima at the exact dedupe boundary, want 1", len(got))
	}

	// Spaced 31 minutes: the gap is 62 minutes and both survive.
	over := make([]conjunction.Event, len(depths))
	for i, d := range depths {
		over[i] = eventAt(t0.Add(time.Duration(i)*31*time.Minute), d)
	}
	if got := Minima(over, DefaultWindowSize, time.Hour); len(got) != 2 {
		t.Errorf("got %d minima just past the dedupe interval, want 2", len(got))
	}
}

func TestMinimaInsufficientData(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []conjunction.Event{
		eventAt(t0, 300),
		eventAt(t0.Add(time.Hour), 100),
		eventAt(t0.Add(2*time.Hour), 300),
	}

	// Fewer events than one full window: nothing can be confirmed.
	if got := Minima(events, DefaultWindowSize, DefaultMinimumDedupe); got != nil {
		t.Errorf("got %v for a short series, want nil", got)
	}
}

func TestMinimaSmallWindowClamped(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	depths := []float64{500, 300, 100, 300, 500}
	events := make([]conjunction.Event, len(depths))
	for i, d := range depths {
		events[i] = eventAt(t0.Add(time.Duration(i)*2*time.Hour), d)
	}

	// windowSize 1 still behaves as a half-window of 2.
	one := Minima(events, 1, DefaultMinimumDedupe)
	five := Minima(events, 5, DefaultMinimumDedupe)
	if len(one) != len(five) || len(one) != 1 {
		t.Fatalf("window clamp broken: %d vs %d minima", len(one), len(five))
	}
	if one[0].DistanceKm != 100 {
		t.Errorf("minimum = %v km, want 100", one[0].DistanceKm)
	}
}

func TestAnalyze(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Passes every ~8h whose depth oscillates with a trough mid-series.
	depths := []float64{700, 500, 200, 60, 210, 520, 730}
	var events []conjunction.Event
	for i, d := range depths {
		base := t0.Add(time.Duration(i) * 8 * time.Hour)
		// Each pass is two events a few minutes apart; the deeper one is
		// the pass minimum.
		events = append(events,
			eventAt(base, d+40),
			eventAt(base.Add(5*time.Minute), d),
		)
	}

	an := Analyze(events, DefaultPassGap, DefaultWindowSize, DefaultMinimumDedupe)
	if len(an.Passes) != len(depths) {
		t.Fatalf("got %d passes, want %d", len(an.Passes), len(depths))
	}
	if len(an.Minima) != 1 {
		t.Fatalf("got %d envelope minima, want 1: %+v", len(an.Minima), an.Minima)
	}
	if an.Minima[0].DistanceKm != 60 {
		t.Errorf("envelope minimum = %v km, want 60", an.Minima[0].DistanceKm)
	}
	if len(an.PeriodHours) != 0 {
		t.Errorf("got %d periods from a single minimum, want 0", len(an.PeriodHours))
	}
	if an.DeepestKm != 60 || an.ShallowestKm != 60 {
		t.Errorf("stats = deepest %v / shallowest %v, want 60 / 60", an.DeepestKm, an.ShallowestKm)
	}
	if an.MeanPeriodHours != 0 {
		t.Errorf("mean period = %v from a single minimum, want 0", an.MeanPeriodHours)
	}
}

// A deep approach buried inside one long pass must still surface as an
// envelope minimum: the extraction runs over the full approach sequence,
// not over per-pass summaries.
func TestAnalyzeMinimaWithinSinglePass(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	depths := []float64{500, 400, 100, 400, 500, 600, 700}
	events := make([]conjunction.Event, len(depths))
	for i, d := range depths {
		events[i] = eventAt(t0.Add(time.Duration(i)*20*time.Minute), d)
	}

	an := Analyze(events, DefaultPassGap, DefaultWindowSize, DefaultMinimumDedupe)
	if len(an.Passes) != 1 {
		t.Fatalf("got %d passes, want 1 (20 min spacing never splits)", len(an.Passes))
	}
	if len(an.Minima) != 1 {
		t.Fatalf("got %d envelope minima, want 1", len(an.Minima))
	}
	if an.Minima[0].DistanceKm != 100 {
		t.Errorf("envelope minimum = %v km, want 100", an.Minima[0].DistanceKm)
	}
	if !an.Minima[0].Time.Equal(t0.Add(40 * time.Minute)) {
		t.Errorf("envelope minimum at %v, want %v", an.Minima[0].Time, t0.Add(40*time.Minute))
	}
}

func TestAnalyzeStats(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Two envelope troughs of different depth, 56 hours apart.
	depths := []float64{800, 600, 300, 90, 280, 550, 780, 820, 640, 310, 70, 260, 590, 810}
	events := make([]conjunction.Event, len(depths))
	for i, d := range depths {
		events[i] = eventAt(t0.Add(time.Duration(i)*8*time.Hour), d)
	}

	an := Analyze(events, DefaultPassGap, DefaultWindowSize, DefaultMinimumDedupe)
	if len(an.Minima) != 2 {
		t.Fatalf("got %d minima, want 2", len(an.Minima))
	}
	if an.DeepestKm != 70 || an.ShallowestKm != 90 {
		t.Errorf("stats = deepest %v / shallowest %v, want 70 / 90", an.DeepestKm, an.ShallowestKm)
	}
	if an.MeanPeriodHours != 56 {
		t.Errorf("mean period = %v h, want 56", an.MeanPeriodHours)
	}
}

func TestOrbitalTheory(t *testing.T) {
	// ISS-like orbit: ~420 km, 51.6 degrees.
	period := OrbitalPeriodMinutes(420)
	if math.Abs(period-92.9) > 0.5 {
		t.Errorf("period = %.2f min, want ~92.9", period)
	}

	raan := RAANPrecessionDegPerDay(420, 51.6)
	if math.Abs(raan-(-5.0)) > 0.3 {
		t.Errorf("RAAN rate = %.3f deg/day, want ~-5.0", raan)
	}

	// Polar orbits barely precess; retrograde sun-synchronous ones precess
	// eastward.
	if r := RAANPrecessionDegPerDay(600, 90); math.Abs(r) > 1e-9 {
		t.Errorf("polar RAAN rate = %v, want 0", r)
	}
	if r := RAANPrecessionDegPerDay(600, 97.8); r <= 0 {
		t.Errorf("sun-synchronous RAAN rate = %v, want positive", r)
	}
}

func TestSynodicPeriod(t *testing.T) {
	// 92 vs 95 minute orbits realign every ~48.6 hours.
	got := SynodicPeriodHours(92, 95)
	want := 92.0 * 95 / 3 / 60
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("synodic period = %v h, want %v", got, want)
	}

	if !math.IsInf(SynodicPeriodHours(92, 92), 1) {
		t.Error("equal periods must give +Inf")
	}
}

func TestDifferentialRAANPeriod(t *testing.T) {
	got := DifferentialRAANPeriodHours(-5.0, -4.5)
	if want := 360 / 0.5 * 24; math.Abs(got-want) > 1e-9 {
		t.Errorf("differential RAAN period = %v h, want %v", got, want)
	}
	if !math.IsInf(DifferentialRAANPeriodHours(-5, -5), 1) {
		t.Error("locked planes must give +Inf")
	}
}
