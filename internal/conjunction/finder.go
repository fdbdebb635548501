package conjunction

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/kvsankar/sattosat/internal/metrics"
)

// Finder runs the full pipeline over a window: sample separations, detect
// local minima, refine each to a precise event, then filter and rank.
type Finder struct {
	A           StateProvider
	B           StateProvider
	ThresholdKm float64       // events at or beyond this distance are discarded; <=0 means the default
	Precision   time.Duration // refinement stop width; <=0 means the default
	Workers     int
	Logger      *slog.Logger
}

// Find returns all conjunctions strictly closer than the threshold, sorted
// by ascending closest-approach distance.
func (f *Finder) Find(ctx context.Context, w Window) ([]Event, error) {
	threshold := f.ThresholdKm
	if threshold <= 0 {
		threshold = DefaultThresholdKm
	}

	events, err := f.Scan(ctx, w)
	if err != nil {
		return nil, err
	}

	filtered := events[:0]
	for _, ev := range events {
		if ev.DistanceKm < threshold {
			filtered = append(filtered, ev)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].DistanceKm < filtered[j].DistanceKm
	})
	return filtered, nil
}

// Scan returns every refined local minimum in the window, unfiltered, in
// time order. Candidates whose refinement fails to propagate are dropped.
func (f *Finder) Scan(ctx context.Context, w Window) ([]Event, error) {
	start := time.Now()

	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if w.Step <= 0 {
		w.Step = DefaultStep
	}

	sampler := &Sampler{A: f.A, B: f.B, Workers: f.Workers, Logger: logger}
	samples, err := sampler.Sample(ctx, w)
	if err != nil {
		return nil, err
	}

	refiner := &Refiner{A: f.A, B: f.B, Precision: f.Precision}

	var events []Event
	for _, b := range Brackets(samples, w.Step) {
		ev, err := refiner.Refine(ctx, b)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("candidate dropped", "around", b.At, "error", err)
			continue
		}
		events = append(events, ev)
	}

	metrics.RecordScan(time.Since(start), len(events))
	logger.Info("scan complete",
		"start", w.Start, "end", w.End, "step", w.Step,
		"samples", len(samples), "events", len(events),
		"elapsed", time.Since(start))
	return events, nil
}
