// Package envelope aggregates refined conjunction events into encounter
// passes and long-term approach cycles. A pass groups events separated by
// short gaps; envelope minima are the locally deepest approaches across
// many passes, revealing the slow beat between the two orbital planes.
package envelope

import (
	"sort"
	"time"

	"github.com/kvsankar/sattosat/internal/conjunction"
)

// Defaults for aggregation parameters.
const (
	DefaultPassGap       = 30 * time.Minute
	DefaultWindowSize    = 5
	DefaultMinimumDedupe = time.Hour
)

// Pass is a burst of conjunction events close together in time, summarized
// by its deepest member.
type Pass struct {
	Start  time.Time           `json:"start"`
	End    time.Time           `json:"end"`
	Events []conjunction.Event `json:"events"`
	Min    conjunction.Event   `json:"min"`
}

// Minimum is one locally deepest approach across the pass series.
type Minimum struct {
	Time       time.Time `json:"time"`
	DistanceKm float64   `json:"distance_km"`
}

// GroupPasses splits events into passes wherever the gap between consecutive
// events exceeds gap. Events are sorted by time first; the input slice is not
// modified. A non-positive gap uses the default.
func GroupPasses(events []conjunction.Event, gap time.Duration) []Pass {
	if len(events) == 0 {
		return nil
	}
	if gap <= 0 {
		gap = DefaultPassGap
	}

	sorted := make([]conjunction.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	var passes []Pass
	cur := []conjunction.Event{sorted[0]}
	for _, ev := range sorted[1:] {
		if ev.Time.Sub(cur[len(cur)-1].Time) > gap {
			passes = append(passes, summarize(cur))
			cur = nil
		}
		cur = append(cur, ev)
	}
	passes = append(passes, summarize(cur))
	return passes
}

func summarize(events []conjunction.Event) Pass {
	min := events[0]
	for _, ev := range events[1:] {
		if ev.DistanceKm < min.DistanceKm {
			min = ev
		}
	}
	return Pass{
		Start:  events[0].Time,
		End:    events[len(events)-1].Time,
		Events: events,
		Min:    min,
	}
}

// Minima returns the locally deepest approaches in a time-ordered event
// series. An event qualifies when no strictly closer event lies within
// windowSize neighbors on either side, and it falls more than dedupe after
// the previously accepted minimum. The half-window never drops below 2, so
// series shorter than five events yield nothing.
func Minima(events []conjunction.Event, windowSize int, dedupe time.Duration) []Minimum {
	half := windowSize / 2
	if half < 2 {
		half = 2
	}
	if dedupe <= 0 {
		dedupe = DefaultMinimumDedupe
	}
	if len(events) < 2*half+1 {
		return nil
	}

	var out []Minimum
	var lastAccepted time.Time
	for i := half; i < len(events)-half; i++ {
		lowest := true
		for j := i - half; j <= i+half; j++ {
			if j != i && events[j].DistanceKm < events[i].DistanceKm {
				lowest = false
				break
			}
		}
		if !lowest {
			continue
		}
		if !lastAccepted.IsZero() && events[i].Time.Sub(lastAccepted) <= dedupe {
			continue
		}
		out = append(out, Minimum{Time: events[i].Time, DistanceKm: events[i].DistanceKm})
		lastAccepted = events[i].Time
	}
	return out
}

// Periods returns the spacing between consecutive minima, in hours.
func Periods(minima []Minimum) []float64 {
	if len(minima) < 2 {
		return nil
	}
	out := make([]float64, 0, len(minima)-1)
	for i := 1; i < len(minima); i++ {
		out = append(out, minima[i].Time.Sub(minima[i-1].Time).Hours())
	}
	return out
}

// Analysis is the aggregate view of a scanned event series.
type Analysis struct {
	Passes      []Pass    `json:"passes"`
	Minima      []Minimum `json:"envelope_minima"`
	PeriodHours []float64 `json:"period_hours"`

	// Summary statistics; zero when there is nothing to summarize.
	MeanPeriodHours float64 `json:"mean_period_hours"`
	DeepestKm       float64 `json:"deepest_km"`
	ShallowestKm    float64 `json:"shallowest_km"`
}

// Analyze produces two independent groupings of the same event series:
// passes for presentation, and envelope minima extracted from the full
// time-ordered approach sequence. The extraction never operates on the
// per-pass summaries; a deep approach inside a single long pass is still
// an envelope minimum.
func Analyze(events []conjunction.Event, gap time.Duration, windowSize int, dedupe time.Duration) Analysis {
	passes := GroupPasses(events, gap)

	sorted := make([]conjunction.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	minima := Minima(sorted, windowSize, dedupe)
	periods := Periods(minima)

	an := Analysis{
		Passes:      passes,
		Minima:      minima,
		PeriodHours: periods,
	}

	if len(periods) > 0 {
		var sum float64
		for _, p := range periods {
			sum += p
		}
		an.MeanPeriodHours = sum / float64(len(periods))
	}
	if len(minima) > 0 {
		an.DeepestKm = minima[0].DistanceKm
		an.ShallowestKm = minima[0].DistanceKm
		for _, m := range minima[1:] {
			if m.DistanceKm < an.DeepestKm {
				an.DeepestKm = m.DistanceKm
			}
			if m.DistanceKm > an.ShallowestKm {
				an.ShallowestKm = m.DistanceKm
			}
		}
	}
	return an
}
