package conjunction

import "time"

type trend int

const (
	trendUnknown trend = iota
	trendRising
	trendFalling
)

// Detector is a streaming local-minimum detector over separation samples.
// It tracks whether the separation is rising or falling; a falling-to-rising
// transition declares a minimum at the previous sample. Equal consecutive
// distances leave the trend unchanged, so a plateau followed by a rise still
// reports the minimum entered on the falling side.
type Detector struct {
	step  time.Duration
	prev  Sample
	seen  bool
	trend trend
}

// NewDetector returns a detector for samples spaced step apart. The step is
// only used to widen the bracket one sample before the observed minimum.
func NewDetector(step time.Duration) *Detector {
	return &Detector{step: step}
}

// Observe feeds the next sample. When it completes a falling-to-rising
// transition it returns the bracket around the previous sample and true.
//
// The bracket spans one full step on each side of the observed minimum:
// the true extremum lies between the neighbors of the coarse sample.
func (d *Detector) Observe(s Sample) (Bracket, bool) {
	if !d.seen {
		d.prev = s
		d.seen = true
		return Bracket{}, false
	}

	var found Bracket
	ok := false

	switch {
	case s.DistanceKm < d.prev.DistanceKm:
		d.trend = trendFalling
	case s.DistanceKm > d.prev.DistanceKm:
		if d.trend == trendFalling {
			found = Bracket{
				At:    d.prev.Time,
				Start: d.prev.Time.Add(-d.step),
				End:   s.Time,
			}
			ok = true
		}
		d.trend = trendRising
	}

	d.prev = s
	return found, ok
}

// Reset clears detector state for reuse on a new sample stream.
func (d *Detector) Reset() {
	d.seen = false
	d.trend = trendUnknown
}

// Brackets runs the detector over an already materialized sample slice.
func Brackets(samples []Sample, step time.Duration) []Bracket {
	d := NewDetector(step)
	var out []Bracket
	for _, s := range samples {
		if b, ok := d.Observe(s); ok {
			out = append(out, b)
		}
	}
	return out
}
