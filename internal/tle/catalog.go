package tle

import (
	"errors"
	"sort"
	"time"
)

// ErrEmptyCatalog is returned when a nearest-snapshot query is made against
// a catalog with no entries.
var ErrEmptyCatalog = errors.New("tle: empty catalog")

// Catalog is an ordered-by-epoch collection of snapshots for one object.
// Entries with identical epochs are kept in load order; the nearest query is
// stable, so the first-loaded entry wins exact-distance ties.
type Catalog struct {
	entries []TLE
}

// NewCatalog builds a catalog from entries, ordering them by epoch.
// The input slice is not retained.
func NewCatalog(entries []TLE) *Catalog {
	sorted := make([]TLE, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Epoch.Before(sorted[j].Epoch)
	})
	return &Catalog{entries: sorted}
}

// Len returns the number of snapshots in the catalog.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the snapshot at index i in epoch order.
func (c *Catalog) At(i int) TLE { return c.entries[i] }

// Entries returns the snapshots in epoch order. The returned slice must not
// be modified.
func (c *Catalog) Entries() []TLE { return c.entries }

// NearestIndex returns the index of the snapshot whose epoch is closest in
// absolute time to the given instant. Ties go to the first-occurring entry.
func (c *Catalog) NearestIndex(t time.Time) (int, error) {
	if len(c.entries) == 0 {
		return 0, ErrEmptyCatalog
	}
	best := 0
	bestDelta := absDelta(c.entries[0].Epoch, t)
	for i := 1; i < len(c.entries); i++ {
		if d := absDelta(c.entries[i].Epoch, t); d < bestDelta {
			best = i
			bestDelta = d
		}
	}
	return best, nil
}

// Nearest returns the snapshot whose epoch is closest to the given instant.
func (c *Catalog) Nearest(t time.Time) (TLE, error) {
	i, err := c.NearestIndex(t)
	if err != nil {
		return TLE{}, err
	}
	return c.entries[i], nil
}

// EpochRange returns the earliest and latest epochs in the catalog.
func (c *Catalog) EpochRange() (min, max time.Time) {
	if len(c.entries) == 0 {
		return time.Time{}, time.Time{}
	}
	return c.entries[0].Epoch, c.entries[len(c.entries)-1].Epoch
}

func absDelta(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
