// Package propagation wraps the SGP4 orbit propagator and exposes
// multi-snapshot ephemerides that always propagate from the snapshot whose
// epoch is nearest the queried instant.
package propagation

import (
	"fmt"
	"time"

	"github.com/kvsankar/sattosat/internal/metrics"
	"github.com/kvsankar/sattosat/internal/tle"
)

// Ephemeris pairs a snapshot catalog with preinitialized SGP4 propagators.
// Immutable after construction; safe for concurrent reads.
//
// Each query independently selects the nearest snapshot, so a trajectory
// sampled across a snapshot boundary has a position/velocity discontinuity
// at the midpoint between the two epochs. That is accepted behavior, not
// interpolated away.
type Ephemeris struct {
	catalog *tle.Catalog
	props   []*SGP4Propagator
}

// NewEphemeris initializes propagators for every snapshot in the catalog.
// Fails with tle.ErrEmptyCatalog for an empty catalog, or with the first
// SGP4 initialization error.
func NewEphemeris(catalog *tle.Catalog) (*Ephemeris, error) {
	if catalog.Len() == 0 {
		return nil, tle.ErrEmptyCatalog
	}

	props := make([]*SGP4Propagator, catalog.Len())
	for i := 0; i < catalog.Len(); i++ {
		p, err := NewSGP4Propagator(catalog.At(i))
		if err != nil {
			return nil, fmt.Errorf("snapshot %d: %w", i, err)
		}
		props[i] = p
	}

	return &Ephemeris{catalog: catalog, props: props}, nil
}

// StateAt propagates from the snapshot nearest to t.
func (e *Ephemeris) StateAt(t time.Time) (State, error) {
	idx, err := e.catalog.NearestIndex(t)
	if err != nil {
		return State{}, err
	}
	st, err := e.props[idx].StateAt(t)
	metrics.RecordPropagation(err == nil)
	return st, err
}

// Catalog returns the underlying snapshot catalog.
func (e *Ephemeris) Catalog() *tle.Catalog { return e.catalog }
