package api

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/kvsankar/sattosat/internal/conjunction"
	"github.com/kvsankar/sattosat/internal/config"
	"github.com/kvsankar/sattosat/internal/propagation"
	"github.com/kvsankar/sattosat/internal/tle"
)

// Pair is one configured satellite pair ready to scan.
type Pair struct {
	Name   string
	A      conjunction.StateProvider
	B      conjunction.StateProvider
	CatA   *tle.Catalog
	CatB   *tle.Catalog
	Anchor time.Time // zero means derive the window start from the catalogs
}

// WindowStart returns the configured anchor, or the later of the two
// catalogs' earliest epochs so both objects have usable elements.
func (p *Pair) WindowStart() time.Time {
	if !p.Anchor.IsZero() {
		return p.Anchor
	}
	aFirst, _ := p.CatA.EpochRange()
	bFirst, _ := p.CatB.EpochRange()
	if bFirst.After(aFirst) {
		return bFirst
	}
	return aFirst
}

// PairSet holds the configured pairs with a stable listing order.
type PairSet struct {
	byName map[string]*Pair
	names  []string
}

// NewPairSet builds an empty set.
func NewPairSet() *PairSet {
	return &PairSet{byName: make(map[string]*Pair)}
}

// Add registers a pair. Duplicate names replace the earlier entry.
func (ps *PairSet) Add(p *Pair) {
	if _, exists := ps.byName[p.Name]; !exists {
		ps.names = append(ps.names, p.Name)
		sort.Strings(ps.names)
	}
	ps.byName[p.Name] = p
}

// Get looks up a pair by name.
func (ps *PairSet) Get(name string) (*Pair, bool) {
	p, ok := ps.byName[name]
	return p, ok
}

// Names returns the pair names in sorted order.
func (ps *PairSet) Names() []string { return ps.names }

// LoadPairs reads every configured pair's element-set files and initializes
// ephemerides for both objects.
func LoadPairs(cfgs []config.PairConfig) (*PairSet, error) {
	ps := NewPairSet()
	for _, pc := range cfgs {
		p, err := loadPair(pc)
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", pc.Name, err)
		}
		ps.Add(p)
	}
	return ps, nil
}

func loadPair(pc config.PairConfig) (*Pair, error) {
	catA, err := loadCatalog(pc.TLEFileA)
	if err != nil {
		return nil, err
	}
	catB, err := loadCatalog(pc.TLEFileB)
	if err != nil {
		return nil, err
	}

	ephA, err := propagation.NewEphemeris(catA)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pc.TLEFileA, err)
	}
	ephB, err := propagation.NewEphemeris(catB)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pc.TLEFileB, err)
	}

	var anchor time.Time
	if pc.Anchor != "" {
		anchor, err = time.Parse(time.RFC3339, pc.Anchor)
		if err != nil {
			return nil, fmt.Errorf("invalid anchor: %w", err)
		}
	}

	return &Pair{
		Name:   pc.Name,
		A:      ephA,
		B:      ephB,
		CatA:   catA,
		CatB:   catB,
		Anchor: anchor,
	}, nil
}

func loadCatalog(path string) (*tle.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := tle.Parse(f, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tle.NewCatalog(entries), nil
}
