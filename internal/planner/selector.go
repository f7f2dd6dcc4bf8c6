package planner

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"github.com/yuneten/tabiplan/internal/spots"
	"github.com/yuneten/tabiplan/internal/types"
)

const (
	// maxRadiusKm bounds how far a candidate may sit from the base spot.
	// Anchoring on one base and discarding distant candidates keeps a plan
	// geographically realistic instead of scattering it across the region.
	maxRadiusKm = 60.0

	// primaryShare is the fraction of the requested count filled from
	// primary-tier categories before any tier is accepted.
	primaryShare = 0.8
)

// Rand is the injectable randomness source. Production uses a seeded
// math/rand source; tests inject a fixed seed for deterministic output.
type Rand interface {
	Intn(n int) int
}

// NewLockedRand wraps a math/rand source for concurrent use across
// requests.
func NewLockedRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

// SpotSelector pulls candidates through the source fallback chain and
// performs proximity-constrained, quota-weighted sampling around a random
// base spot.
type SpotSelector struct {
	chain   *spots.Chain
	catalog *Catalog
	rng     Rand
	logger  *slog.Logger
}

func NewSpotSelector(chain *spots.Chain, catalog *Catalog, rng Rand, logger *slog.Logger) *SpotSelector {
	return &SpotSelector{chain: chain, catalog: catalog, rng: rng, logger: logger}
}

// Select returns up to count spots coherent around a base spot, and the
// name of the source tier that supplied the pool. An empty result after
// every fallback tier means the caller should surface a failure; a result
// shorter than count is normal.
func (s *SpotSelector) Select(ctx context.Context, prefs types.PreferenceSet, count int) ([]types.Spot, string) {
	pool, sourceName := s.candidatePool(ctx, prefs)
	if len(pool) == 0 || count <= 0 {
		return nil, sourceName
	}

	base := s.pickBase(pool, prefs)
	base.DistanceFromBase = 0

	// Annotate and filter the rest by distance from the base.
	nearby := make([]types.Spot, 0, len(pool))
	for _, spot := range pool {
		if spot.ID == base.ID || !spot.HasCoordinates() {
			continue
		}
		d := DistanceKm(*base.Coordinates, *spot.Coordinates)
		if d > maxRadiusKm {
			continue
		}
		spot.DistanceFromBase = d
		nearby = append(nearby, spot)
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceFromBase < nearby[j].DistanceFromBase
	})

	selected := []types.Spot{base}
	taken := map[string]bool{base.ID: true}
	primaryTarget := int(float64(count) * primaryShare)

	// First pass: primary-tier spots, nearest first, up to ~80% of count.
	if len(prefs.Primary) > 0 {
		for _, spot := range nearby {
			if len(selected) >= primaryTarget {
				break
			}
			if !contains(prefs.Primary, spot.CategoryKey) || taken[spot.ID] {
				continue
			}
			taken[spot.ID] = true
			selected = append(selected, spot)
		}
	}

	// Second pass: any tier until count or exhaustion.
	for _, spot := range nearby {
		if len(selected) >= count {
			break
		}
		if taken[spot.ID] {
			continue
		}
		taken[spot.ID] = true
		selected = append(selected, spot)
	}

	s.logger.Debug("spots selected",
		slog.String("source", sourceName),
		slog.String("base", base.Name),
		slog.Int("pool", len(pool)),
		slog.Int("selected", len(selected)),
		slog.Int("requested", count))
	return selected, sourceName
}

// candidatePool walks the fallback chain until a tier yields records that
// survive normalization.
func (s *SpotSelector) candidatePool(ctx context.Context, prefs types.PreferenceSet) ([]types.Spot, string) {
	categoryKeys := prefs.AllCategories()
	for _, source := range s.chain.Sources() {
		raws := source.Fetch(ctx, categoryKeys)
		pool := s.catalog.NormalizeAll(raws)
		if len(pool) > 0 {
			return pool, source.Name()
		}
		s.logger.Warn("spot source yielded no usable candidates, falling back",
			slog.String("source", source.Name()),
			slog.Int("raw_records", len(raws)))
	}
	return nil, ""
}

// pickBase chooses the anchor spot at random, preferring primary-tier
// candidates, then secondary, then anything.
func (s *SpotSelector) pickBase(pool []types.Spot, prefs types.PreferenceSet) types.Spot {
	for _, tier := range [][]string{prefs.Primary, prefs.Secondary} {
		if len(tier) == 0 {
			continue
		}
		var matches []types.Spot
		for _, spot := range pool {
			if contains(tier, spot.CategoryKey) {
				matches = append(matches, spot)
			}
		}
		if len(matches) > 0 {
			return matches[s.rng.Intn(len(matches))]
		}
	}
	return pool[s.rng.Intn(len(pool))]
}
