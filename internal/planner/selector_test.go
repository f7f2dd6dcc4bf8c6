package planner

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuneten/tabiplan/internal/spots"
	"github.com/yuneten/tabiplan/internal/types"
)

// stubSource is a fixed-response Source for chain tests.
type stubSource struct {
	name    string
	records []types.RawSpot
	calls   int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _ []string) []types.RawSpot {
	s.calls++
	return s.records
}

func rawAt(id, name, spotType string, lat, lon float64) types.RawSpot {
	return types.RawSpot{
		ID:        id,
		Latitude:  &lat,
		Longitude: &lon,
		Tags:      map[string]string{"name": name, "type": spotType},
	}
}

func kansaiPool() []types.RawSpot {
	return []types.RawSpot{
		rawAt("c1", "大阪城", "castle", 34.6873, 135.5259),
		rawAt("c2", "清水寺", "temple", 34.9949, 135.7851),
		rawAt("c3", "金閣寺", "temple", 35.0394, 135.7292),
		rawAt("n1", "奈良公園", "park", 34.6851, 135.8430),
		rawAt("n2", "嵐山", "viewpoint", 35.0094, 135.6668),
		rawAt("g1", "道頓堀の食堂", "restaurant", 34.6687, 135.5013),
		rawAt("a1", "海遊館", "aquarium", 34.6545, 135.4290),
		rawAt("s1", "黒門市場", "market", 34.6654, 135.5065),
		// Well outside the 60 km radius of any Kansai base.
		rawAt("far", "東京タワー", "attraction", 35.6586, 139.7454),
	}
}

func newTestSelector(chain *spots.Chain, seed int64) *SpotSelector {
	return NewSpotSelector(chain, NewCatalog(), NewLockedRand(seed), slog.Default())
}

func culturePrefs() types.PreferenceSet {
	return types.PreferenceSet{
		Primary:   []string{CategoryCulture},
		Secondary: []string{CategoryNature},
		Tertiary:  []string{CategoryGourmet},
	}
}

func TestSelect(t *testing.T) {
	t.Run("respects count and never duplicates", func(t *testing.T) {
		chain := spots.NewChain(&stubSource{name: "stub", records: kansaiPool()})
		selector := newTestSelector(chain, 1)

		selected, source := selector.Select(context.Background(), culturePrefs(), 5)
		assert.Equal(t, "stub", source)
		assert.LessOrEqual(t, len(selected), 5)
		assert.NotEmpty(t, selected)

		seen := map[string]bool{}
		for _, spot := range selected {
			assert.False(t, seen[spot.ID], "duplicate spot %s", spot.ID)
			seen[spot.ID] = true
		}
	})

	t.Run("base spot leads with zero distance", func(t *testing.T) {
		chain := spots.NewChain(&stubSource{name: "stub", records: kansaiPool()})
		selector := newTestSelector(chain, 1)

		selected, _ := selector.Select(context.Background(), culturePrefs(), 5)
		require.NotEmpty(t, selected)
		assert.Equal(t, 0.0, selected[0].DistanceFromBase)
		// Base is drawn from the primary tier when it has candidates.
		assert.Equal(t, CategoryCulture, selected[0].CategoryKey)
	})

	t.Run("excludes spots beyond the radius", func(t *testing.T) {
		chain := spots.NewChain(&stubSource{name: "stub", records: kansaiPool()})
		selector := newTestSelector(chain, 1)

		selected, _ := selector.Select(context.Background(), culturePrefs(), 20)
		for _, spot := range selected {
			assert.NotEqual(t, "far", spot.ID)
			assert.LessOrEqual(t, spot.DistanceFromBase, maxRadiusKm)
		}
	})

	t.Run("falls back past empty and unusable tiers", func(t *testing.T) {
		empty := &stubSource{name: "empty"}
		// Records that never survive normalization (no name).
		lat, lon := 34.7, 135.5
		junk := &stubSource{name: "junk", records: []types.RawSpot{
			{ID: "x", Latitude: &lat, Longitude: &lon, Tags: map[string]string{}},
		}}
		good := &stubSource{name: "good", records: kansaiPool()}
		selector := newTestSelector(spots.NewChain(empty, junk, good), 1)

		selected, source := selector.Select(context.Background(), culturePrefs(), 3)
		assert.Equal(t, "good", source)
		assert.NotEmpty(t, selected)
		assert.Equal(t, 1, empty.calls)
		assert.Equal(t, 1, junk.calls)
	})

	t.Run("empty chain yields nothing", func(t *testing.T) {
		selector := newTestSelector(spots.NewChain(&stubSource{name: "empty"}), 1)
		selected, source := selector.Select(context.Background(), culturePrefs(), 3)
		assert.Empty(t, selected)
		assert.Empty(t, source)
	})

	t.Run("same seed gives the same selection", func(t *testing.T) {
		pick := func(seed int64) string {
			chain := spots.NewChain(&stubSource{name: "stub", records: kansaiPool()})
			selected, _ := newTestSelector(chain, seed).Select(context.Background(), culturePrefs(), 5)
			ids := ""
			for _, spot := range selected {
				ids += fmt.Sprintf("%s,", spot.ID)
			}
			return ids
		}
		assert.Equal(t, pick(42), pick(42))
	})
}
