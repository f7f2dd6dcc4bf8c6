package planner

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yuneten/tabiplan/internal/types"
)

func TestAnalyze(t *testing.T) {
	analyzer := NewPreferenceAnalyzer(slog.Default())

	t.Run("relax purpose with relaxed mood keeps relax primary", func(t *testing.T) {
		prefs := analyzer.Analyze(types.Answers{
			Mood:      "relaxed",
			Purpose:   "relax",
			Budget:    "medium",
			Duration:  "short",
			Companion: "couple",
		})
		assert.ElementsMatch(t, []string{CategoryRelax, CategoryNature}, prefs.Primary)
		assert.Contains(t, prefs.Secondary, CategoryGourmet)
	})

	t.Run("gourmet purpose always keeps gourmet primary", func(t *testing.T) {
		prefs := analyzer.Analyze(types.Answers{
			Mood:      "chilled",
			Purpose:   "gourmet",
			Budget:    "high",
			Duration:  "medium",
			Companion: "family",
		})
		assert.Contains(t, prefs.Primary, CategoryGourmet)
	})

	t.Run("excited mood promotes activity into primary", func(t *testing.T) {
		prefs := analyzer.Analyze(types.Answers{
			Mood:      "excited",
			Purpose:   "sightseeing",
			Budget:    "medium",
			Duration:  "short",
			Companion: "friends",
		})
		assert.Contains(t, prefs.Primary, CategoryActivity)
		assert.NotContains(t, prefs.Secondary, CategoryActivity)
	})

	t.Run("solo companion strips shopping everywhere", func(t *testing.T) {
		prefs := analyzer.Analyze(types.Answers{
			Mood:      "excited", // would otherwise add shopping to secondary
			Purpose:   "gourmet", // seeds shopping into secondary
			Budget:    "medium",
			Duration:  "short",
			Companion: "solo",
		})
		assert.NotContains(t, prefs.Primary, CategoryShopping)
		assert.NotContains(t, prefs.Secondary, CategoryShopping)
		assert.NotContains(t, prefs.Tertiary, CategoryShopping)
	})

	t.Run("low budget prepends nature to secondary", func(t *testing.T) {
		prefs := analyzer.Analyze(types.Answers{
			Mood:      "chilled",
			Purpose:   "gourmet",
			Budget:    "low",
			Duration:  "short",
			Companion: "couple",
		})
		assert.Equal(t, CategoryNature, prefs.Secondary[0])
	})

	t.Run("tiers are pairwise disjoint for every answer combination", func(t *testing.T) {
		for mood := range defaultMoodRules {
			for purpose := range defaultPurposeRules {
				for companion := range defaultCompanionRules {
					for _, budget := range []string{"low", "medium", "high"} {
						prefs := analyzer.Analyze(types.Answers{
							Mood:      mood,
							Purpose:   purpose,
							Budget:    budget,
							Duration:  "medium",
							Companion: companion,
						})
						seen := map[string]string{}
						for tierName, tier := range map[string][]string{
							"primary":   prefs.Primary,
							"secondary": prefs.Secondary,
							"tertiary":  prefs.Tertiary,
						} {
							for _, category := range tier {
								prev, dup := seen[category]
								assert.False(t, dup,
									"category %s in both %s and %s for %s/%s/%s/%s",
									category, prev, tierName, mood, purpose, budget, companion)
								seen[category] = tierName
							}
						}
						assert.True(t, prefs.HasPreference(),
							"no preferences for %s/%s/%s/%s", mood, purpose, budget, companion)
					}
				}
			}
		}
	})
}
