package planner

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuneten/tabiplan/internal/spots"
	"github.com/yuneten/tabiplan/internal/types"
)

func newTestService(chain *spots.Chain) *ServiceImpl {
	logger := slog.Default()
	return NewServiceImpl(chain, spots.NewStaticSource(logger), NewCatalog(), NewLockedRand(1), nil, logger)
}

func validAnswers() types.Answers {
	return types.Answers{
		Mood:      "relaxed",
		Purpose:   "relax",
		Budget:    "medium",
		Duration:  "short",
		Companion: "couple",
	}
}

func TestRecommendPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("builds a plan from a healthy source", func(t *testing.T) {
		chain := spots.NewChain(&stubSource{name: "stub", records: kansaiPool()})
		service := newTestService(chain)

		plan, err := service.RecommendPlan(ctx, validAnswers())
		require.NoError(t, err)
		require.NotNil(t, plan)
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", plan.ID.String())

		// Summary invariants: counts and distances roll up from the days.
		totalSpots := 0
		totalDistance := 0.0
		for i, day := range plan.Itineraries {
			assert.Equal(t, i+1, day.DayNumber)
			totalSpots += len(day.Activities)
			totalDistance += day.TotalDistanceKm
		}
		assert.Equal(t, totalSpots, plan.Summary.TotalSpots)
		assert.InDelta(t, totalDistance, plan.Summary.TotalDistanceKm, 0.01)
		assert.Equal(t, len(plan.Itineraries), plan.Summary.DurationDays)
		assert.Equal(t, "medium", plan.Summary.BudgetLevel)
		assert.Equal(t, "couple", plan.Summary.Companion)
	})

	t.Run("short duration yields a single day of up to three spots", func(t *testing.T) {
		chain := spots.NewChain(&stubSource{name: "stub", records: kansaiPool()})
		service := newTestService(chain)

		plan, err := service.RecommendPlan(ctx, validAnswers())
		require.NoError(t, err)
		require.Len(t, plan.Itineraries, 1)
		assert.LessOrEqual(t, len(plan.Itineraries[0].Activities), spotsPerDay)
	})

	t.Run("degrades to the minimum list when everything else is empty", func(t *testing.T) {
		chain := spots.NewChain(
			&stubSource{name: "external"},
			&stubSource{name: "curated"},
			spots.NewMinimumSource(),
		)
		service := newTestService(chain)

		plan, err := service.RecommendPlan(ctx, validAnswers())
		require.NoError(t, err)
		assert.Equal(t, 3, plan.Summary.TotalSpots)
	})

	t.Run("fails when every tier is exhausted", func(t *testing.T) {
		chain := spots.NewChain(&stubSource{name: "empty"})
		service := newTestService(chain)

		plan, err := service.RecommendPlan(ctx, validAnswers())
		assert.Nil(t, plan)
		assert.ErrorIs(t, err, ErrNoSpotsAvailable)
	})

	t.Run("rejects malformed answers before any fetch", func(t *testing.T) {
		external := &stubSource{name: "external", records: kansaiPool()}
		service := newTestService(spots.NewChain(external))

		answers := validAnswers()
		answers.Mood = "bored"
		plan, err := service.RecommendPlan(ctx, answers)
		assert.Nil(t, plan)

		var validationErr *types.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "mood", validationErr.Field)
		assert.Zero(t, external.calls)
	})
}

func TestListStaticSpots(t *testing.T) {
	service := newTestService(spots.NewChain(spots.NewMinimumSource()))

	spotList, err := service.ListStaticSpots(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, spotList)
	for _, spot := range spotList {
		assert.NotEmpty(t, spot.Name)
		assert.True(t, spot.HasCoordinates(), spot.ID)
	}
}

func TestSearchSpotsByCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only the requested category", func(t *testing.T) {
		chain := spots.NewChain(&stubSource{name: "stub", records: kansaiPool()})
		service := newTestService(chain)

		spotList, err := service.SearchSpotsByCategory(ctx, CategoryCulture)
		require.NoError(t, err)
		require.NotEmpty(t, spotList)
		for _, spot := range spotList {
			assert.Equal(t, CategoryCulture, spot.CategoryKey)
		}
	})

	t.Run("rejects unknown categories", func(t *testing.T) {
		service := newTestService(spots.NewChain(spots.NewMinimumSource()))

		spotList, err := service.SearchSpotsByCategory(ctx, "nightlife")
		assert.Nil(t, spotList)

		var validationErr *types.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "category", validationErr.Field)
	})

	t.Run("walks the chain past empty tiers", func(t *testing.T) {
		chain := spots.NewChain(
			&stubSource{name: "external"},
			&stubSource{name: "curated", records: kansaiPool()},
		)
		service := newTestService(chain)

		spotList, err := service.SearchSpotsByCategory(ctx, CategoryNature)
		require.NoError(t, err)
		assert.NotEmpty(t, spotList)
	})
}
