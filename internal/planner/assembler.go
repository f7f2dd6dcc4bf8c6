package planner

import (
	"github.com/google/uuid"

	"github.com/yuneten/tabiplan/internal/types"
)

// AssemblePlan composes the final travel plan from built day plans. Pure
// aggregation: day distances and activity counts roll up into the summary,
// budget and companion are echoed from the answers.
func AssemblePlan(days []types.DayPlan, answers types.Answers) *types.TravelPlan {
	var totalSpots int
	var totalDistance float64
	for _, day := range days {
		totalSpots += len(day.Activities)
		totalDistance += day.TotalDistanceKm
	}

	return &types.TravelPlan{
		ID: uuid.New(),
		Summary: types.PlanSummary{
			DurationDays:    len(days),
			TotalSpots:      totalSpots,
			TotalDistanceKm: roundKm(totalDistance),
			BudgetLevel:     answers.Budget,
			Companion:       answers.Companion,
		},
		Itineraries: days,
	}
}
