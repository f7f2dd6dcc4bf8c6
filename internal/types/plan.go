package types

import "github.com/google/uuid"

// Activity is one timed visit within a day.
type Activity struct {
	TimeSlot    string `json:"time_slot"`
	DisplayName string `json:"display_name"` // icon + name
	SpotID      string `json:"spot_id"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
}

// DayPlan is one day's ordered sequence of visits.
type DayPlan struct {
	DayNumber       int        `json:"day_number"` // 1-based, contiguous
	Date            string     `json:"date"`       // YYYY-MM-DD
	Activities      []Activity `json:"activities"`
	EndTime         string     `json:"end_time"`
	TotalDistanceKm float64    `json:"total_distance_km"`
}

// PlanSummary aggregates the whole trip.
type PlanSummary struct {
	DurationDays    int     `json:"duration_days"`
	TotalSpots      int     `json:"total_spots"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	BudgetLevel     string  `json:"budget_level"`
	Companion       string  `json:"companion"`
}

// TravelPlan is the final artifact returned to the caller.
//
// Invariants: the day distances sum to Summary.TotalDistanceKm (within
// 2-decimal rounding), activity counts sum to Summary.TotalSpots, and day
// numbers are contiguous starting at 1.
type TravelPlan struct {
	ID          uuid.UUID `json:"id"`
	Summary     PlanSummary `json:"summary"`
	Itineraries []DayPlan   `json:"itineraries"`
}
