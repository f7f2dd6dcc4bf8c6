package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/yuneten/tabiplan/internal/types"
)

const maxSpotsPerDay = 4

// Fixed visit slots assigned positionally to each day's ordered spots.
var timeSlots = [maxSpotsPerDay]string{"09:00", "11:30", "14:00", "16:30"}

// durationDayCounts maps the questionnaire duration label to a day count.
var durationDayCounts = map[string]int{
	"short":  1,
	"medium": 3,
	"long":   5,
}

// ResolveDurationDays returns the day count for a duration label,
// defaulting to a single day for unknown labels.
func ResolveDurationDays(duration string) int {
	if days, ok := durationDayCounts[duration]; ok {
		return days
	}
	return 1
}

// ItineraryBuilder partitions selected spots across days and orders each
// day's visits with a nearest-neighbor heuristic.
type ItineraryBuilder struct{}

func NewItineraryBuilder() *ItineraryBuilder {
	return &ItineraryBuilder{}
}

// Build distributes spots over durationDays day plans. Short pools shrink
// the trip rather than stretching it thin: fewer than three spots a day
// reduces the day count to max(1, len(spots)/3). No spot is dropped.
func (b *ItineraryBuilder) Build(spotList []types.Spot, durationDays int, startDate time.Time) []types.DayPlan {
	if len(spotList) == 0 {
		return nil
	}
	if durationDays < 1 {
		durationDays = 1
	}
	if len(spotList) < durationDays*3 {
		durationDays = len(spotList) / 3
		if durationDays < 1 {
			durationDays = 1
		}
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}

	days := make([]types.DayPlan, 0, durationDays)
	remaining := spotList
	for day := 1; day <= durationDays && len(remaining) > 0; day++ {
		daysLeft := durationDays - day + 1
		quota := int(math.Ceil(float64(len(remaining)) / float64(daysLeft)))
		if quota > maxSpotsPerDay {
			quota = maxSpotsPerDay
		}
		assigned := remaining[:quota]
		remaining = remaining[quota:]

		ordered := orderByNearestNeighbor(assigned)
		days = append(days, types.DayPlan{
			DayNumber:       day,
			Date:            startDate.AddDate(0, 0, day-1).Format("2006-01-02"),
			Activities:      activitiesFor(ordered),
			EndTime:         endTimeFor(len(ordered)),
			TotalDistanceKm: RouteDistanceKm(ordered),
		})
	}
	return days
}

// orderByNearestNeighbor reorders a day's spots greedily: the first
// assigned spot stays fixed as the day's start, and each following visit is
// the unvisited spot nearest to the last one. Greedy, not exact TSP; with
// at most four spots a day the approximation is acceptable. Spots without
// coordinates are appended at the end in their original order.
func orderByNearestNeighbor(spotList []types.Spot) []types.Spot {
	if len(spotList) < 2 {
		return spotList
	}

	var located, unlocated []types.Spot
	for _, spot := range spotList {
		if spot.HasCoordinates() {
			located = append(located, spot)
		} else {
			unlocated = append(unlocated, spot)
		}
	}
	if len(located) < 2 {
		return append(located, unlocated...)
	}

	ordered := make([]types.Spot, 0, len(spotList))
	ordered = append(ordered, located[0])
	visited := make([]bool, len(located))
	visited[0] = true
	for len(ordered) < len(located) {
		last := ordered[len(ordered)-1]
		nearest := -1
		nearestDist := math.MaxFloat64
		for i, candidate := range located {
			if visited[i] {
				continue
			}
			d := DistanceKm(*last.Coordinates, *candidate.Coordinates)
			if d < nearestDist {
				nearestDist = d
				nearest = i
			}
		}
		visited[nearest] = true
		ordered = append(ordered, located[nearest])
	}
	return append(ordered, unlocated...)
}

func activitiesFor(ordered []types.Spot) []types.Activity {
	activities := make([]types.Activity, 0, len(ordered))
	for i, spot := range ordered {
		slot := timeSlots[len(timeSlots)-1]
		if i < len(timeSlots) {
			slot = timeSlots[i]
		}
		activities = append(activities, types.Activity{
			TimeSlot:    slot,
			DisplayName: fmt.Sprintf("%s %s", spot.Icon, spot.Name),
			SpotID:      spot.ID,
			Description: spot.Description,
			Address:     spot.Address,
		})
	}
	return activities
}

// endTimeFor is the last used slot plus two hours, same minute.
func endTimeFor(spotCount int) string {
	if spotCount == 0 {
		return ""
	}
	if spotCount > len(timeSlots) {
		spotCount = len(timeSlots)
	}
	last := timeSlots[spotCount-1]
	var hour, minute int
	fmt.Sscanf(last, "%d:%d", &hour, &minute)
	return fmt.Sprintf("%02d:%02d", hour+2, minute)
}
