package planner

import (
	"math"

	"github.com/yuneten/tabiplan/internal/types"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates
// using the haversine formula, rounded to 2 decimal places.
func DistanceKm(a, b types.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return roundKm(earthRadiusKm * c)
}

// RouteDistanceKm sums the consecutive leg distances along the given order.
// Zero for fewer than two spots. A leg measures against the immediately
// preceding list entry; if either endpoint lacks coordinates the leg
// contributes zero without breaking the chain.
func RouteDistanceKm(spots []types.Spot) float64 {
	if len(spots) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(spots); i++ {
		prev, cur := spots[i-1], spots[i]
		if !prev.HasCoordinates() || !cur.HasCoordinates() {
			continue
		}
		total += DistanceKm(*prev.Coordinates, *cur.Coordinates)
	}
	return roundKm(total)
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
