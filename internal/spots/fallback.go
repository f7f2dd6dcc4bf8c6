package spots

import (
	"context"

	"github.com/yuneten/tabiplan/internal/types"
)

func ptr(v float64) *float64 { return &v }

// minimumSpots is the terminal fallback: three well-known spots that keep a
// plan viable when both the live source and the curated dataset come up
// empty.
var minimumSpots = []types.RawSpot{
	{
		ID:        "min-osaka-castle",
		Latitude:  ptr(34.6873),
		Longitude: ptr(135.5259),
		Tags: map[string]string{
			"name":      "大阪城",
			"type":      "castle",
			"addr:full": "大阪府大阪市中央区大阪城1-1",
		},
	},
	{
		ID:        "min-kiyomizudera",
		Latitude:  ptr(34.9949),
		Longitude: ptr(135.7851),
		Tags: map[string]string{
			"name":      "清水寺",
			"type":      "temple",
			"addr:full": "京都府京都市東山区清水1丁目294",
		},
	},
	{
		ID:        "min-fushimi-inari",
		Latitude:  ptr(34.9671),
		Longitude: ptr(135.7727),
		Tags: map[string]string{
			"name":      "伏見稲荷大社",
			"type":      "shrine",
			"addr:full": "京都府京都市伏見区深草藪之内町68",
		},
	},
}

// MinimumSource is the always-available last tier of the fallback chain.
type MinimumSource struct{}

func NewMinimumSource() *MinimumSource { return &MinimumSource{} }

func (m *MinimumSource) Name() string { return "minimum" }

func (m *MinimumSource) Fetch(_ context.Context, _ []string) []types.RawSpot {
	out := make([]types.RawSpot, len(minimumSpots))
	copy(out, minimumSpots)
	return out
}
