package spots

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/yuneten/tabiplan/internal/types"
)

//go:embed data/spots.json
var staticDataset []byte

type staticSpot struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Latitude     *float64 `json:"lat"`
	Longitude    *float64 `json:"lon"`
	Type         string   `json:"type"`
	Address      string   `json:"address,omitempty"`
	Description  string   `json:"description,omitempty"`
	Website      string   `json:"website,omitempty"`
	OpeningHours string   `json:"opening_hours,omitempty"`
}

type staticCategory struct {
	Name  string       `json:"name"`
	Spots []staticSpot `json:"spots"`
}

type staticFile struct {
	Version    string                    `json:"version"`
	Categories map[string]staticCategory `json:"categories"`
}

// StaticSource serves the curated, versioned fallback dataset embedded in
// the binary. The dataset is parsed once and read-only afterwards, so
// concurrent readers need no locking. A missing or malformed dataset
// yields an empty result rather than an error.
type StaticSource struct {
	once   sync.Once
	byKey  map[string][]types.RawSpot
	all    []types.RawSpot
	logger *slog.Logger
}

func NewStaticSource(logger *slog.Logger) *StaticSource {
	return &StaticSource{logger: logger}
}

func (s *StaticSource) Name() string { return "static" }

// Fetch returns the curated records for the requested categories. When the
// category filter matches nothing the whole dataset is returned, so a thin
// preference set still gets a usable pool.
func (s *StaticSource) Fetch(ctx context.Context, categoryKeys []string) []types.RawSpot {
	s.load()
	var out []types.RawSpot
	for _, key := range categoryKeys {
		out = append(out, s.byKey[key]...)
	}
	if len(out) == 0 {
		return s.LoadAll(ctx)
	}
	return out
}

// LoadAll returns the complete curated dataset.
func (s *StaticSource) LoadAll(_ context.Context) []types.RawSpot {
	s.load()
	return s.all
}

func (s *StaticSource) load() {
	s.once.Do(func() {
		s.byKey = make(map[string][]types.RawSpot)

		var file staticFile
		if err := json.Unmarshal(staticDataset, &file); err != nil {
			s.logger.Error("static spot dataset is malformed, falling through", slog.Any("error", err))
			return
		}

		for key, category := range file.Categories {
			for _, spot := range category.Spots {
				raw := types.RawSpot{
					ID:          spot.ID,
					Latitude:    spot.Latitude,
					Longitude:   spot.Longitude,
					CategoryKey: key,
					Tags: map[string]string{
						"name":          spot.Name,
						"type":          spot.Type,
						"addr:full":     spot.Address,
						"description":   spot.Description,
						"website":       spot.Website,
						"opening_hours": spot.OpeningHours,
					},
				}
				s.byKey[key] = append(s.byKey[key], raw)
				s.all = append(s.all, raw)
			}
		}
		s.logger.Info("static spot dataset loaded",
			slog.String("version", file.Version),
			slog.Int("spots", len(s.all)),
			slog.Int("categories", len(s.byKey)))
	})
}
