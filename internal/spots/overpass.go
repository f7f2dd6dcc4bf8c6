package spots

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/yuneten/tabiplan/internal/types"
)

// Hand-picked bounding boxes covering the service region (south,west,
// north,east): greater Osaka, Kyoto and Nara.
var regionBoxes = []string{
	"34.4,135.2,34.9,135.8",
	"34.8,135.5,35.3,136.0",
	"34.4,135.6,34.9,136.1",
}

// categorySelectors maps a category key to Overpass QL selector fragments.
// %s is replaced with a bounding box. One query per category is issued.
var categorySelectors = map[string][]string{
	"culture": {
		`node["historic"="castle"](%s);`,
		`way["historic"="castle"](%s);`,
		`node["amenity"="place_of_worship"]["religion"="buddhist"]["wikidata"](%s);`,
		`node["amenity"="place_of_worship"]["religion"="shinto"]["wikidata"](%s);`,
		`node["tourism"="museum"](%s);`,
		`way["tourism"="museum"](%s);`,
		`node["tourism"="gallery"](%s);`,
	},
	"nature": {
		`node["leisure"="park"]["wikidata"](%s);`,
		`node["tourism"="viewpoint"](%s);`,
	},
	"relax": {
		`node["natural"="hot_spring"](%s);`,
		`node["amenity"="public_bath"](%s);`,
		`node["leisure"="spa"](%s);`,
	},
	"gourmet": {
		`node["amenity"~"restaurant|cafe|fast_food|food_court|bar|pub"]["wikidata"](%s);`,
	},
	"activity": {
		`node["tourism"="theme_park"](%s);`,
		`way["tourism"="theme_park"](%s);`,
		`node["tourism"="zoo"](%s);`,
		`node["tourism"="aquarium"](%s);`,
		`node["leisure"="water_park"](%s);`,
	},
	"shopping": {
		`node["shop"="mall"](%s);`,
		`node["shop"="department_store"](%s);`,
		`node["amenity"="marketplace"](%s);`,
	},
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type overpassElement struct {
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// OverpassConfig tunes the external source client.
type OverpassConfig struct {
	Endpoint        string
	CategoryTimeout time.Duration
	FetchBudget     time.Duration
	ResultLimit     int
	CacheTTL        time.Duration
}

// OverpassSource fetches category-tagged points of interest from an
// Overpass interpreter endpoint. Per-category results are cached briefly;
// individual category failures are logged and omitted without aborting the
// rest of the fetch.
type OverpassSource struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	budget     time.Duration
	limit      int
	cache      *cache.Cache
	logger     *slog.Logger

	// OnQueryError, when set, is invoked once per failed category query.
	// Used to feed the external fetch error counter.
	OnQueryError func()
}

func (o *OverpassSource) recordQueryError() {
	if o.OnQueryError != nil {
		o.OnQueryError()
	}
}

func NewOverpassSource(cfg OverpassConfig, logger *slog.Logger) *OverpassSource {
	if cfg.CategoryTimeout <= 0 {
		cfg.CategoryTimeout = 25 * time.Second
	}
	if cfg.FetchBudget <= 0 {
		cfg.FetchBudget = 45 * time.Second
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = 150
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	return &OverpassSource{
		// Client timeout sits above the per-category context timeout so the
		// context, not the transport, decides when to give up.
		httpClient: &http.Client{Timeout: cfg.CategoryTimeout + 5*time.Second},
		endpoint:   cfg.Endpoint,
		timeout:    cfg.CategoryTimeout,
		budget:     cfg.FetchBudget,
		limit:      cfg.ResultLimit,
		cache:      cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:     logger,
	}
}

func (o *OverpassSource) Name() string { return "overpass" }

// Fetch issues one bounding-box query per requested category, concurrently.
// Each category has its own timeout and a failing category contributes an
// empty slice; the result is the concatenation of whatever succeeded. The
// whole fetch also runs under an overall budget so a stalled backend hands
// control back to the fallback chain instead of eating the request window.
func (o *OverpassSource) Fetch(ctx context.Context, categoryKeys []string) []types.RawSpot {
	ctx, cancel := context.WithTimeout(ctx, o.budget)
	defer cancel()

	var (
		mu      sync.Mutex
		records []types.RawSpot
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range categoryKeys {
		if _, ok := categorySelectors[key]; !ok {
			continue
		}
		key := key
		g.Go(func() error {
			recs := o.fetchCategory(gctx, key)
			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return nil // category failures never cancel siblings
		})
	}
	_ = g.Wait()
	return records
}

func (o *OverpassSource) fetchCategory(ctx context.Context, categoryKey string) []types.RawSpot {
	if cached, ok := o.cache.Get(categoryKey); ok {
		return cached.([]types.RawSpot)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	query := o.buildQuery(categoryKey)
	body := url.Values{"data": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewBufferString(body))
	if err != nil {
		o.logger.Error("failed to build overpass request", slog.String("category", categoryKey), slog.Any("error", err))
		return nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		o.logger.Warn("overpass query failed", slog.String("category", categoryKey), slog.Any("error", err))
		o.recordQueryError()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		o.logger.Warn("overpass returned non-OK status",
			slog.String("category", categoryKey),
			slog.Int("status", resp.StatusCode))
		o.recordQueryError()
		return nil
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		o.logger.Warn("failed to decode overpass response", slog.String("category", categoryKey), slog.Any("error", err))
		o.recordQueryError()
		return nil
	}

	records := make([]types.RawSpot, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		lat, lon := el.Lat, el.Lon
		if lat == nil && el.Center != nil {
			lat, lon = &el.Center.Lat, &el.Center.Lon
		}
		records = append(records, types.RawSpot{
			// External IDs are namespaced to avoid collision with the
			// curated dataset.
			ID:        fmt.Sprintf("osm-%d", el.ID),
			Latitude:  lat,
			Longitude: lon,
			Tags:      el.Tags,
		})
	}

	o.logger.Debug("overpass category fetched",
		slog.String("category", categoryKey),
		slog.Int("count", len(records)))
	o.cache.Set(categoryKey, records, cache.DefaultExpiration)
	return records
}

func (o *OverpassSource) buildQuery(categoryKey string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[out:json][timeout:%d];\n(\n", int(o.timeout.Seconds()))
	for _, selector := range categorySelectors[categoryKey] {
		for _, box := range regionBoxes {
			fmt.Fprintf(&sb, "  "+selector+"\n", box)
		}
	}
	fmt.Fprintf(&sb, ");\nout body %d;\n", o.limit)
	return sb.String()
}
