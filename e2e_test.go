package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/yuneten/tabiplan/internal/planner"
	"github.com/yuneten/tabiplan/internal/router"
	"github.com/yuneten/tabiplan/internal/spots"
	"github.com/yuneten/tabiplan/internal/types"
)

// E2ETestSuite exercises the full stack from HTTP request to assembled
// plan: real router, real service, real source chain. The external tier
// points at a mock Overpass server so the curated dataset and minimum
// list still get exercised when the mock plays dead.
type E2ETestSuite struct {
	suite.Suite
	overpass *httptest.Server
	server   *httptest.Server
	client   *http.Client

	overpassDown bool
}

func (s *E2ETestSuite) SetupSuite() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s.overpass = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.overpassDown {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"elements": [
			{"id": 1, "lat": 34.6873, "lon": 135.5259, "tags": {"name": "大阪城", "historic": "castle"}},
			{"id": 2, "lat": 34.9949, "lon": 135.7851, "tags": {"name": "清水寺", "religion": "buddhist"}},
			{"id": 3, "lat": 34.6851, "lon": 135.8430, "tags": {"name": "奈良公園", "leisure": "park"}},
			{"id": 4, "lat": 34.6687, "lon": 135.5013, "tags": {"name": "道頓堀の食堂", "amenity": "restaurant"}}
		]}`))
	}))

	overpassSource := spots.NewOverpassSource(spots.OverpassConfig{
		Endpoint:        s.overpass.URL,
		CategoryTimeout: 2 * time.Second,
		ResultLimit:     50,
		CacheTTL:        time.Millisecond, // keep tiers live between subtests
	}, logger)
	staticSource := spots.NewStaticSource(logger)
	chain := spots.NewChain(overpassSource, staticSource, spots.NewMinimumSource())

	catalog := planner.NewCatalog()
	service := planner.NewServiceImpl(chain, staticSource, catalog, planner.NewLockedRand(1), nil, logger)
	handler := planner.NewHandler(service, logger)

	s.server = httptest.NewServer(router.SetupRouter(&router.Config{PlannerHandler: handler}))
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *E2ETestSuite) TearDownSuite() {
	s.server.Close()
	s.overpass.Close()
}

func (s *E2ETestSuite) postJSON(path string, payload any) *http.Response {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)
	resp, err := s.client.Post(s.server.URL+path, "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	return resp
}

func (s *E2ETestSuite) TestRecommendPlanWorkflow() {
	resp := s.postJSON("/api/v1/plans/recommend", types.Answers{
		Mood:      "excited",
		Purpose:   "sightseeing",
		Budget:    "medium",
		Duration:  "short",
		Companion: "friends",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var plan types.TravelPlan
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&plan))
	s.Equal(1, plan.Summary.DurationDays)
	s.NotZero(plan.Summary.TotalSpots)
	s.Require().Len(plan.Itineraries, 1)
	s.NotEmpty(plan.Itineraries[0].Activities)
	s.NotEmpty(plan.Itineraries[0].Activities[0].TimeSlot)
}

func (s *E2ETestSuite) TestRecommendPlanRejectsBadAnswers() {
	resp := s.postJSON("/api/v1/plans/recommend", map[string]string{
		"mood":      "sleepy",
		"purpose":   "sightseeing",
		"budget":    "medium",
		"duration":  "short",
		"companion": "solo",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2ETestSuite) TestRecommendPlanSurvivesExternalOutage() {
	s.overpassDown = true
	defer func() { s.overpassDown = false }()

	resp := s.postJSON("/api/v1/plans/recommend", types.Answers{
		Mood:      "relaxed",
		Purpose:   "relax",
		Budget:    "low",
		Duration:  "medium",
		Companion: "couple",
	})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var plan types.TravelPlan
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&plan))
	s.NotZero(plan.Summary.TotalSpots)
}

func (s *E2ETestSuite) TestListSpots() {
	resp, err := s.client.Get(s.server.URL + "/api/v1/spots")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var got struct {
		Count int          `json:"count"`
		Spots []types.Spot `json:"spots"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.NotZero(got.Count)
	s.Len(got.Spots, got.Count)
}

func (s *E2ETestSuite) TestSearchSpots() {
	resp, err := s.client.Get(s.server.URL + "/api/v1/spots/search?category=culture")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var got struct {
		Category string       `json:"category"`
		Count    int          `json:"count"`
		Spots    []types.Spot `json:"spots"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Equal("culture", got.Category)
	for _, spot := range got.Spots {
		s.Equal("culture", spot.CategoryKey)
	}
}

func (s *E2ETestSuite) TestPing() {
	resp, err := s.client.Get(s.server.URL + "/ping")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
