package planner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/yuneten/tabiplan/app/observability/metrics"
	"github.com/yuneten/tabiplan/internal/spots"
	"github.com/yuneten/tabiplan/internal/types"
)

// ErrNoSpotsAvailable is returned when every source tier, including the
// built-in minimum list, failed to yield a usable candidate pool. By
// construction this should not happen.
var ErrNoSpotsAvailable = errors.New("no spots available from any source")

// Target number of spots requested from the selector per trip day. The
// itinerary builder caps a single day at four visits.
const spotsPerDay = 3

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for trip planning.
type Service interface {
	RecommendPlan(ctx context.Context, answers types.Answers) (*types.TravelPlan, error)
	ListStaticSpots(ctx context.Context) ([]types.Spot, error)
	SearchSpotsByCategory(ctx context.Context, categoryKey string) ([]types.Spot, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	analyzer  *PreferenceAnalyzer
	selector  *SpotSelector
	builder   *ItineraryBuilder
	catalog   *Catalog
	static    *spots.StaticSource
	chain     *spots.Chain
	appMetric *metrics.AppMetrics // optional, nil in tests
	now       func() time.Time
}

func NewServiceImpl(chain *spots.Chain, static *spots.StaticSource, catalog *Catalog, rng Rand, appMetric *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		analyzer:  NewPreferenceAnalyzer(logger),
		selector:  NewSpotSelector(chain, catalog, rng, logger),
		builder:   NewItineraryBuilder(),
		catalog:   catalog,
		static:    static,
		chain:     chain,
		appMetric: appMetric,
		now:       time.Now,
	}
}

// RecommendPlan runs the full pipeline: validate answers, analyze
// preferences, select spots through the source chain, partition them into
// day plans and assemble the final travel plan. Source failures degrade to
// a smaller-but-valid plan; only malformed answers and a fully exhausted
// pool surface as errors.
func (s *ServiceImpl) RecommendPlan(ctx context.Context, answers types.Answers) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "RecommendPlan", trace.WithAttributes(
		attribute.String("answers.purpose", answers.Purpose),
		attribute.String("answers.duration", answers.Duration),
	))
	defer span.End()
	start := time.Now()

	if err := answers.Validate(); err != nil {
		s.logger.WarnContext(ctx, "rejected malformed answers", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	prefs := s.analyzer.Analyze(answers)
	days := ResolveDurationDays(answers.Duration)

	selected, sourceName := s.selector.Select(ctx, prefs, days*spotsPerDay)
	if len(selected) == 0 {
		span.SetStatus(codes.Error, "candidate pool exhausted")
		return nil, ErrNoSpotsAvailable
	}

	dayPlans := s.builder.Build(selected, days, s.now())
	plan := AssemblePlan(dayPlans, answers)

	s.recordPlan(ctx, sourceName, time.Since(start))
	span.SetAttributes(
		attribute.String("plan.source", sourceName),
		attribute.Int("plan.days", plan.Summary.DurationDays),
		attribute.Int("plan.spots", plan.Summary.TotalSpots),
	)
	span.SetStatus(codes.Ok, "Plan assembled")
	s.logger.InfoContext(ctx, "travel plan assembled",
		slog.String("plan_id", plan.ID.String()),
		slog.String("source", sourceName),
		slog.Int("days", plan.Summary.DurationDays),
		slog.Int("spots", plan.Summary.TotalSpots),
		slog.Float64("total_km", plan.Summary.TotalDistanceKm))
	return plan, nil
}

// ListStaticSpots returns the normalized curated dataset.
func (s *ServiceImpl) ListStaticSpots(ctx context.Context) ([]types.Spot, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "ListStaticSpots")
	defer span.End()

	normalized := s.catalog.NormalizeAll(s.static.LoadAll(ctx))
	span.SetAttributes(attribute.Int("spots.count", len(normalized)))
	return normalized, nil
}

// SearchSpotsByCategory looks up one category through the source chain.
func (s *ServiceImpl) SearchSpotsByCategory(ctx context.Context, categoryKey string) ([]types.Spot, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "SearchSpotsByCategory", trace.WithAttributes(
		attribute.String("category", categoryKey),
	))
	defer span.End()

	if _, ok := defaultCategoryLabels[categoryKey]; !ok {
		err := &types.ValidationError{Field: "category", Message: "has unknown value"}
		span.RecordError(err)
		return nil, err
	}

	for _, source := range s.chain.Sources() {
		normalized := s.catalog.NormalizeAll(source.Fetch(ctx, []string{categoryKey}))
		matched := normalized[:0]
		for _, spot := range normalized {
			if spot.CategoryKey == categoryKey {
				matched = append(matched, spot)
			}
		}
		if len(matched) > 0 {
			span.SetAttributes(attribute.Int("spots.count", len(matched)), attribute.String("source", source.Name()))
			return matched, nil
		}
	}
	return []types.Spot{}, nil
}

func (s *ServiceImpl) recordPlan(ctx context.Context, sourceName string, elapsed time.Duration) {
	if s.appMetric == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("source", sourceName)}
	s.appMetric.PlanRequestsTotal.Add(ctx, 1)
	s.appMetric.PlanDurationSeconds.Record(ctx, elapsed.Seconds())
	s.appMetric.SpotSourceFallbackTotal.Add(ctx, 1, otelmetric.WithAttributes(attrs...))
}
