package planner

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yuneten/tabiplan/internal/api"
	"github.com/yuneten/tabiplan/internal/types"
)

type Handler struct {
	plannerService Service
	logger         *slog.Logger
}

func NewHandler(plannerService Service, logger *slog.Logger) *Handler {
	return &Handler{
		plannerService: plannerService,
		logger:         logger,
	}
}

// RecommendPlan builds a travel plan from questionnaire answers.
func (h *Handler) RecommendPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendPlan").Start(r.Context(), "RecommendPlan", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/plans/recommend"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "RecommendPlan"))
	l.DebugContext(ctx, "Recommend plan handler invoked")

	var answers types.Answers
	if err := api.DecodeJSONBody(w, r, &answers); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.plannerService.RecommendPlan(ctx, answers)
	if err != nil {
		var validationErr *types.ValidationError
		switch {
		case errors.As(err, &validationErr):
			l.WarnContext(ctx, "Invalid questionnaire answers", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, validationErr.Error())
		case errors.Is(err, ErrNoSpotsAvailable):
			l.ErrorContext(ctx, "No spots available from any source")
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "No spots available, please try again later")
		default:
			l.ErrorContext(ctx, "Failed to build travel plan", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build travel plan")
		}
		return
	}

	l.InfoContext(ctx, "Travel plan recommended", slog.String("plan_id", plan.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

// ListSpots returns the curated spot dataset.
func (h *Handler) ListSpots(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListSpots").Start(r.Context(), "ListSpots", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/spots"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListSpots"))

	spotList, err := h.plannerService.ListStaticSpots(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load spot dataset", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load spot dataset")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"count": len(spotList),
		"spots": spotList,
	})
}

// SearchSpots looks up spots for one category through the source chain.
func (h *Handler) SearchSpots(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SearchSpots").Start(r.Context(), "SearchSpots", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/spots/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchSpots"))

	categoryKey := r.URL.Query().Get("category")
	if categoryKey == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'category' is required")
		return
	}

	spotList, err := h.plannerService.SearchSpotsByCategory(ctx, categoryKey)
	if err != nil {
		var validationErr *types.ValidationError
		if errors.As(err, &validationErr) {
			api.ErrorResponse(w, r, http.StatusBadRequest, validationErr.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to search spots", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search spots")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"category": categoryKey,
		"count":    len(spotList),
		"spots":    spotList,
	})
}
