package handler

import (
	"net/http"
	"strconv"

	"github.com/boddenberg/urbanhand-directory-go/internal/directory"
	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Public directory: /v1/home, /v1/search, /v1/providers
// ============================================================

func homeHandler(catalog *service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/home")
		defer span.End()

		writeJSON(w, http.StatusOK, catalog.Home(ctx))
	}
}

func categoriesHandler(catalog *service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/categories")
		defer span.End()

		writeJSON(w, http.StatusOK, catalog.Categories(ctx))
	}
}

func searchHandler(catalog *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/search")
		defer span.End()

		f, err := parseFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, catalog.Search(ctx, f))
	}
}

// parseFilter reads q, category, min_rating and open_now from the query.
func parseFilter(r *http.Request) (directory.Filter, error) {
	q := r.URL.Query()
	f := directory.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	if v := q.Get("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil || rating < 0 || rating > 5 {
			return f, &domain.ErrValidation{Field: "min_rating", Message: "must be a number between 0 and 5"}
		}
		f.MinRating = rating
	}
	if v := q.Get("open_now"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return f, &domain.ErrValidation{Field: "open_now", Message: "must be true or false"}
		}
		f.OpenNow = open
	}
	return f, nil
}

func providerHandler(catalog *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/providers/{id}")
		defer span.End()

		p, err := catalog.Provider(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

var interactionEvents = map[string]domain.EventType{
	"call":     domain.EventCallClick,
	"whatsapp": domain.EventWhatsappClick,
	"share":    domain.EventShareClick,
}

func providerEventHandler(catalog *service.CatalogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/providers/{id}/events/{kind}")
		defer span.End()

		event, ok := interactionEvents[chi.URLParam(r, "kind")]
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "must be call, whatsapp or share", Field: "kind"})
			return
		}
		if err := catalog.RecordInteraction(ctx, chi.URLParam(r, "id"), event); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusAccepted, domain.SuccessResponse{Message: "recorded"})
	}
}

// ============================================================
// Get listed: /v1/plans, /v1/get-listed
// ============================================================

func activePlansHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/plans")
		defer span.End()

		plans, err := moderation.ActivePlans(ctx)
		if err != nil {
			logger.Warn("plans unavailable, serving empty list", zap.Error(err))
			plans = []domain.PricingPlan{}
		}
		writeJSON(w, http.StatusOK, plans)
	}
}

type getListedForm struct {
	Categories []domain.ServiceCategory `json:"categories"`
	Plans      []domain.PricingPlan     `json:"plans"`
	Payment    domain.PaymentDetails    `json:"payment"`
}

func getListedFormHandler(catalog *service.CatalogService, moderation *service.ModerationService, settings *service.SettingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/get-listed")
		defer span.End()

		plans, err := moderation.ActivePlans(ctx)
		if err != nil {
			logger.Warn("plans unavailable, serving empty list", zap.Error(err))
			plans = []domain.PricingPlan{}
		}
		writeJSON(w, http.StatusOK, getListedForm{
			Categories: catalog.Categories(ctx),
			Plans:      plans,
			Payment:    settings.PaymentDetails(ctx),
		})
	}
}

func getListedHandler(submissions *service.SubmissionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/get-listed")
		defer span.End()

		var app domain.ProviderApplication
		if err := decodeJSON(w, r, &app); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		res, err := submissions.Submit(ctx, &app)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}
