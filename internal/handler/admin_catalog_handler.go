package handler

import (
	"net/http"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Admin settings: /v1/admin/settings
// ============================================================

func getSettingsHandler(settings *service.SettingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/settings")
		defer span.End()

		st, err := settings.Get(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func updateSettingsHandler(settings *service.SettingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/admin/settings")
		defer span.End()

		var patch domain.SettingsPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		st, err := settings.Update(ctx, &patch)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// ============================================================
// Admin categories: /v1/admin/categories
// ============================================================

func listCategoriesHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/categories")
		defer span.End()

		cats, err := moderation.ListCategories(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cats)
	}
}

func createCategoryHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/categories")
		defer span.End()

		var in domain.CategoryInput
		if err := decodeJSON(w, r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		cat, err := moderation.CreateCategory(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, cat)
	}
}

func updateCategoryHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/admin/categories/{id}")
		defer span.End()

		var in domain.CategoryInput
		if err := decodeJSON(w, r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		cat, err := moderation.UpdateCategory(ctx, chi.URLParam(r, "id"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cat)
	}
}

func deleteCategoryHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/admin/categories/{id}")
		defer span.End()

		if err := moderation.DeleteCategory(ctx, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func reorderCategoriesHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/categories/reorder")
		defer span.End()

		var req domain.ReorderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		cats, err := moderation.ReorderCategory(ctx, req.From, req.To)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cats)
	}
}

func setCategoryEnabledHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/categories/{id}/enabled")
		defer span.End()

		var req domain.EnabledRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		cat, err := moderation.SetCategoryEnabled(ctx, chi.URLParam(r, "id"), req.Enabled)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cat)
	}
}

// ============================================================
// Admin listings: /v1/admin/listings
// ============================================================

func listListingsHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/listings")
		defer span.End()

		f, err := parseFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		listings, err := moderation.ListListings(ctx, f)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, listings)
	}
}

func createListingHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/listings")
		defer span.End()

		var in domain.ListingInput
		if err := decodeJSON(w, r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		p, err := moderation.CreateListing(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func updateListingHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/admin/listings/{id}")
		defer span.End()

		id, err := service.ParseProviderID(chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var patch domain.ProviderPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		p, err := moderation.UpdateListing(ctx, id, &patch)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func deleteListingHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/admin/listings/{id}")
		defer span.End()

		id, err := service.ParseProviderID(chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := moderation.DeleteListing(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Admin plans: /v1/admin/plans
// ============================================================

func listPlansHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/plans")
		defer span.End()

		plans, err := moderation.ListPlans(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, plans)
	}
}

func createPlanHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/plans")
		defer span.End()

		var in domain.PlanInput
		if err := decodeJSON(w, r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		plan, err := moderation.CreatePlan(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, plan)
	}
}

func updatePlanHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/admin/plans/{id}")
		defer span.End()

		var in domain.PlanInput
		if err := decodeJSON(w, r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		plan, err := moderation.UpdatePlan(ctx, chi.URLParam(r, "id"), &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

func deletePlanHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/admin/plans/{id}")
		defer span.End()

		if err := moderation.DeletePlan(ctx, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func togglePlanHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/plans/{id}/toggle")
		defer span.End()

		plan, err := moderation.TogglePlan(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

func addFeatureHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/plans/{id}/features")
		defer span.End()

		var req domain.FeatureRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		plan, err := moderation.AddFeature(ctx, chi.URLParam(r, "id"), req.Feature)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

// removeFeatureHandler takes the feature text from ?value= since DELETE
// bodies are dropped by some proxies.
func removeFeatureHandler(moderation *service.ModerationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/admin/plans/{id}/features")
		defer span.End()

		plan, err := moderation.RemoveFeature(ctx, chi.URLParam(r, "id"), r.URL.Query().Get("value"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}
