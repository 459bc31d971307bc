package handler

import (
	"net/http"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Admin analytics: /v1/admin/analytics, /v1/admin/system
// ============================================================

// adminAnalyticsHandler serves the platform dashboard. With ?provider_id it
// returns that provider's counters instead.
func adminAnalyticsHandler(analytics *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/analytics")
		defer span.End()

		if raw := r.URL.Query().Get("provider_id"); raw != "" {
			id, err := service.ParseProviderID(raw)
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			stats, err := analytics.ProviderStats(ctx, id)
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			writeJSON(w, http.StatusOK, stats)
			return
		}

		dash, err := analytics.Dashboard(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dash)
	}
}

func systemHandler(sys *service.SystemService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/system")
		defer span.End()

		snap, err := sys.Snapshot(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// ============================================================
// Owner dashboard: /v1/owner/dashboard
// ============================================================

func ownerDashboardHandler(owners *service.OwnerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/owner/dashboard")
		defer span.End()

		sess := SessionFromContext(ctx)
		if sess == nil {
			handleServiceError(w, &domain.ErrUnauthorized{Message: "session required"}, logger)
			return
		}

		dash, err := owners.Dashboard(ctx, sess)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dash)
	}
}
