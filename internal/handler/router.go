package handler

import (
	"net/http"

	"github.com/boddenberg/urbanhand-directory-go/internal/infra/observability"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router dispatches to.
type Services struct {
	Catalog     *service.CatalogService
	Moderation  *service.ModerationService
	Submissions *service.SubmissionService
	Analytics   *service.AnalyticsService
	Owners      *service.OwnerService
	Settings    *service.SettingsService
	Auth        *service.AuthService
	System      *service.SystemService
}

// Options carries the HTTP-level settings.
type Options struct {
	CORSOrigins  []string
	SecureCookie bool
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, opts Options, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Location", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc.System))
	r.Get("/readyz", readyzHandler(svc.System))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	cookies := cookieJar{secure: opts.SecureCookie, ttl: svc.Auth.SessionTTL()}

	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Public directory
		// =============================================
		r.Get("/home", homeHandler(svc.Catalog))
		r.Get("/search", searchHandler(svc.Catalog, logger))
		r.Get("/categories", categoriesHandler(svc.Catalog))
		r.Get("/providers/{id}", providerHandler(svc.Catalog, logger))
		r.Post("/providers/{id}/events/{kind}", providerEventHandler(svc.Catalog, logger))
		r.Get("/plans", activePlansHandler(svc.Moderation, logger))
		r.Get("/get-listed", getListedFormHandler(svc.Catalog, svc.Moderation, svc.Settings, logger))
		r.Post("/get-listed", getListedHandler(svc.Submissions, logger))

		// =============================================
		// Admin
		// =============================================
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", loginHandler(svc.Auth.AdminLogin, adminArea, cookies, logger))
			r.Post("/logout", logoutHandler(adminArea, cookies))

			r.Group(func(r chi.Router) {
				r.Use(sessionMiddleware(svc.Auth, adminArea, logger))

				r.Get("/settings", getSettingsHandler(svc.Settings, logger))
				r.Patch("/settings", updateSettingsHandler(svc.Settings, logger))

				r.Get("/categories", listCategoriesHandler(svc.Moderation, logger))
				r.Post("/categories", createCategoryHandler(svc.Moderation, logger))
				r.Post("/categories/reorder", reorderCategoriesHandler(svc.Moderation, logger))
				r.Put("/categories/{id}", updateCategoryHandler(svc.Moderation, logger))
				r.Delete("/categories/{id}", deleteCategoryHandler(svc.Moderation, logger))
				r.Post("/categories/{id}/enabled", setCategoryEnabledHandler(svc.Moderation, logger))

				r.Get("/listings", listListingsHandler(svc.Moderation, logger))
				r.Post("/listings", createListingHandler(svc.Moderation, logger))
				r.Put("/listings/{id}", updateListingHandler(svc.Moderation, logger))
				r.Delete("/listings/{id}", deleteListingHandler(svc.Moderation, logger))

				r.Get("/plans", listPlansHandler(svc.Moderation, logger))
				r.Post("/plans", createPlanHandler(svc.Moderation, logger))
				r.Put("/plans/{id}", updatePlanHandler(svc.Moderation, logger))
				r.Delete("/plans/{id}", deletePlanHandler(svc.Moderation, logger))
				r.Post("/plans/{id}/toggle", togglePlanHandler(svc.Moderation, logger))
				r.Post("/plans/{id}/features", addFeatureHandler(svc.Moderation, logger))
				r.Delete("/plans/{id}/features", removeFeatureHandler(svc.Moderation, logger))

				r.Get("/submissions", listSubmissionsHandler(svc.Submissions, logger))
				r.Post("/submissions/{id}/approve", approveSubmissionHandler(svc.Submissions, logger))
				r.Post("/submissions/{id}/reject", rejectSubmissionHandler(svc.Submissions, logger))

				r.Get("/owners", listOwnersHandler(svc.Owners, logger))
				r.Post("/owners", createOwnerHandler(svc.Owners, logger))
				r.Get("/owners/unlinked-providers", unlinkedProvidersHandler(svc.Owners, logger))
				r.Post("/owners/{id}/password", resetOwnerPasswordHandler(svc.Owners, logger))
				r.Delete("/owners/{id}", deleteOwnerHandler(svc.Owners, logger))

				r.Get("/analytics", adminAnalyticsHandler(svc.Analytics, logger))
				r.Get("/system", systemHandler(svc.System, logger))
			})
		})

		// =============================================
		// Business owner
		// =============================================
		r.Route("/owner", func(r chi.Router) {
			r.Post("/login", loginHandler(svc.Auth.OwnerLogin, ownerArea, cookies, logger))
			r.Post("/logout", logoutHandler(ownerArea, cookies))

			r.Group(func(r chi.Router) {
				r.Use(sessionMiddleware(svc.Auth, ownerArea, logger))
				r.Get("/dashboard", ownerDashboardHandler(svc.Owners, logger))
			})
		})
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(sys *service.SystemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sys.Health(r.Context()))
	}
}

func readyzHandler(sys *service.SystemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := sys.Health(r.Context())
		status := http.StatusOK
		if h.Status == "unhealthy" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, h)
	}
}
