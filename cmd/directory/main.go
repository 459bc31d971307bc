package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/config"
	"github.com/boddenberg/urbanhand-directory-go/internal/handler"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/cache"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/memory"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/observability"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/redis"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/resilience"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/supabase"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"go.uber.org/zap"
)

// primaryStore is everything the directory persists in its main backend.
type primaryStore interface {
	port.Pinger
	port.SettingsStore
	port.ProviderStore
	port.PlanStore
	port.SubmissionStore
	port.OwnerStore
	port.AnalyticsStore
}

func main() {
	// --- Load .env file (for local development) ---
	config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_supabase", cfg.SupabaseEnabled()),
		zap.Bool("use_redis", cfg.RedisURL != ""),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Int("analytics_workers", cfg.AnalyticsWorkers),
	)

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(cfg.OTLPEndpoint, "urbanhand-directory")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	readModel := cache.New[service.CatalogView](cfg.CacheTTL)
	defer readModel.Close()

	// --- Primary store ---
	var store primaryStore
	primary := service.Backend{Name: "memory"}
	if cfg.SupabaseEnabled() {
		logger.Info("using Supabase as data backend", zap.String("supabase_url", cfg.SupabaseURL))
		store = supabase.NewClient(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			resilience.NewCircuitBreaker("supabase", logger),
			resilience.Config{
				MaxRetries:     cfg.MaxRetries,
				InitialBackoff: cfg.InitialBackoff,
				MaxConcurrency: cfg.MaxConcurrency,
			},
			logger,
		)
		primary.Name = "supabase"
	} else {
		logger.Warn("Supabase not configured, using in-memory store; data is lost on restart")
		store = memory.NewStore()
	}
	primary.Pinger = store

	// --- Analytics store and provider id sequence ---
	var analyticsStore port.AnalyticsStore = store
	var seq port.IDSequence = memory.NewSequence()
	analyticsBackend := primary
	if cfg.RedisURL != "" {
		startCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		rdb, err := redis.NewClient(startCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()

		redisAnalytics := redis.NewAnalyticsStore(rdb, "urbanhand", logger)
		analyticsStore = redisAnalytics
		seq = redis.NewSequence(rdb, "urbanhand")
		analyticsBackend = service.Backend{Name: "redis", Pinger: redisAnalytics}
		logger.Info("using Redis for analytics counters and provider ids")
	}

	if err := seedSequence(context.Background(), store, seq, cfg.HTTPTimeout); err != nil {
		logger.Fatal("failed to seed provider id sequence", zap.Error(err))
	}

	// --- Services ---
	settingsSvc := service.NewSettingsService(store, logger)
	analyticsSvc := service.NewAnalyticsService(analyticsStore, store, cfg.AnalyticsWorkers, cfg.AnalyticsTimeout, metrics, logger)
	catalogSvc := service.NewCatalogService(store, settingsSvc, analyticsSvc, readModel, metrics, logger)
	moderationSvc := service.NewModerationService(settingsSvc, catalogSvc, store, store, seq, metrics, logger)
	submissionSvc := service.NewSubmissionService(store, store, seq, settingsSvc, moderationSvc, catalogSvc, metrics, logger)
	ownerSvc := service.NewOwnerService(store, store, analyticsSvc, logger)
	authSvc := service.NewAuthService(store,
		service.AdminAccount{Email: cfg.AdminEmail, Password: cfg.AdminPassword},
		cfg.JWTSecret, cfg.SessionTTL, logger)
	systemSvc := service.NewSystemService(primary, analyticsBackend, catalogSvc, submissionSvc, metrics)

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Catalog:     catalogSvc,
		Moderation:  moderationSvc,
		Submissions: submissionSvc,
		Analytics:   analyticsSvc,
		Owners:      ownerSvc,
		Settings:    settingsSvc,
		Auth:        authSvc,
		System:      systemSvc,
	}, handler.Options{
		CORSOrigins:  cfg.CORSAllowedOrigins,
		SecureCookie: cfg.SecureCookie,
	}, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port), zap.String("backend", primary.Name))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}
	if err := analyticsSvc.Flush(ctx); err != nil {
		logger.Warn("analytics writes still in flight at shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// seedSequence raises the id sequence past the highest stored provider id.
func seedSequence(ctx context.Context, providers port.ProviderStore, seq port.IDSequence, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	list, err := providers.ListProviders(ctx)
	if err != nil {
		return fmt.Errorf("list providers: %w", err)
	}
	var floor int64
	for _, p := range list {
		if p.ID > floor {
			floor = p.ID
		}
	}
	return seq.Seed(ctx, floor)
}
