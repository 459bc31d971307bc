package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/cache"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/memory"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/observability"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAdminEmail    = "admin@urbanhand.com"
	testAdminPassword = "admin123"
	testSecret        = "test-secret"
)

// env wires every service over one memory store, the way cmd/directory
// does for the zero-config backend.
type env struct {
	store       *memory.Store
	seq         *memory.Sequence
	metrics     *observability.Metrics
	settings    *service.SettingsService
	analytics   *service.AnalyticsService
	catalog     *service.CatalogService
	moderation  *service.ModerationService
	submissions *service.SubmissionService
	owners      *service.OwnerService
	auth        *service.AuthService
}

type envOption func(*envConfig)

type envConfig struct {
	providers port.ProviderStore
	analytics port.AnalyticsStore
	workers   int
	readModel port.Cache[service.CatalogView]
}

func withProviderStore(p port.ProviderStore) envOption {
	return func(c *envConfig) { c.providers = p }
}

func withReadModel(c port.Cache[service.CatalogView]) envOption {
	return func(cfg *envConfig) { cfg.readModel = c }
}

func withAnalyticsStore(a port.AnalyticsStore, workers int) envOption {
	return func(c *envConfig) {
		c.analytics = a
		c.workers = workers
	}
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()

	store := memory.NewStore()
	cfg := envConfig{providers: store, analytics: store, workers: 8}
	for _, o := range opts {
		o(&cfg)
	}

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	seq := memory.NewSequence()
	if cfg.readModel == nil {
		readModel := cache.New[service.CatalogView](time.Minute)
		t.Cleanup(readModel.Close)
		cfg.readModel = readModel
	}

	settings := service.NewSettingsService(store, logger)
	analytics := service.NewAnalyticsService(cfg.analytics, cfg.providers, cfg.workers, time.Second, metrics, logger)
	catalog := service.NewCatalogService(cfg.providers, settings, analytics, cfg.readModel, metrics, logger)
	moderation := service.NewModerationService(settings, catalog, cfg.providers, store, seq, metrics, logger)
	submissions := service.NewSubmissionService(store, cfg.providers, seq, settings, moderation, catalog, metrics, logger)
	owners := service.NewOwnerService(store, cfg.providers, analytics, logger)
	auth := service.NewAuthService(store, service.AdminAccount{Email: testAdminEmail, Password: testAdminPassword}, testSecret, time.Hour, logger)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = analytics.Flush(ctx)
	})

	return &env{
		store:       store,
		seq:         seq,
		metrics:     metrics,
		settings:    settings,
		analytics:   analytics,
		catalog:     catalog,
		moderation:  moderation,
		submissions: submissions,
		owners:      owners,
		auth:        auth,
	}
}

func (e *env) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.analytics.Flush(ctx))
}

func (e *env) addListing(t *testing.T, name, category string, rating float64, featured bool) domain.Provider {
	t.Helper()
	p, err := e.moderation.CreateListing(context.Background(), &domain.ListingInput{
		Name:     name,
		Category: category,
		Location: "Andheri",
		Featured: featured,
	})
	require.NoError(t, err)
	if rating > 0 {
		p, err = e.moderation.UpdateListing(context.Background(), p.ID, &domain.ProviderPatch{Rating: &rating})
		require.NoError(t, err)
	}
	return *p
}

func application(plan domain.PlanTier) *domain.ProviderApplication {
	return &domain.ProviderApplication{
		FullName:       "Ravi Kumar",
		BusinessName:   "Ravi Electricals",
		Category:       "Electrician",
		PhoneNumber:    "9876543210",
		WhatsappNumber: "9876543210",
		Address:        "Shop 4, Link Road, Malad",
		City:           "Mumbai",
		Description:    "Wiring and repairs",
		Plan:           plan,
	}
}

var errStoreDown = errors.New("store unreachable")

// downProviders fails every call, standing in for an unreachable backend.
type downProviders struct{}

func (downProviders) ListProviders(context.Context) ([]domain.Provider, error) {
	return nil, errStoreDown
}

func (downProviders) GetProvider(context.Context, int64) (*domain.Provider, error) {
	return nil, errStoreDown
}

func (downProviders) UpsertProvider(context.Context, *domain.Provider) error { return errStoreDown }

func (downProviders) DeleteProvider(context.Context, int64) error { return errStoreDown }
