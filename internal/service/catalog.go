package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/directory"
	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/observability"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CatalogCacheName labels the read-model cache in metrics.
const CatalogCacheName = "catalog"

const catalogKey = "catalog"

// catalogLoadTimeout bounds a shared read-model load. The load runs detached
// from the caller so one disconnecting client cannot fail its followers.
const catalogLoadTimeout = 10 * time.Second

// CatalogView is the public read model: one consistent copy of the
// provider list and settings (which carry the category list).
type CatalogView struct {
	Providers []domain.Provider
	Settings  domain.AppSettings
}

// HomeView is the payload of the public home page.
type HomeView struct {
	Settings   domain.AppSettings       `json:"settings"`
	Categories []domain.ServiceCategory `json:"categories"`
	Featured   []domain.Provider        `json:"featured"`
	TopRated   []domain.Provider        `json:"top_rated"`
}

// CatalogService serves the public read paths. Reads never fail: when the
// store is unreachable they degrade to an empty catalog and log.
type CatalogService struct {
	providers port.ProviderStore
	settings  *SettingsService
	analytics *AnalyticsService
	cache     port.Cache[CatalogView]
	metrics   *observability.Metrics
	logger    *zap.Logger

	group singleflight.Group
	// mu makes "bump gen + delete" and "compare gen + set" atomic with
	// respect to each other. A load that started before a write never
	// repopulates the cache with stale data.
	mu  sync.Mutex
	gen uint64
}

// NewCatalogService creates the public catalog service.
func NewCatalogService(
	providers port.ProviderStore,
	settings *SettingsService,
	analytics *AnalyticsService,
	cache port.Cache[CatalogView],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CatalogService {
	s := &CatalogService{
		providers: providers,
		settings:  settings,
		analytics: analytics,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
	settings.OnChange(s.Invalidate)
	return s
}

// Invalidate drops the cached read model. Every catalog write calls it
// before returning, so the next public read sees the change.
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.cache.Delete(catalogKey)
	s.group.Forget(catalogKey)
}

func (s *CatalogService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// cacheIfCurrent caches v only if no write landed since the load that built it began.
func (s *CatalogService) cacheIfCurrent(gen uint64, v CatalogView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen == gen {
		s.cache.Set(catalogKey, v)
	}
}

// View returns the current read model, loading it at most once across
// concurrent callers.
func (s *CatalogService) View(ctx context.Context) (CatalogView, error) {
	if v, ok := s.cache.Get(catalogKey); ok {
		s.metrics.IncrCacheHit(CatalogCacheName)
		return v, nil
	}
	s.metrics.IncrCacheMiss(CatalogCacheName)

	res, err, _ := s.group.Do(catalogKey, func() (any, error) {
		gen := s.generation()
		start := time.Now()
		defer func() { s.metrics.RecordRequestDuration("catalog.load", time.Since(start)) }()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), catalogLoadTimeout)
		defer cancel()

		providers, err := s.providers.ListProviders(ctx)
		if err != nil {
			return nil, err
		}
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		v := CatalogView{Providers: providers, Settings: *settings}
		s.cacheIfCurrent(gen, v)
		return v, nil
	})
	if err != nil {
		return CatalogView{}, err
	}
	return res.(CatalogView), nil
}

// view is View with the degrade-to-empty policy applied.
func (s *CatalogService) view(ctx context.Context, op string) CatalogView {
	v, err := s.View(ctx)
	if err != nil {
		s.metrics.IncrExternalError("catalog")
		s.logger.Warn("catalog unavailable, serving empty result",
			zap.String("operation", op),
			zap.Error(err),
		)
		return CatalogView{Providers: []domain.Provider{}, Settings: domain.DefaultSettings()}
	}
	return v
}

// Home returns the settings, enabled categories, featured and top rated providers.
func (s *CatalogService) Home(ctx context.Context) *HomeView {
	ctx, span := tracer.Start(ctx, "CatalogService.Home")
	defer span.End()

	v := s.view(ctx, "home")
	return &HomeView{
		Settings:   v.Settings,
		Categories: directory.EnabledCategories(v.Settings.ServiceCategories),
		Featured:   directory.Featured(v.Providers),
		TopRated:   directory.TopRated(v.Providers),
	}
}

// Categories returns the enabled categories in display order.
func (s *CatalogService) Categories(ctx context.Context) []domain.ServiceCategory {
	ctx, span := tracer.Start(ctx, "CatalogService.Categories")
	defer span.End()

	return directory.EnabledCategories(s.view(ctx, "categories").Settings.ServiceCategories)
}

// Search filters the catalog and logs a search event in the background.
func (s *CatalogService) Search(ctx context.Context, f directory.Filter) []domain.Provider {
	ctx, span := tracer.Start(ctx, "CatalogService.Search")
	defer span.End()
	span.SetAttributes(attribute.String("search.query", f.Query), attribute.String("search.category", f.Category))

	results := directory.FilterProviders(s.view(ctx, "search").Providers, f)

	if f.Query != "" || (f.Category != "" && f.Category != directory.AllCategories) {
		s.analytics.Track(ctx, TrackInput{
			EventType:   domain.EventSearch,
			Category:    f.Category,
			SearchQuery: f.Query,
			Metadata:    map[string]any{"results": len(results), "min_rating": f.MinRating},
		})
	}
	return results
}

// Provider returns the business detail for id and records a page view in
// the background.
func (s *CatalogService) Provider(ctx context.Context, id string) (*domain.Provider, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.Provider")
	defer span.End()
	span.SetAttributes(attribute.String("provider.id", id))

	p, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	pid := p.ID
	s.analytics.Track(ctx, TrackInput{
		EventType:  domain.EventPageView,
		ProviderID: &pid,
		Category:   p.Category,
	})
	return p, nil
}

// RecordInteraction logs a call, WhatsApp or share click for a provider.
func (s *CatalogService) RecordInteraction(ctx context.Context, id string, event domain.EventType) error {
	ctx, span := tracer.Start(ctx, "CatalogService.RecordInteraction")
	defer span.End()

	if _, ok := domain.StatForEvent(event); !ok || event == domain.EventPageView {
		return &domain.ErrValidation{Field: "event", Message: "must be call, whatsapp or share"}
	}
	p, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}

	pid := p.ID
	s.analytics.Track(ctx, TrackInput{
		EventType:  event,
		ProviderID: &pid,
		Category:   p.Category,
	})
	return nil
}

func (s *CatalogService) lookup(ctx context.Context, id string) (*domain.Provider, error) {
	p, res := directory.Lookup(s.view(ctx, "lookup").Providers, id)
	switch res {
	case directory.NoIDRequested:
		return nil, &domain.ErrValidation{Field: "id", Message: "required"}
	case directory.NotFound:
		return nil, &domain.ErrNotFound{Resource: "provider", ID: id}
	}
	return &p, nil
}

// ParseProviderID converts a path id to the numeric provider key.
func ParseProviderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ErrValidation{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}
