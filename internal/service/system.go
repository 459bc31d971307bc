package service

import (
	"context"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/observability"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"golang.org/x/sync/errgroup"
)

// Backend is a named store the health check pings.
type Backend struct {
	Name   string
	Pinger port.Pinger
}

// SystemService reports backend health and the admin system snapshot.
type SystemService struct {
	primary     Backend
	analytics   Backend
	catalog     *CatalogService
	submissions *SubmissionService
	metrics     *observability.Metrics
}

// NewSystemService creates the system service. primary and analytics may
// name the same backend.
func NewSystemService(primary, analytics Backend, catalog *CatalogService, submissions *SubmissionService, metrics *observability.Metrics) *SystemService {
	return &SystemService{
		primary:     primary,
		analytics:   analytics,
		catalog:     catalog,
		submissions: submissions,
		metrics:     metrics,
	}
}

// Health pings every distinct backend concurrently.
func (s *SystemService) Health(ctx context.Context) domain.HealthStatus {
	ctx, span := tracer.Start(ctx, "SystemService.Health")
	defer span.End()

	backends := []Backend{s.primary}
	if s.analytics.Name != s.primary.Name {
		backends = append(backends, s.analytics)
	}

	now := time.Now().Format(time.RFC3339)
	services := make([]domain.ServiceHealth, len(backends))
	var g errgroup.Group
	for i, b := range backends {
		i, b := i, b
		g.Go(func() error {
			start := time.Now()
			status := "healthy"
			if err := b.Pinger.Ping(ctx); err != nil {
				status = "unhealthy"
			}
			services[i] = domain.ServiceHealth{
				Name:        b.Name,
				Status:      status,
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: now,
			}
			return nil
		})
	}
	_ = g.Wait()

	overall := "healthy"
	for _, svc := range services {
		if svc.Status == "unhealthy" {
			// The primary store down is fatal; analytics down only degrades.
			if svc.Name == s.primary.Name {
				overall = "unhealthy"
				break
			}
			overall = "degraded"
		}
	}
	return domain.HealthStatus{Status: overall, Services: services}
}

// Snapshot returns catalog sizes and the analytics and cache counters.
func (s *SystemService) Snapshot(ctx context.Context) (*domain.SystemSnapshot, error) {
	ctx, span := tracer.Start(ctx, "SystemService.Snapshot")
	defer span.End()

	view, err := s.catalog.View(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.submissions.PendingCount(ctx)
	if err != nil {
		return nil, err
	}

	m := s.metrics.GetSnapshot(CatalogCacheName)
	return &domain.SystemSnapshot{
		Backend:          s.primary.Name,
		AnalyticsBackend: s.analytics.Name,
		Providers:        len(view.Providers),
		Categories:       len(view.Settings.ServiceCategories),
		PendingReviews:   pending,
		EventsDropped:    m.EventsDropped,
		EventsRecorded:   m.EventsRecorded,
		CacheHits:        m.CacheHits,
		CacheMisses:      m.CacheMisses,
	}, nil
}
