package service

import (
	"context"
	"sync"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/directory"
	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/observability"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/resilience"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecentActivityLimit is the size of the admin recent-activity feed.
const RecentActivityLimit = 20

// TrackInput describes one user interaction.
type TrackInput struct {
	EventType   domain.EventType
	ProviderID  *int64
	Category    string
	SearchQuery string
	Metadata    map[string]any
}

// AnalyticsService ingests events and serves the analytics dashboards.
// Writes are fire-and-forget: failures are logged and counted, never
// returned to the caller that triggered them.
type AnalyticsService struct {
	store     port.AnalyticsStore
	providers port.ProviderStore
	pool      *resilience.Bulkhead
	timeout   time.Duration
	metrics   *observability.Metrics
	logger    *zap.Logger
	now       func() time.Time

	// flushing is held for writing while Flush waits so no Track can
	// start a new write concurrently with inflight.Wait.
	flushing sync.RWMutex
	inflight sync.WaitGroup
	locks    keyedMutex
}

// NewAnalyticsService creates the aggregator. workers bounds the number of
// concurrent background writes; timeout bounds each one.
func NewAnalyticsService(
	store port.AnalyticsStore,
	providers port.ProviderStore,
	workers int,
	timeout time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		store:     store,
		providers: providers,
		pool:      resilience.NewBulkhead(workers),
		timeout:   timeout,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Track records in on the background pool. When every worker is busy the
// event is dropped and counted.
func (s *AnalyticsService) Track(ctx context.Context, in TrackInput) {
	if !s.pool.TryAcquire() {
		s.metrics.IncrAnalytics(observability.OutcomeDropped)
		s.logger.Warn("analytics pool saturated, dropping event",
			zap.String("event_type", string(in.EventType)),
		)
		return
	}

	// Detach from the request so the write outlives the response.
	bg := context.WithoutCancel(ctx)
	s.flushing.RLock()
	s.inflight.Add(1)
	s.flushing.RUnlock()
	go func() {
		defer s.inflight.Done()
		defer s.pool.Release()

		ctx, cancel := context.WithTimeout(bg, s.timeout)
		defer cancel()
		s.record(ctx, in)
	}()
}

// Flush blocks until every background write has finished or ctx is done.
// Tracks that arrive meanwhile wait for the in-flight writes to drain.
func (s *AnalyticsService) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.flushing.Lock()
		defer s.flushing.Unlock()
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AnalyticsService) record(ctx context.Context, in TrackInput) {
	s.LogEvent(ctx, in)
	if in.ProviderID == nil {
		return
	}
	if stat, ok := domain.StatForEvent(in.EventType); ok {
		if err := s.IncrementStat(ctx, *in.ProviderID, stat); err != nil {
			s.metrics.IncrAnalytics(observability.OutcomeDropped)
			s.logger.Error("analytics: failed to update business stats",
				zap.Int64("provider_id", *in.ProviderID),
				zap.String("stat", string(stat)),
				zap.Error(err),
			)
		}
	}
}

// LogEvent appends one event to the activity log. Errors are swallowed.
func (s *AnalyticsService) LogEvent(ctx context.Context, in TrackInput) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.LogEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event.type", string(in.EventType)))

	e := &domain.UserActivityEvent{
		ID:          uuid.NewString(),
		EventType:   in.EventType,
		ProviderID:  in.ProviderID,
		Category:    in.Category,
		SearchQuery: in.SearchQuery,
		Timestamp:   s.now().UTC(),
		Metadata:    in.Metadata,
	}
	if err := s.store.AppendEvent(ctx, e); err != nil {
		s.metrics.IncrAnalytics(observability.OutcomeDropped)
		s.logger.Error("analytics: failed to log event",
			zap.String("event_type", string(in.EventType)),
			zap.Error(err),
		)
		return
	}
	s.metrics.IncrAnalytics(observability.OutcomeRecorded)
}

// IncrementStat bumps one counter for providerID, creating the row at 1.
// Increments for the same provider are serialised in-process, which makes
// read-modify-write stores safe within one replica only.
func (s *AnalyticsService) IncrementStat(ctx context.Context, providerID int64, stat domain.StatName) error {
	ctx, span := tracer.Start(ctx, "AnalyticsService.IncrementStat")
	defer span.End()

	if !stat.Valid() {
		return &domain.ErrValidation{Field: "stat", Message: "unknown counter " + string(stat)}
	}

	unlock := s.locks.lock(providerID)
	defer unlock()
	return s.store.IncrementStat(ctx, providerID, stat, s.now().UTC())
}

// Dashboard builds the admin analytics page.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*domain.AnalyticsDashboard, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.Dashboard")
	defer span.End()

	var (
		stats     []domain.BusinessAnalyticsData
		events    []domain.UserActivityEvent
		providers []domain.Provider
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.store.ListStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		events, err = s.store.RecentEvents(gctx, RecentActivityLimit)
		return err
	})
	g.Go(func() (err error) {
		providers, err = s.providers.ListProviders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(providers))
	for _, p := range providers {
		names[p.ID] = p.Name
	}
	nameOf := func(id int64) string {
		if n, ok := names[id]; ok {
			return n
		}
		return "Unknown"
	}

	totals := directory.Totals(stats)
	out := &domain.AnalyticsDashboard{
		TotalViews:          totals.TotalViews,
		TotalCalls:          totals.TotalCalls,
		TotalWhatsappClicks: totals.TotalWhatsapp,
		TotalShares:         totals.TotalShares,
		TopPerforming:       []domain.ProviderStats{},
		RecentActivity:      make([]domain.ActivityItem, 0, len(events)),
		Engagement:          make([]domain.EngagementRow, 0, len(stats)),
	}
	for _, st := range directory.TopPerforming(stats, directory.TopPerformingLimit) {
		out.TopPerforming = append(out.TopPerforming, domain.ProviderStats{BusinessAnalyticsData: st, Name: nameOf(st.ProviderID)})
	}
	for _, e := range events {
		item := domain.ActivityItem{UserActivityEvent: e, ProviderName: "Unknown"}
		if e.ProviderID != nil {
			item.ProviderName = nameOf(*e.ProviderID)
		}
		out.RecentActivity = append(out.RecentActivity, item)
	}
	for _, st := range stats {
		out.Engagement = append(out.Engagement, domain.EngagementRow{
			Name:     nameOf(st.ProviderID),
			Views:    st.TotalViews,
			Calls:    st.TotalCalls,
			WhatsApp: st.TotalWhatsapp,
			Shares:   st.TotalShares,
		})
	}
	return out, nil
}

// ProviderStats returns the counters for one provider, zeros when absent.
func (s *AnalyticsService) ProviderStats(ctx context.Context, providerID int64) (domain.BusinessAnalyticsData, error) {
	row, err := s.store.GetStats(ctx, providerID)
	if err != nil {
		return domain.BusinessAnalyticsData{}, err
	}
	if row == nil {
		return domain.BusinessAnalyticsData{ProviderID: providerID}, nil
	}
	return *row, nil
}

// keyedMutex hands out one mutex per provider id and frees it when unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key int64) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
