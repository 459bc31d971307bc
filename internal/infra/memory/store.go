// Package memory is the in-process backend. It implements every store port
// and is used when no hosted backend is configured, and as the test fixture.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
)

// Store keeps every collection in maps guarded by a single RWMutex.
// Returned values are copies; callers never alias internal state.
type Store struct {
	mu sync.RWMutex

	settings    *domain.AppSettings
	providers   map[int64]domain.Provider
	plans       []domain.PricingPlan
	submissions []domain.PaymentSubmission
	owners      map[string]domain.BusinessOwner
	stats       map[int64]domain.BusinessAnalyticsData
	statOrder   []int64
	events      []domain.UserActivityEvent
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		providers: make(map[int64]domain.Provider),
		owners:    make(map[string]domain.BusinessOwner),
		stats:     make(map[int64]domain.BusinessAnalyticsData),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// ============================================================
// Settings
// ============================================================

func (s *Store) GetSettings(_ context.Context) (*domain.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, nil
	}
	out := cloneSettings(*s.settings)
	return &out, nil
}

func (s *Store) SaveSettings(_ context.Context, in *domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cloneSettings(*in)
	s.settings = &cp
	return nil
}

func cloneSettings(in domain.AppSettings) domain.AppSettings {
	in.ServiceCategories = append([]domain.ServiceCategory(nil), in.ServiceCategories...)
	return in
}

// ============================================================
// Providers
// ============================================================

func (s *Store) ListProviders(_ context.Context) ([]domain.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetProvider(_ context.Context, id int64) (*domain.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.providers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) UpsertProvider(_ context.Context, p *domain.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.providers[p.ID] = *p
	return nil
}

func (s *Store) DeleteProvider(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.providers, id)
	return nil
}

// ============================================================
// Plans
// ============================================================

func (s *Store) ListPlans(_ context.Context) ([]domain.PricingPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PricingPlan, 0, len(s.plans))
	for _, p := range s.plans {
		p.Features = append([]string(nil), p.Features...)
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) UpsertPlan(_ context.Context, p *domain.PricingPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.Features = append([]string(nil), p.Features...)
	for i := range s.plans {
		if s.plans[i].ID == p.ID {
			s.plans[i] = cp
			return nil
		}
	}
	s.plans = append(s.plans, cp)
	return nil
}

func (s *Store) DeletePlan(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.plans {
		if s.plans[i].ID == id {
			s.plans = append(s.plans[:i], s.plans[i+1:]...)
			return nil
		}
	}
	return nil
}

// ============================================================
// Submissions
// ============================================================

func (s *Store) ListSubmissions(_ context.Context) ([]domain.PaymentSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.PaymentSubmission(nil), s.submissions...), nil
}

func (s *Store) GetSubmission(_ context.Context, id string) (*domain.PaymentSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.submissions {
		if sub.ID == id {
			return &sub, nil
		}
	}
	return nil, nil
}

func (s *Store) UpsertSubmission(_ context.Context, sub *domain.PaymentSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.submissions {
		if s.submissions[i].ID == sub.ID {
			s.submissions[i] = *sub
			return nil
		}
	}
	s.submissions = append(s.submissions, *sub)
	return nil
}

// ============================================================
// Owners
// ============================================================

func (s *Store) ListOwners(_ context.Context) ([]domain.BusinessOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BusinessOwner, 0, len(s.owners))
	for _, o := range s.owners {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetOwner(_ context.Context, id string) (*domain.BusinessOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.owners[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *Store) UpsertOwner(_ context.Context, o *domain.BusinessOwner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.owners[o.ID] = *o
	return nil
}

func (s *Store) DeleteOwner(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.owners, id)
	return nil
}

// ============================================================
// Analytics
// ============================================================

// IncrementStat is atomic with respect to other callers of this store.
func (s *Store) IncrementStat(_ context.Context, providerID int64, stat domain.StatName, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.stats[providerID]
	if !ok {
		row = domain.BusinessAnalyticsData{ProviderID: providerID}
		s.statOrder = append(s.statOrder, providerID)
	}
	row.Add(stat, 1)
	if stat == domain.StatViews {
		ts := at
		row.LastViewed = &ts
	}
	s.stats[providerID] = row
	return nil
}

func (s *Store) GetStats(_ context.Context, providerID int64) (*domain.BusinessAnalyticsData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.stats[providerID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

// ListStats returns rows in first-seen order.
func (s *Store) ListStats(_ context.Context) ([]domain.BusinessAnalyticsData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BusinessAnalyticsData, 0, len(s.statOrder))
	for _, id := range s.statOrder {
		out = append(out, s.stats[id])
	}
	return out, nil
}

// MaxEvents bounds the activity log; the oldest events are dropped first.
const MaxEvents = 10000

func (s *Store) AppendEvent(_ context.Context, e *domain.UserActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, *e)
	if over := len(s.events) - MaxEvents; over > 0 {
		s.events = append(s.events[:0], s.events[over:]...)
	}
	return nil
}

func (s *Store) RecentEvents(_ context.Context, limit int) ([]domain.UserActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.UserActivityEvent(nil), s.events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
