// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service
// layer from the concrete stores (memory, Supabase, Redis).
package port

import (
	"context"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// ProviderStore owns the providers collection.
// Listing order is the canonical catalog order (ascending id).
type ProviderStore interface {
	ListProviders(ctx context.Context) ([]domain.Provider, error)
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	UpsertProvider(ctx context.Context, p *domain.Provider) error
	// DeleteProvider is a no-op for an unknown id.
	DeleteProvider(ctx context.Context, id int64) error
}

// SettingsStore owns the app_settings singleton. GetSettings returns nil, nil
// when nothing has been saved yet.
type SettingsStore interface {
	GetSettings(ctx context.Context) (*domain.AppSettings, error)
	SaveSettings(ctx context.Context, s *domain.AppSettings) error
}

// PlanStore owns the pricing_plans collection.
type PlanStore interface {
	ListPlans(ctx context.Context) ([]domain.PricingPlan, error)
	UpsertPlan(ctx context.Context, p *domain.PricingPlan) error
	DeletePlan(ctx context.Context, id string) error
}

// SubmissionStore owns the payment_submissions collection.
type SubmissionStore interface {
	ListSubmissions(ctx context.Context) ([]domain.PaymentSubmission, error)
	GetSubmission(ctx context.Context, id string) (*domain.PaymentSubmission, error)
	UpsertSubmission(ctx context.Context, s *domain.PaymentSubmission) error
}

// OwnerStore owns the business_owners collection.
type OwnerStore interface {
	ListOwners(ctx context.Context) ([]domain.BusinessOwner, error)
	GetOwner(ctx context.Context, id string) (*domain.BusinessOwner, error)
	UpsertOwner(ctx context.Context, o *domain.BusinessOwner) error
	DeleteOwner(ctx context.Context, id string) error
}

// AnalyticsStore owns business_analytics and user_analytics.
type AnalyticsStore interface {
	// IncrementStat adds one to stat, creating the row at 1 when absent.
	// A total_views increment also sets last_viewed to at.
	IncrementStat(ctx context.Context, providerID int64, stat domain.StatName, at time.Time) error
	// GetStats returns nil, nil when the provider has no row yet.
	GetStats(ctx context.Context, providerID int64) (*domain.BusinessAnalyticsData, error)
	ListStats(ctx context.Context) ([]domain.BusinessAnalyticsData, error)
	AppendEvent(ctx context.Context, e *domain.UserActivityEvent) error
	// RecentEvents returns up to limit events, newest first.
	RecentEvents(ctx context.Context, limit int) ([]domain.UserActivityEvent, error)
}

// IDSequence hands out provider ids. Ids are never reused.
type IDSequence interface {
	// Seed raises the sequence so the next id is greater than floor.
	Seed(ctx context.Context, floor int64) error
	NextProviderID(ctx context.Context) (int64, error)
}

// Pinger is implemented by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
