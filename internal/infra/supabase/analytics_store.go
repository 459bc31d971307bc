package supabase

import (
	"context"
	"strconv"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Analytics: business_analytics counters and user_analytics log
// ============================================================

// IncrementStat is a read-modify-write over HTTP. Two concurrent callers can
// lose an update; callers serialise per provider in-process.
func (c *Client) IncrementStat(ctx context.Context, providerID int64, stat domain.StatName, at time.Time) error {
	ctx, span := tracer.Start(ctx, "Supabase.IncrementStat")
	defer span.End()
	span.SetAttributes(attribute.Int64("provider.id", providerID), attribute.String("stat", string(stat)))

	if !stat.Valid() {
		return &domain.ErrValidation{Field: "stat", Message: "unknown counter " + string(stat)}
	}

	row, err := c.GetStats(ctx, providerID)
	if err != nil {
		return err
	}
	if row == nil {
		row = &domain.BusinessAnalyticsData{ProviderID: providerID}
	}
	row.Add(stat, 1)
	if stat == domain.StatViews {
		ts := at.UTC()
		row.LastViewed = &ts
	}

	return putDoc(ctx, c, tableStats, providerID, row)
}

func (c *Client) GetStats(ctx context.Context, providerID int64) (*domain.BusinessAnalyticsData, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetStats")
	defer span.End()

	return getDoc[domain.BusinessAnalyticsData](ctx, c, tableStats, strconv.FormatInt(providerID, 10))
}

func (c *Client) ListStats(ctx context.Context) ([]domain.BusinessAnalyticsData, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListStats")
	defer span.End()

	return listDocs[domain.BusinessAnalyticsData](ctx, c, tableStats, "id.asc", 0)
}

func (c *Client) AppendEvent(ctx context.Context, e *domain.UserActivityEvent) error {
	ctx, span := tracer.Start(ctx, "Supabase.AppendEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event.type", string(e.EventType)))

	return putDoc(ctx, c, tableEvents, e.ID, e)
}

func (c *Client) RecentEvents(ctx context.Context, limit int) ([]domain.UserActivityEvent, error) {
	ctx, span := tracer.Start(ctx, "Supabase.RecentEvents")
	defer span.End()

	return listDocs[domain.UserActivityEvent](ctx, c, tableEvents, "data->>timestamp.desc", limit)
}
