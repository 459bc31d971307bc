package supabase

import (
	"context"
	"strconv"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

const settingsRowID = "main"

// ============================================================
// Settings (implements port.SettingsStore)
// ============================================================

func (c *Client) GetSettings(ctx context.Context) (*domain.AppSettings, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetSettings")
	defer span.End()

	return getDoc[domain.AppSettings](ctx, c, tableSettings, settingsRowID)
}

func (c *Client) SaveSettings(ctx context.Context, s *domain.AppSettings) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveSettings")
	defer span.End()

	return putDoc(ctx, c, tableSettings, settingsRowID, s)
}

// ============================================================
// Providers (implements port.ProviderStore)
// ============================================================

func (c *Client) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListProviders")
	defer span.End()

	return listDocs[domain.Provider](ctx, c, tableProviders, "id.asc", 0)
}

func (c *Client) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProvider")
	defer span.End()
	span.SetAttributes(attribute.Int64("provider.id", id))

	return getDoc[domain.Provider](ctx, c, tableProviders, strconv.FormatInt(id, 10))
}

func (c *Client) UpsertProvider(ctx context.Context, p *domain.Provider) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertProvider")
	defer span.End()
	span.SetAttributes(attribute.Int64("provider.id", p.ID))

	return putDoc(ctx, c, tableProviders, p.ID, p)
}

func (c *Client) DeleteProvider(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteProvider")
	defer span.End()
	span.SetAttributes(attribute.Int64("provider.id", id))

	return deleteDoc(ctx, c, tableProviders, strconv.FormatInt(id, 10))
}

// ============================================================
// Plans (implements port.PlanStore)
// ============================================================

func (c *Client) ListPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPlans")
	defer span.End()

	return listDocs[domain.PricingPlan](ctx, c, tablePlans, "data->price.asc", 0)
}

func (c *Client) UpsertPlan(ctx context.Context, p *domain.PricingPlan) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertPlan")
	defer span.End()

	return putDoc(ctx, c, tablePlans, p.ID, p)
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeletePlan")
	defer span.End()

	return deleteDoc(ctx, c, tablePlans, id)
}

// ============================================================
// Submissions (implements port.SubmissionStore)
// ============================================================

func (c *Client) ListSubmissions(ctx context.Context) ([]domain.PaymentSubmission, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSubmissions")
	defer span.End()

	return listDocs[domain.PaymentSubmission](ctx, c, tableSubmissions, "data->>submit_date.asc", 0)
}

func (c *Client) GetSubmission(ctx context.Context, id string) (*domain.PaymentSubmission, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetSubmission")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", id))

	return getDoc[domain.PaymentSubmission](ctx, c, tableSubmissions, id)
}

func (c *Client) UpsertSubmission(ctx context.Context, s *domain.PaymentSubmission) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertSubmission")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", s.ID))

	return putDoc(ctx, c, tableSubmissions, s.ID, s)
}
