package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/observability"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Submission workflow results, used as metric labels.
const (
	SubmissionListed   = "listed"
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// statusAll selects every submission regardless of status.
const statusAll = "All"

// SubmissionService runs the get-listed workflow: basic applications are
// published immediately, paid ones wait for an admin decision.
type SubmissionService struct {
	submissions port.SubmissionStore
	providers   port.ProviderStore
	seq         port.IDSequence
	settings    *SettingsService
	moderation  *ModerationService
	catalog     *CatalogService
	validate    *validator.Validate
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time

	// mu serialises review decisions so a submission is decided once.
	mu sync.Mutex
}

// NewSubmissionService creates the submission workflow service.
func NewSubmissionService(
	submissions port.SubmissionStore,
	providers port.ProviderStore,
	seq port.IDSequence,
	settings *SettingsService,
	moderation *ModerationService,
	catalog *CatalogService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		providers:   providers,
		seq:         seq,
		settings:    settings,
		moderation:  moderation,
		catalog:     catalog,
		validate:    newValidator(),
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// ============================================================
// Submit: POST /v1/get-listed
// ============================================================

func (s *SubmissionService) Submit(ctx context.Context, app *domain.ProviderApplication) (*domain.SubmitResult, error) {
	ctx, span := tracer.Start(ctx, "SubmissionService.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("application.plan", string(app.Plan)))

	if err := validate(s.validate, app); err != nil {
		return nil, err
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !hasCategory(st, app.Category) {
		return nil, &domain.ErrValidation{Field: "category", Message: "unknown category " + app.Category}
	}

	if app.Plan == domain.PlanBasic {
		p, err := s.publish(ctx, app, false)
		if err != nil {
			return nil, err
		}
		s.metrics.IncrSubmission(SubmissionListed)
		s.logger.Info("basic listing published",
			zap.Int64("provider_id", p.ID),
			zap.String("business_name", p.Name),
		)
		return &domain.SubmitResult{Provider: p}, nil
	}

	amount, err := s.planPrice(ctx, string(app.Plan))
	if err != nil {
		return nil, err
	}
	sub := &domain.PaymentSubmission{
		ID:              uuid.NewString(),
		ApplicantName:   app.FullName,
		BusinessName:    app.BusinessName,
		PlanSelected:    planLabel(app.Plan),
		Amount:          amount,
		ScreenshotURL:   app.PaymentProof,
		SubmitDate:      s.now().UTC(),
		Status:          domain.StatusPending,
		ApplicationData: *app,
	}
	if err := s.submissions.UpsertSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	s.metrics.IncrSubmission(SubmissionPending)
	s.logger.Info("payment submission received",
		zap.String("submission_id", sub.ID),
		zap.String("plan", sub.PlanSelected),
		zap.Int("amount", sub.Amount),
	)
	return &domain.SubmitResult{Submission: sub}, nil
}

// planPrice resolves the price of the active plan named like tier, 0 when
// no active plan matches.
func (s *SubmissionService) planPrice(ctx context.Context, tier string) (int, error) {
	plans, err := s.moderation.ActivePlans(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range plans {
		if strings.EqualFold(p.Name, tier) {
			return p.Price, nil
		}
	}
	return 0, nil
}

// publish assigns an id and writes the provider built from app.
func (s *SubmissionService) publish(ctx context.Context, app *domain.ProviderApplication, featured bool) (*domain.Provider, error) {
	id, err := s.seq.NextProviderID(ctx)
	if err != nil {
		return nil, fmt.Errorf("next provider id: %w", err)
	}
	p := providerFromApplication(id, app, featured)
	if err := s.providers.UpsertProvider(ctx, p); err != nil {
		return nil, fmt.Errorf("save provider: %w", err)
	}
	s.catalog.Invalidate()
	return p, nil
}

func providerFromApplication(id int64, app *domain.ProviderApplication, featured bool) *domain.Provider {
	return &domain.Provider{
		ID:             id,
		Name:           app.BusinessName,
		Category:       app.Category,
		Location:       app.Address,
		Rating:         0,
		Reviews:        0,
		ImageURL:       domain.AvatarURL(app.BusinessName),
		Featured:       featured,
		OwnerName:      app.FullName,
		PhoneNumber:    app.PhoneNumber,
		WhatsappNumber: app.WhatsappNumber,
		City:           app.City,
		Description:    app.Description,
	}
}

// planLabel turns a form tier ("featured") into the plan name ("Featured").
func planLabel(t domain.PlanTier) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ============================================================
// Review: /v1/admin/submissions
// ============================================================

// List returns submissions with the given status, all of them for "" or "All".
func (s *SubmissionService) List(ctx context.Context, status string) ([]domain.PaymentSubmission, error) {
	ctx, span := tracer.Start(ctx, "SubmissionService.List")
	defer span.End()

	want := domain.SubmissionStatus(status)
	switch want {
	case "", statusAll, domain.StatusPending, domain.StatusApproved, domain.StatusRejected:
	default:
		return nil, &domain.ErrValidation{Field: "status", Message: "must be one of: All Pending Approved Rejected"}
	}

	all, err := s.submissions.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if want == "" || want == statusAll {
		return all, nil
	}
	out := make([]domain.PaymentSubmission, 0, len(all))
	for _, sub := range all {
		if sub.Status == want {
			out = append(out, sub)
		}
	}
	return out, nil
}

// Approve publishes the provider for a pending submission. Featured
// placement follows the selected plan: anything but Basic is featured.
func (s *SubmissionService) Approve(ctx context.Context, id string) (*domain.SubmitResult, error) {
	ctx, span := tracer.Start(ctx, "SubmissionService.Approve")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.pending(ctx, id, "approve")
	if err != nil {
		return nil, err
	}

	p, err := s.publish(ctx, &sub.ApplicationData, sub.PlanSelected != "Basic")
	if err != nil {
		return nil, err
	}
	sub.Status = domain.StatusApproved
	sub.ProviderID = p.ID
	if err := s.submissions.UpsertSubmission(ctx, sub); err != nil {
		// Roll back so a retry does not publish the business twice.
		if derr := s.providers.DeleteProvider(ctx, p.ID); derr != nil {
			s.logger.Error("approve: failed to roll back provider",
				zap.Int64("provider_id", p.ID),
				zap.Error(derr),
			)
		}
		s.catalog.Invalidate()
		return nil, fmt.Errorf("save submission: %w", err)
	}

	s.metrics.IncrSubmission(SubmissionApproved)
	s.logger.Info("submission approved",
		zap.String("submission_id", sub.ID),
		zap.Int64("provider_id", p.ID),
		zap.Bool("featured", p.Featured),
	)
	return &domain.SubmitResult{Provider: p, Submission: sub}, nil
}

// Reject closes a pending submission with the admin's notes.
func (s *SubmissionService) Reject(ctx context.Context, id, notes string) (*domain.PaymentSubmission, error) {
	ctx, span := tracer.Start(ctx, "SubmissionService.Reject")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.pending(ctx, id, "reject")
	if err != nil {
		return nil, err
	}
	sub.Status = domain.StatusRejected
	sub.Notes = notes
	if err := s.submissions.UpsertSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	s.metrics.IncrSubmission(SubmissionRejected)
	s.logger.Info("submission rejected", zap.String("submission_id", sub.ID))
	return sub, nil
}

// pending loads a submission that must still be awaiting review.
func (s *SubmissionService) pending(ctx context.Context, id, action string) (*domain.PaymentSubmission, error) {
	sub, err := s.submissions.GetSubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return nil, &domain.ErrNotFound{Resource: "submission", ID: id}
	}
	if sub.Status != domain.StatusPending {
		return nil, &domain.ErrInvalidTransition{From: sub.Status, Action: action}
	}
	return sub, nil
}

// PendingCount is the number of submissions awaiting review.
func (s *SubmissionService) PendingCount(ctx context.Context) (int, error) {
	pending, err := s.List(ctx, string(domain.StatusPending))
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}
