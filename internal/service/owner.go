package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OwnerService manages business owner accounts and their dashboard.
type OwnerService struct {
	owners    port.OwnerStore
	providers port.ProviderStore
	analytics *AnalyticsService
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	// mu guards the email and provider uniqueness checks on create.
	mu sync.Mutex
}

// NewOwnerService creates the owner account service.
func NewOwnerService(owners port.OwnerStore, providers port.ProviderStore, analytics *AnalyticsService, logger *zap.Logger) *OwnerService {
	return &OwnerService{
		owners:    owners,
		providers: providers,
		analytics: analytics,
		validate:  newValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// List returns every owner with the name of the linked provider.
func (s *OwnerService) List(ctx context.Context) ([]domain.OwnerView, error) {
	ctx, span := tracer.Start(ctx, "OwnerService.List")
	defer span.End()

	owners, err := s.owners.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	providers, err := s.providers.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	names := make(map[int64]string, len(providers))
	for _, p := range providers {
		names[p.ID] = p.Name
	}

	out := make([]domain.OwnerView, 0, len(owners))
	for _, o := range owners {
		name, ok := names[o.ProviderID]
		if !ok {
			name = "Unknown"
		}
		out = append(out, domain.OwnerView{BusinessOwner: o, ProviderName: name})
	}
	return out, nil
}

// Create adds an owner linked to an existing, not yet linked provider.
func (s *OwnerService) Create(ctx context.Context, in *domain.OwnerInput) (*domain.OwnerView, error) {
	ctx, span := tracer.Start(ctx, "OwnerService.Create")
	defer span.End()

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.providers.GetProvider(ctx, in.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	if p == nil {
		return nil, &domain.ErrValidation{Field: "provider_id", Message: "provider does not exist"}
	}

	owners, err := s.owners.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	for _, o := range owners {
		if strings.EqualFold(o.Email, in.Email) {
			return nil, &domain.ErrConflict{Message: "an owner with this email already exists"}
		}
		if o.ProviderID == in.ProviderID {
			return nil, &domain.ErrConflict{Message: "this provider already has an owner"}
		}
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	o := domain.BusinessOwner{
		ID:           uuid.NewString(),
		ProviderID:   in.ProviderID,
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		FullName:     in.FullName,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.owners.UpsertOwner(ctx, &o); err != nil {
		return nil, fmt.Errorf("save owner: %w", err)
	}

	s.logger.Info("business owner created",
		zap.String("owner_id", o.ID),
		zap.Int64("provider_id", o.ProviderID),
	)
	return &domain.OwnerView{BusinessOwner: o, ProviderName: p.Name}, nil
}

// ResetPassword replaces the owner's password hash.
func (s *OwnerService) ResetPassword(ctx context.Context, id string, req *domain.PasswordResetRequest) error {
	ctx, span := tracer.Start(ctx, "OwnerService.ResetPassword")
	defer span.End()

	if err := validate(s.validate, req); err != nil {
		return err
	}
	o, err := s.owners.GetOwner(ctx, id)
	if err != nil {
		return fmt.Errorf("get owner: %w", err)
	}
	if o == nil {
		return &domain.ErrNotFound{Resource: "owner", ID: id}
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	o.PasswordHash = hash
	if err := s.owners.UpsertOwner(ctx, o); err != nil {
		return fmt.Errorf("save owner: %w", err)
	}

	s.logger.Info("business owner password reset", zap.String("owner_id", id))
	return nil
}

// Delete removes an owner. An unknown id is a no-op.
func (s *OwnerService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "OwnerService.Delete")
	defer span.End()

	if err := s.owners.DeleteOwner(ctx, id); err != nil {
		return fmt.Errorf("delete owner: %w", err)
	}
	return nil
}

// UnlinkedProviders returns the providers no owner is linked to yet.
func (s *OwnerService) UnlinkedProviders(ctx context.Context) ([]domain.Provider, error) {
	ctx, span := tracer.Start(ctx, "OwnerService.UnlinkedProviders")
	defer span.End()

	owners, err := s.owners.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	providers, err := s.providers.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	linked := make(map[int64]struct{}, len(owners))
	for _, o := range owners {
		linked[o.ProviderID] = struct{}{}
	}
	out := make([]domain.Provider, 0, len(providers))
	for _, p := range providers {
		if _, ok := linked[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Dashboard returns the counters of the owner's provider. A provider with
// no analytics yet shows zeros.
func (s *OwnerService) Dashboard(ctx context.Context, sess *domain.Session) (*domain.OwnerDashboard, error) {
	ctx, span := tracer.Start(ctx, "OwnerService.Dashboard")
	defer span.End()

	p, err := s.providers.GetProvider(ctx, sess.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	name := "Unknown"
	if p != nil {
		name = p.Name
	}

	stats, err := s.analytics.ProviderStats(ctx, sess.ProviderID)
	if err != nil {
		s.logger.Warn("owner dashboard: analytics unavailable, showing zeros",
			zap.Int64("provider_id", sess.ProviderID),
			zap.Error(err),
		)
		stats = domain.BusinessAnalyticsData{ProviderID: sess.ProviderID}
	}

	return &domain.OwnerDashboard{
		ProviderID:          sess.ProviderID,
		ProviderName:        name,
		TotalViews:          stats.TotalViews,
		TotalCalls:          stats.TotalCalls,
		TotalWhatsappClicks: stats.TotalWhatsapp,
		TotalShares:         stats.TotalShares,
	}, nil
}
