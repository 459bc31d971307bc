package service

import (
	"context"
	"fmt"

	"github.com/boddenberg/urbanhand-directory-go/internal/directory"
	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Listings: /v1/admin/listings
// ============================================================

// ListListings returns the providers matching the admin filter. Unlike the
// public search, store errors are surfaced.
func (s *ModerationService) ListListings(ctx context.Context, f directory.Filter) ([]domain.Provider, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.ListListings")
	defer span.End()

	all, err := s.providers.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return directory.FilterProviders(all, f), nil
}

func (s *ModerationService) CreateListing(ctx context.Context, in *domain.ListingInput) (*domain.Provider, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.CreateListing")
	defer span.End()

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, in.Category); err != nil {
		return nil, err
	}

	id, err := s.seq.NextProviderID(ctx)
	if err != nil {
		return nil, fmt.Errorf("next provider id: %w", err)
	}
	image := in.ImageURL
	if image == "" {
		image = domain.AvatarURL(in.Name)
	}
	p := &domain.Provider{
		ID:             id,
		Name:           in.Name,
		Category:       in.Category,
		Location:       in.Location,
		ImageURL:       image,
		Featured:       in.Featured,
		OwnerName:      in.OwnerName,
		PhoneNumber:    in.PhoneNumber,
		WhatsappNumber: in.WhatsappNumber,
		City:           in.City,
		Description:    in.Description,
	}
	if err := s.providers.UpsertProvider(ctx, p); err != nil {
		return nil, fmt.Errorf("save provider: %w", err)
	}

	s.written("provider")
	s.logger.Info("listing created", zap.Int64("provider_id", id), zap.String("name", p.Name))
	return p, nil
}

// UpdateListing applies only the supplied fields; contact details that are
// not in the patch keep their stored values.
func (s *ModerationService) UpdateListing(ctx context.Context, id int64, patch *domain.ProviderPatch) (*domain.Provider, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.UpdateListing")
	defer span.End()
	span.SetAttributes(attribute.Int64("provider.id", id))

	if err := validate(s.validate, patch); err != nil {
		return nil, err
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if patch.Category != nil {
		if err := s.requireCategory(ctx, *patch.Category); err != nil {
			return nil, err
		}
	}

	p, err := s.providers.GetProvider(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	if p == nil {
		return nil, &domain.ErrNotFound{Resource: "provider", ID: fmt.Sprint(id)}
	}
	patch.Apply(p)
	if err := s.providers.UpsertProvider(ctx, p); err != nil {
		return nil, fmt.Errorf("save provider: %w", err)
	}

	s.written("provider")
	return p, nil
}

// DeleteListing removes a provider. An unknown id is a no-op.
func (s *ModerationService) DeleteListing(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "ModerationService.DeleteListing")
	defer span.End()
	span.SetAttributes(attribute.Int64("provider.id", id))

	if err := s.providers.DeleteProvider(ctx, id); err != nil {
		return fmt.Errorf("delete provider: %w", err)
	}

	s.written("provider")
	return nil
}

func (s *ModerationService) requireCategory(ctx context.Context, name string) error {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !hasCategory(st, name) {
		return &domain.ErrValidation{Field: "category", Message: "unknown category " + name}
	}
	return nil
}
