package service

import (
	"context"
	"fmt"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Pricing plans: /v1/admin/plans
// ============================================================

// ListPlans returns every plan, seeding the defaults when none exist.
func (s *ModerationService) ListPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.ListPlans")
	defer span.End()

	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if len(plans) > 0 {
		return plans, nil
	}

	s.plansMu.Lock()
	defer s.plansMu.Unlock()
	return s.seedPlans(ctx)
}

// seedPlans must be called with s.plansMu held.
func (s *ModerationService) seedPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if len(plans) > 0 {
		return plans, nil
	}

	defaults := domain.DefaultPlans()
	for i := range defaults {
		defaults[i].ID = uuid.NewString()
		if err := s.plans.UpsertPlan(ctx, &defaults[i]); err != nil {
			return nil, fmt.Errorf("seed plan %s: %w", defaults[i].Name, err)
		}
	}
	s.logger.Info("seeded default pricing plans", zap.Int("count", len(defaults)))
	return defaults, nil
}

// ActivePlans returns the plans offered on the get-listed form.
func (s *ModerationService) ActivePlans(ctx context.Context) ([]domain.PricingPlan, error) {
	all, err := s.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.PricingPlan, 0, len(all))
	for _, p := range all {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *ModerationService) CreatePlan(ctx context.Context, in *domain.PlanInput) (*domain.PricingPlan, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.CreatePlan")
	defer span.End()

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}
	p := &domain.PricingPlan{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Price:    in.Price,
		Duration: in.Duration,
		Features: nonNilFeatures(in.Features),
		Active:   in.Active == nil || *in.Active,
	}

	s.plansMu.Lock()
	defer s.plansMu.Unlock()
	if _, err := s.seedPlans(ctx); err != nil {
		return nil, err
	}
	if err := s.plans.UpsertPlan(ctx, p); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	s.metrics.IncrCatalogWrite("plan")
	s.logger.Info("plan created", zap.String("plan_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *ModerationService) UpdatePlan(ctx context.Context, id string, in *domain.PlanInput) (*domain.PricingPlan, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.UpdatePlan")
	defer span.End()
	span.SetAttributes(attribute.String("plan.id", id))

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}
	return s.mutatePlan(ctx, id, func(p *domain.PricingPlan) {
		p.Name = in.Name
		p.Price = in.Price
		p.Duration = in.Duration
		p.Features = nonNilFeatures(in.Features)
		if in.Active != nil {
			p.Active = *in.Active
		}
	})
}

// DeletePlan removes a plan. An unknown id is a no-op.
func (s *ModerationService) DeletePlan(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "ModerationService.DeletePlan")
	defer span.End()

	s.plansMu.Lock()
	defer s.plansMu.Unlock()
	if err := s.plans.DeletePlan(ctx, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	s.metrics.IncrCatalogWrite("plan")
	return nil
}

// TogglePlan flips the plan's active flag.
func (s *ModerationService) TogglePlan(ctx context.Context, id string) (*domain.PricingPlan, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.TogglePlan")
	defer span.End()

	return s.mutatePlan(ctx, id, func(p *domain.PricingPlan) {
		p.Active = !p.Active
	})
}

// AddFeature appends a feature line. Duplicates are allowed.
func (s *ModerationService) AddFeature(ctx context.Context, id, feature string) (*domain.PricingPlan, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.AddFeature")
	defer span.End()

	if err := validate(s.validate, &domain.FeatureRequest{Feature: feature}); err != nil {
		return nil, err
	}
	return s.mutatePlan(ctx, id, func(p *domain.PricingPlan) {
		p.Features = append(p.Features, feature)
	})
}

// RemoveFeature removes the first feature equal to value. Later duplicates
// stay; a value that is not present leaves the plan unchanged.
func (s *ModerationService) RemoveFeature(ctx context.Context, id, value string) (*domain.PricingPlan, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.RemoveFeature")
	defer span.End()

	return s.mutatePlan(ctx, id, func(p *domain.PricingPlan) {
		p.Features = removeFirst(p.Features, value)
	})
}

func (s *ModerationService) mutatePlan(ctx context.Context, id string, fn func(*domain.PricingPlan)) (*domain.PricingPlan, error) {
	s.plansMu.Lock()
	defer s.plansMu.Unlock()

	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	var p *domain.PricingPlan
	for i := range plans {
		if plans[i].ID == id {
			p = &plans[i]
			break
		}
	}
	if p == nil {
		return nil, &domain.ErrNotFound{Resource: "plan", ID: id}
	}

	fn(p)
	if err := validate(s.validate, p); err != nil {
		return nil, err
	}
	if err := s.plans.UpsertPlan(ctx, p); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	s.metrics.IncrCatalogWrite("plan")
	return p, nil
}

func nonNilFeatures(fs []string) []string {
	if fs == nil {
		return []string{}
	}
	return append([]string(nil), fs...)
}

func removeFirst(fs []string, value string) []string {
	for i, f := range fs {
		if f == value {
			out := make([]string, 0, len(fs)-1)
			out = append(out, fs[:i]...)
			return append(out, fs[i+1:]...)
		}
	}
	return fs
}
