package service

import (
	"context"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Categories: /v1/admin/categories
// ============================================================

// ListCategories returns every category, disabled ones included.
func (s *ModerationService) ListCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.ListCategories")
	defer span.End()

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return st.ServiceCategories, nil
}

func (s *ModerationService) CreateCategory(ctx context.Context, in *domain.CategoryInput) (*domain.ServiceCategory, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.CreateCategory")
	defer span.End()

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}
	c := domain.ServiceCategory{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Icon:    in.Icon,
		Enabled: in.Enabled == nil || *in.Enabled,
	}
	if _, err := s.settings.Mutate(ctx, func(st *domain.AppSettings) error {
		st.ServiceCategories = append(st.ServiceCategories, c)
		return nil
	}); err != nil {
		return nil, err
	}

	s.written("category")
	s.logger.Info("category created", zap.String("category_id", c.ID), zap.String("name", c.Name))
	return &c, nil
}

func (s *ModerationService) UpdateCategory(ctx context.Context, id string, in *domain.CategoryInput) (*domain.ServiceCategory, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.UpdateCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id))

	if err := validate(s.validate, in); err != nil {
		return nil, err
	}
	var updated domain.ServiceCategory
	if _, err := s.settings.Mutate(ctx, func(st *domain.AppSettings) error {
		i := categoryIndex(st.ServiceCategories, id)
		if i < 0 {
			return &domain.ErrNotFound{Resource: "category", ID: id}
		}
		c := &st.ServiceCategories[i]
		c.Name = in.Name
		c.Icon = in.Icon
		if in.Enabled != nil {
			c.Enabled = *in.Enabled
		}
		updated = *c
		return nil
	}); err != nil {
		return nil, err
	}

	s.written("category")
	return &updated, nil
}

// DeleteCategory removes the category. An unknown id is a no-op.
func (s *ModerationService) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "ModerationService.DeleteCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id))

	if _, err := s.settings.Mutate(ctx, func(st *domain.AppSettings) error {
		kept := st.ServiceCategories[:0]
		for _, c := range st.ServiceCategories {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		st.ServiceCategories = kept
		return nil
	}); err != nil {
		return err
	}

	s.written("category")
	return nil
}

// ReorderCategory moves the category at from to position to. Out-of-range
// indices leave the order untouched and are not an error.
func (s *ModerationService) ReorderCategory(ctx context.Context, from, to int) ([]domain.ServiceCategory, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.ReorderCategory")
	defer span.End()
	span.SetAttributes(attribute.Int("reorder.from", from), attribute.Int("reorder.to", to))

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	n := len(st.ServiceCategories)
	if from < 0 || from >= n || to < 0 || to >= n {
		s.logger.Debug("category reorder ignored: index out of range",
			zap.Int("from", from), zap.Int("to", to), zap.Int("len", n))
		return st.ServiceCategories, nil
	}

	st, err = s.settings.Mutate(ctx, func(st *domain.AppSettings) error {
		// Re-check under the lock; a concurrent delete may have shrunk the list.
		if from >= len(st.ServiceCategories) || to >= len(st.ServiceCategories) {
			return nil
		}
		st.ServiceCategories = moveCategory(st.ServiceCategories, from, to)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.written("category")
	return st.ServiceCategories, nil
}

// SetCategoryEnabled shows or hides a category on the public side.
func (s *ModerationService) SetCategoryEnabled(ctx context.Context, id string, enabled bool) (*domain.ServiceCategory, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.SetCategoryEnabled")
	defer span.End()

	var updated domain.ServiceCategory
	if _, err := s.settings.Mutate(ctx, func(st *domain.AppSettings) error {
		i := categoryIndex(st.ServiceCategories, id)
		if i < 0 {
			return &domain.ErrNotFound{Resource: "category", ID: id}
		}
		st.ServiceCategories[i].Enabled = enabled
		updated = st.ServiceCategories[i]
		return nil
	}); err != nil {
		return nil, err
	}

	s.written("category")
	return &updated, nil
}

func categoryIndex(cs []domain.ServiceCategory, id string) int {
	for i, c := range cs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// moveCategory pops the item at from and inserts it at to.
func moveCategory(cs []domain.ServiceCategory, from, to int) []domain.ServiceCategory {
	item := cs[from]
	out := make([]domain.ServiceCategory, 0, len(cs))
	out = append(out, cs[:from]...)
	out = append(out, cs[from+1:]...)
	out = append(out[:to], append([]domain.ServiceCategory{item}, out[to:]...)...)
	return out
}
