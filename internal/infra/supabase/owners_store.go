package supabase

import (
	"context"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
)

// ownerDoc keeps the password hash, which the domain type hides from JSON.
type ownerDoc struct {
	ID           string    `json:"id"`
	ProviderID   int64     `json:"provider_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (d ownerDoc) toDomain() domain.BusinessOwner {
	return domain.BusinessOwner{
		ID:           d.ID,
		ProviderID:   d.ProviderID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		CreatedAt:    d.CreatedAt,
	}
}

// ListOwners implements port.OwnerStore.
func (c *Client) ListOwners(ctx context.Context) ([]domain.BusinessOwner, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListOwners")
	defer span.End()

	docs, err := listDocs[ownerDoc](ctx, c, tableOwners, "data->>created_at.asc", 0)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BusinessOwner, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) GetOwner(ctx context.Context, id string) (*domain.BusinessOwner, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetOwner")
	defer span.End()

	doc, err := getDoc[ownerDoc](ctx, c, tableOwners, id)
	if err != nil || doc == nil {
		return nil, err
	}
	o := doc.toDomain()
	return &o, nil
}

func (c *Client) UpsertOwner(ctx context.Context, o *domain.BusinessOwner) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertOwner")
	defer span.End()

	return putDoc(ctx, c, tableOwners, o.ID, ownerDoc{
		ID:           o.ID,
		ProviderID:   o.ProviderID,
		Email:        o.Email,
		PasswordHash: o.PasswordHash,
		FullName:     o.FullName,
		CreatedAt:    o.CreatedAt.UTC(),
	})
}

func (c *Client) DeleteOwner(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteOwner")
	defer span.End()

	return deleteDoc(ctx, c, tableOwners, id)
}
