package service_test

import (
	"context"
	"testing"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestSystem_Health(t *testing.T) {
	e := newEnv(t)
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errStoreDown })

	tests := []struct {
		name      string
		primary   service.Backend
		analytics service.Backend
		want      string
		services  int
	}{
		{"all up", service.Backend{Name: "memory", Pinger: up}, service.Backend{Name: "memory", Pinger: up}, "healthy", 1},
		{"analytics down", service.Backend{Name: "supabase", Pinger: up}, service.Backend{Name: "redis", Pinger: down}, "degraded", 2},
		{"primary down", service.Backend{Name: "supabase", Pinger: down}, service.Backend{Name: "redis", Pinger: up}, "unhealthy", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := service.NewSystemService(tt.primary, tt.analytics, e.catalog, e.submissions, e.metrics)
			h := sys.Health(context.Background())
			assert.Equal(t, tt.want, h.Status)
			assert.Len(t, h.Services, tt.services)
		})
	}
}

func TestSystem_Snapshot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.addListing(t, "One", "Others", 0, false)
	_, err := e.submissions.Submit(ctx, application(domain.PlanFeatured))
	require.NoError(t, err)

	sys := service.NewSystemService(
		service.Backend{Name: "memory", Pinger: e.store},
		service.Backend{Name: "memory", Pinger: e.store},
		e.catalog, e.submissions, e.metrics,
	)
	snap, err := sys.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", snap.Backend)
	assert.Equal(t, 1, snap.Providers)
	assert.Equal(t, 8, snap.Categories)
	assert.Equal(t, 1, snap.PendingReviews)
}
