package memory_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/memory"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ port.ProviderStore   = (*memory.Store)(nil)
	_ port.SettingsStore   = (*memory.Store)(nil)
	_ port.PlanStore       = (*memory.Store)(nil)
	_ port.SubmissionStore = (*memory.Store)(nil)
	_ port.OwnerStore      = (*memory.Store)(nil)
	_ port.AnalyticsStore  = (*memory.Store)(nil)
	_ port.IDSequence      = (*memory.Sequence)(nil)
)

func TestStore_ProvidersOrderedByID(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	for _, id := range []int64{3, 1, 2} {
		require.NoError(t, s.UpsertProvider(ctx, &domain.Provider{ID: id}))
	}

	got, err := s.ListProviders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[2].ID)

	require.NoError(t, s.DeleteProvider(ctx, 42))
	got, _ = s.ListProviders(ctx)
	assert.Len(t, got, 3)
}

func TestStore_SettingsAreCopied(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	in := domain.DefaultSettings()
	require.NoError(t, s.SaveSettings(ctx, &in))
	in.ServiceCategories[0].Name = "mutated"

	got, err = s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Electrician", got.ServiceCategories[0].Name)
}

func TestStore_IncrementStatConcurrent(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.IncrementStat(ctx, 7, domain.StatCalls, time.Now())
		}()
	}
	wg.Wait()

	row, err := s.GetStats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(50), row.TotalCalls)
	assert.Nil(t, row.LastViewed)
}

func TestStore_RecentEventsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendEvent(ctx, &domain.UserActivityEvent{
			ID:        string(rune('a' + i)),
			EventType: domain.EventPageView,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.RecentEvents(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e", got[0].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestStore_EventLogIsCapped(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < memory.MaxEvents+5; i++ {
		require.NoError(t, s.AppendEvent(ctx, &domain.UserActivityEvent{
			ID:        strconv.Itoa(i),
			EventType: domain.EventPageView,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := s.RecentEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, memory.MaxEvents)
	assert.Equal(t, strconv.Itoa(memory.MaxEvents+4), got[0].ID)
	assert.Equal(t, "5", got[len(got)-1].ID)
}

func TestSequence_SeedAndNext(t *testing.T) {
	ctx := context.Background()
	seq := memory.NewSequence()

	require.NoError(t, seq.Seed(ctx, 10))
	require.NoError(t, seq.Seed(ctx, 4))

	id, err := seq.NextProviderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)

	seen := sync.Map{}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := seq.NextProviderID(ctx)
			_, dup := seen.LoadOrStore(id, true)
			assert.False(t, dup)
		}()
	}
	wg.Wait()
}
