package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/redis"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	_ port.AnalyticsStore = (*redis.AnalyticsStore)(nil)
	_ port.IDSequence     = (*redis.Sequence)(nil)
)

func setup(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestNewClient_PingsServer(t *testing.T) {
	mr, _ := setup(t)

	rdb, err := redis.NewClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	_ = rdb.Close()

	_, err = redis.NewClient(context.Background(), "::not a url")
	assert.Error(t, err)
}

func TestAnalyticsStore_IncrementCreatesRow(t *testing.T) {
	_, rdb := setup(t)
	store := redis.NewAnalyticsStore(rdb, "test", zap.NewNop())
	ctx := context.Background()

	row, err := store.GetStats(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, row)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.IncrementStat(ctx, 5, domain.StatCalls, time.Now()))
	}

	row, err = store.GetStats(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(3), row.TotalCalls)
	assert.Zero(t, row.TotalViews)
	assert.Nil(t, row.LastViewed)
}

func TestAnalyticsStore_ViewsStampLastViewed(t *testing.T) {
	_, rdb := setup(t)
	store := redis.NewAnalyticsStore(rdb, "test", zap.NewNop())
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.IncrementStat(ctx, 1, domain.StatViews, at))

	row, err := store.GetStats(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, row.LastViewed)
	assert.True(t, at.Equal(*row.LastViewed))
}

func TestAnalyticsStore_RejectsUnknownStat(t *testing.T) {
	_, rdb := setup(t)
	store := redis.NewAnalyticsStore(rdb, "test", zap.NewNop())

	err := store.IncrementStat(context.Background(), 1, domain.StatName("total_likes"), time.Now())
	var verr *domain.ErrValidation
	assert.ErrorAs(t, err, &verr)
}

func TestAnalyticsStore_ConcurrentIncrementsAreAtomic(t *testing.T) {
	_, rdb := setup(t)
	store := redis.NewAnalyticsStore(rdb, "test", zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.IncrementStat(ctx, 9, domain.StatShares, time.Now()))
		}()
	}
	wg.Wait()

	row, err := store.GetStats(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(40), row.TotalShares)
}

func TestAnalyticsStore_ListStatsFirstSeenOrder(t *testing.T) {
	_, rdb := setup(t)
	store := redis.NewAnalyticsStore(rdb, "test", zap.NewNop())
	ctx := context.Background()

	empty, err := store.ListStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, id := range []int64{3, 1, 3, 2} {
		require.NoError(t, store.IncrementStat(ctx, id, domain.StatViews, time.Now()))
	}

	rows, err := store.ListStats(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(3), rows[0].ProviderID)
	assert.Equal(t, int64(2), rows[0].TotalViews)
	assert.Equal(t, int64(1), rows[1].ProviderID)
	assert.Equal(t, int64(2), rows[2].ProviderID)
}

func TestAnalyticsStore_RecentEvents(t *testing.T) {
	_, rdb := setup(t)
	store := redis.NewAnalyticsStore(rdb, "test", zap.NewNop())
	ctx := context.Background()

	pid := int64(4)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.AppendEvent(ctx, &domain.UserActivityEvent{
			ID:         id,
			EventType:  domain.EventCallClick,
			ProviderID: &pid,
			Timestamp:  time.Now(),
		}))
	}

	got, err := store.RecentEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, pid, *got[0].ProviderID)
}

func TestSequence_SeedNeverLowers(t *testing.T) {
	_, rdb := setup(t)
	seq := redis.NewSequence(rdb, "test")
	ctx := context.Background()

	require.NoError(t, seq.Seed(ctx, 20))
	require.NoError(t, seq.Seed(ctx, 5))

	id, err := seq.NextProviderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(21), id)

	id, err = seq.NextProviderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(22), id)
}

func TestAnalyticsStore_ExternalErrorWhenDown(t *testing.T) {
	mr, rdb := setup(t)
	store := redis.NewAnalyticsStore(rdb, "test", zap.NewNop())
	mr.Close()

	err := store.IncrementStat(context.Background(), 1, domain.StatCalls, time.Now())
	var ext *domain.ErrExternalService
	assert.ErrorAs(t, err, &ext)
	assert.Error(t, store.Ping(context.Background()))
}
