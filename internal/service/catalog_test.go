package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/directory"
	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/cache"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/memory"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_HomeSplitsFeaturedAndTopRated(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a := e.addListing(t, "Spark Electric", "Electrician", 4.2, false)
	b := e.addListing(t, "Aqua Plumbing", "Plumber", 4.8, false)
	f := e.addListing(t, "Star Tailors", "Tailor", 3.0, true)

	home := e.catalog.Home(ctx)

	require.Len(t, home.Featured, 1)
	assert.Equal(t, f.ID, home.Featured[0].ID)
	require.Len(t, home.TopRated, 2)
	assert.Equal(t, b.ID, home.TopRated[0].ID)
	assert.Equal(t, a.ID, home.TopRated[1].ID)
	assert.Len(t, home.Categories, 8)
	assert.Equal(t, domain.DefaultAppName, home.Settings.AppName)
}

func TestCatalog_WriteIsVisibleOnNextRead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	assert.Empty(t, e.catalog.Search(ctx, directory.Filter{}))

	e.addListing(t, "Quick Fix", "Plumber", 0, false)

	got := e.catalog.Search(ctx, directory.Filter{})
	require.Len(t, got, 1)
	assert.Equal(t, "Quick Fix", got[0].Name)

	_, err := e.moderation.SetCategoryEnabled(ctx, "2", false)
	require.NoError(t, err)
	for _, c := range e.catalog.Categories(ctx) {
		assert.NotEqual(t, "Plumber", c.Name)
	}
}

func TestCatalog_DegradesToEmptyWhenStoreIsDown(t *testing.T) {
	e := newEnv(t, withProviderStore(downProviders{}))
	ctx := context.Background()

	home := e.catalog.Home(ctx)
	assert.Empty(t, home.Featured)
	assert.Empty(t, home.TopRated)
	assert.Empty(t, e.catalog.Search(ctx, directory.Filter{Query: "x"}))

	_, err := e.catalog.Provider(ctx, "1")
	var nf *domain.ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestCatalog_ProviderLookup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.addListing(t, "Neat Stitch", "Tailor", 0, false)

	got, err := e.catalog.Provider(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	_, err = e.catalog.Provider(ctx, "")
	var ve *domain.ErrValidation
	assert.ErrorAs(t, err, &ve)

	_, err = e.catalog.Provider(ctx, "99")
	var nf *domain.ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestCatalog_DetailAndSearchAreTracked(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.addListing(t, "Book Worm Tutors", "Tutor", 0, false)

	_, err := e.catalog.Provider(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, e.catalog.RecordInteraction(ctx, "1", domain.EventCallClick))
	e.catalog.Search(ctx, directory.Filter{Query: "tutor", Category: directory.AllCategories})
	e.catalog.Search(ctx, directory.Filter{})
	e.flush(t)

	stats, err := e.analytics.ProviderStats(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalCalls)
	assert.NotNil(t, stats.LastViewed)

	events, err := e.store.RecentEvents(ctx, 10)
	require.NoError(t, err)
	var searches int
	for _, ev := range events {
		if ev.EventType == domain.EventSearch {
			searches++
			assert.Equal(t, "tutor", ev.SearchQuery)
		}
	}
	assert.Equal(t, 1, searches, "an empty search is not logged")
}

func TestCatalog_RecordInteractionRejectsPageView(t *testing.T) {
	e := newEnv(t)
	e.addListing(t, "Snap Studio", "Photographer", 0, false)

	err := e.catalog.RecordInteraction(context.Background(), "1", domain.EventPageView)
	var ve *domain.ErrValidation
	assert.ErrorAs(t, err, &ve)
}

func TestCatalog_ViewIsCached(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.catalog.View(ctx)
	require.NoError(t, err)
	_, err = e.catalog.View(ctx)
	require.NoError(t, err)

	snap := e.metrics.GetSnapshot(service.CatalogCacheName)
	assert.Equal(t, float64(1), snap.CacheMisses)
	assert.Equal(t, float64(1), snap.CacheHits)
}

func TestParseProviderID(t *testing.T) {
	id, err := service.ParseProviderID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := service.ParseProviderID(raw)
		assert.Error(t, err, raw)
	}
}

// hookedReadModel runs onSet before a value reaches the cache.
type hookedReadModel struct {
	*cache.InMemory[service.CatalogView]
	onSet func()
}

func (c *hookedReadModel) Set(key string, v service.CatalogView) {
	if c.onSet != nil {
		c.onSet()
	}
	c.InMemory.Set(key, v)
}

func TestCatalog_WriteDuringLoadDoesNotLeaveStaleCache(t *testing.T) {
	readModel := &hookedReadModel{InMemory: cache.New[service.CatalogView](time.Minute)}
	t.Cleanup(readModel.Close)
	e := newEnv(t, withReadModel(readModel))
	ctx := context.Background()

	written := make(chan error, 1)
	var once sync.Once
	readModel.onSet = func() {
		once.Do(func() {
			go func() {
				_, err := e.moderation.CreateListing(ctx, &domain.ListingInput{
					Name:     "Late Listing",
					Category: "Plumber",
					Location: "Bandra",
				})
				written <- err
			}()
			// Let the write finish first if nothing holds it back.
			select {
			case err := <-written:
				written <- err
			case <-time.After(50 * time.Millisecond):
			}
		})
	}

	assert.Empty(t, e.catalog.Search(ctx, directory.Filter{}))
	require.NoError(t, <-written)

	got := e.catalog.Search(ctx, directory.Filter{})
	require.Len(t, got, 1)
	assert.Equal(t, "Late Listing", got[0].Name)
}

// gatedProviders blocks ListProviders once armed, until release is closed
// or the caller's ctx is done.
type gatedProviders struct {
	port.ProviderStore
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedProviders) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	if g.armed.Load() {
		g.once.Do(func() { close(g.entered) })
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.ProviderStore.ListProviders(ctx)
}

func TestCatalog_SharedLoadOutlivesCancelledCaller(t *testing.T) {
	providers := &gatedProviders{
		ProviderStore: memory.NewStore(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	e := newEnv(t, withProviderStore(providers))
	e.addListing(t, "Steady Supply", "Plumber", 0, false)
	providers.armed.Store(true)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leader := make(chan []domain.Provider, 1)
	go func() { leader <- e.catalog.Search(leaderCtx, directory.Filter{}) }()
	<-providers.entered

	follower := make(chan []domain.Provider, 1)
	go func() { follower <- e.catalog.Search(context.Background(), directory.Filter{}) }()

	cancelLeader()
	time.Sleep(20 * time.Millisecond)
	close(providers.release)

	assert.Len(t, <-leader, 1)
	assert.Len(t, <-follower, 1)
}
