package directory_test

import (
	"testing"

	"github.com/boddenberg/urbanhand-directory-go/internal/directory"
	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureProviders() []domain.Provider {
	return []domain.Provider{
		{ID: 1, Name: "Ravi Electricals", Category: "Electrician", Location: "Andheri", Rating: 4.5, Featured: true},
		{ID: 2, Name: "Aqua Fix", Category: "Plumber", Location: "Bandra", Rating: 4.8},
		{ID: 3, Name: "Stitch Perfect", Category: "Tailor", Location: "Andheri East", Rating: 3.9},
		{ID: 4, Name: "Spark Home", Category: "Electrician", Location: "Powai", Rating: 4.8},
		{ID: 5, Name: "Wood Works", Category: "Carpenter", Location: "Thane", Rating: 4.1, Featured: true},
	}
}

func ids(ps []domain.Provider) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterProviders(t *testing.T) {
	all := fixtureProviders()

	tests := []struct {
		name   string
		filter directory.Filter
		want   []int64
	}{
		{"empty filter keeps everything", directory.Filter{Category: directory.AllCategories}, []int64{1, 2, 3, 4, 5}},
		{"query matches name case-insensitively", directory.Filter{Query: "AQUA"}, []int64{2}},
		{"query matches location", directory.Filter{Query: "andheri"}, []int64{1, 3}},
		{"category exact match", directory.Filter{Category: "Electrician"}, []int64{1, 4}},
		{"category is case-sensitive", directory.Filter{Category: "electrician"}, []int64{}},
		{"rating threshold is inclusive", directory.Filter{MinRating: 4.5}, []int64{1, 2, 4}},
		{"predicates compose", directory.Filter{Query: "andheri", Category: "Electrician", MinRating: 4}, []int64{1}},
		{"open now always passes", directory.Filter{OpenNow: true}, []int64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := directory.FilterProviders(all, tt.filter)
			assert.Equal(t, tt.want, ids(got))
			for _, p := range got {
				assert.True(t, tt.filter.Match(p))
				assert.Contains(t, all, p)
			}
		})
	}
}

func TestFeaturedAndTopRated_PartitionByFlag(t *testing.T) {
	all := fixtureProviders()

	featured := directory.Featured(all)
	top := directory.TopRated(all)

	assert.Equal(t, []int64{1, 5}, ids(featured))
	assert.Len(t, append(featured, top...), len(all))
	for _, p := range featured {
		assert.NotContains(t, ids(top), p.ID)
	}
}

func TestTopRated_StableOnEqualRatings(t *testing.T) {
	ps := []domain.Provider{
		{ID: 10, Rating: 4.0},
		{ID: 11, Rating: 4.9},
		{ID: 12, Rating: 4.0},
	}

	got := directory.TopRated(ps)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{11, 10, 12}, ids(got))

	// input untouched
	assert.Equal(t, []int64{10, 11, 12}, ids(ps))
}

func TestLookup(t *testing.T) {
	all := fixtureProviders()

	_, res := directory.Lookup(all, "")
	assert.Equal(t, directory.NoIDRequested, res)

	_, res = directory.Lookup(all, "99")
	assert.Equal(t, directory.NotFound, res)

	p, res := directory.Lookup(all, "3")
	assert.Equal(t, directory.Found, res)
	assert.Equal(t, "Stitch Perfect", p.Name)
}

func TestEnabledCategories(t *testing.T) {
	cats := domain.DefaultCategories()
	cats[1].Enabled = false

	got := directory.EnabledCategories(cats)
	assert.Len(t, got, len(cats)-1)
	assert.Equal(t, "Electrician", got[0].Name)
	assert.Equal(t, "Tailor", got[1].Name)
}

func TestTopPerforming(t *testing.T) {
	var stats []domain.BusinessAnalyticsData
	for i := int64(1); i <= 12; i++ {
		stats = append(stats, domain.BusinessAnalyticsData{ProviderID: i, TotalViews: i % 4})
	}

	got := directory.TopPerforming(stats, directory.TopPerformingLimit)
	require.Len(t, got, 10)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalViews, got[i].TotalViews)
	}
	// ties keep input order: 3, 7, 11 all have 3 views
	assert.Equal(t, int64(3), got[0].ProviderID)
	assert.Equal(t, int64(7), got[1].ProviderID)
	assert.Equal(t, int64(11), got[2].ProviderID)
}

func TestTotals(t *testing.T) {
	stats := []domain.BusinessAnalyticsData{
		{ProviderID: 1, TotalViews: 3, TotalCalls: 1},
		{ProviderID: 2, TotalViews: 2, TotalWhatsapp: 4, TotalShares: 1},
	}

	got := directory.Totals(stats)
	assert.Equal(t, int64(5), got.TotalViews)
	assert.Equal(t, int64(1), got.TotalCalls)
	assert.Equal(t, int64(4), got.TotalWhatsapp)
	assert.Equal(t, int64(1), got.TotalShares)
}
