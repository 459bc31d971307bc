package directory

import (
	"sort"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
)

// TopPerformingLimit caps the admin leaderboard.
const TopPerformingLimit = 10

// Totals sums each counter across every provider row.
func Totals(stats []domain.BusinessAnalyticsData) domain.BusinessAnalyticsData {
	var t domain.BusinessAnalyticsData
	for _, s := range stats {
		t.TotalViews += s.TotalViews
		t.TotalCalls += s.TotalCalls
		t.TotalWhatsapp += s.TotalWhatsapp
		t.TotalShares += s.TotalShares
	}
	return t
}

// TopPerforming sorts by total_views descending and keeps at most limit rows.
// Ties keep input order.
func TopPerforming(stats []domain.BusinessAnalyticsData, limit int) []domain.BusinessAnalyticsData {
	out := make([]domain.BusinessAnalyticsData, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalViews > out[j].TotalViews
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
