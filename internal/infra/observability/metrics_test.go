package observability_test

import (
	"context"
	"testing"

	"github.com/boddenberg/urbanhand-directory-go/internal/infra/observability"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := observability.NewMetrics()

	m.IncrAnalytics(observability.OutcomeRecorded)
	m.IncrAnalytics(observability.OutcomeRecorded)
	m.IncrAnalytics(observability.OutcomeDropped)
	m.IncrCacheHit("catalog")
	m.IncrCacheMiss("catalog")
	m.IncrCacheMiss("other")

	snap := m.GetSnapshot("catalog")
	assert.Equal(t, 2.0, snap.EventsRecorded)
	assert.Equal(t, 1.0, snap.EventsDropped)
	assert.Equal(t, 1.0, snap.CacheHits)
	assert.Equal(t, 1.0, snap.CacheMisses)
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := observability.NewMetrics()
	b := observability.NewMetrics()

	a.IncrSubmission("pending")

	names := func(m *observability.Metrics) []string {
		families, err := m.Registry.Gather()
		assert.NoError(t, err)
		var out []string
		for _, f := range families {
			out = append(out, f.GetName())
		}
		return out
	}

	assert.Contains(t, names(a), "directory_submissions_total")
	assert.NotContains(t, names(b), "directory_submissions_total")
}

func TestInitTracer_NoEndpoint(t *testing.T) {
	shutdown, err := observability.InitTracer("", "test")
	assert.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
