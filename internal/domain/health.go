package domain

// ============================================================
// Health & system API responses
// ============================================================

// HealthStatus is returned by GET /readyz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual backend.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// SystemSnapshot is returned by GET /v1/admin/system.
type SystemSnapshot struct {
	Backend          string  `json:"backend"`
	AnalyticsBackend string  `json:"analytics_backend"`
	Providers        int     `json:"providers"`
	Categories       int     `json:"categories"`
	PendingReviews   int     `json:"pending_reviews"`
	EventsDropped    float64 `json:"analytics_events_dropped"`
	EventsRecorded   float64 `json:"analytics_events_recorded"`
	CacheHits        float64 `json:"cache_hits"`
	CacheMisses      float64 `json:"cache_misses"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
