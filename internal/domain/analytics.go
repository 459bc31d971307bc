package domain

import "time"

// ============================================================
// Analytics: events and per-provider counters
// ============================================================

// EventType names a tracked user interaction.
type EventType string

const (
	EventPageView      EventType = "page_view"
	EventCallClick     EventType = "call_click"
	EventWhatsappClick EventType = "whatsapp_click"
	EventShareClick    EventType = "share_click"
	EventSearch        EventType = "search"
)

// StatName names a counter in BusinessAnalyticsData.
type StatName string

const (
	StatViews    StatName = "total_views"
	StatCalls    StatName = "total_calls"
	StatWhatsapp StatName = "total_whatsapp"
	StatShares   StatName = "total_shares"
)

// Valid reports whether s is one of the four known counters.
func (s StatName) Valid() bool {
	switch s {
	case StatViews, StatCalls, StatWhatsapp, StatShares:
		return true
	}
	return false
}

// StatForEvent maps a provider interaction to the counter it bumps.
func StatForEvent(e EventType) (StatName, bool) {
	switch e {
	case EventPageView:
		return StatViews, true
	case EventCallClick:
		return StatCalls, true
	case EventWhatsappClick:
		return StatWhatsapp, true
	case EventShareClick:
		return StatShares, true
	}
	return "", false
}

// BusinessAnalyticsData accumulates interaction counters for one provider.
type BusinessAnalyticsData struct {
	ProviderID    int64      `json:"provider_id"`
	TotalViews    int64      `json:"total_views"`
	TotalCalls    int64      `json:"total_calls"`
	TotalWhatsapp int64      `json:"total_whatsapp"`
	TotalShares   int64      `json:"total_shares"`
	LastViewed    *time.Time `json:"last_viewed,omitempty"`
}

// Add bumps the named counter by delta.
func (b *BusinessAnalyticsData) Add(stat StatName, delta int64) {
	switch stat {
	case StatViews:
		b.TotalViews += delta
	case StatCalls:
		b.TotalCalls += delta
	case StatWhatsapp:
		b.TotalWhatsapp += delta
	case StatShares:
		b.TotalShares += delta
	}
}

// Get returns the named counter.
func (b *BusinessAnalyticsData) Get(stat StatName) int64 {
	switch stat {
	case StatViews:
		return b.TotalViews
	case StatCalls:
		return b.TotalCalls
	case StatWhatsapp:
		return b.TotalWhatsapp
	case StatShares:
		return b.TotalShares
	}
	return 0
}

// UserActivityEvent is one append-only analytics log entry.
type UserActivityEvent struct {
	ID          string         `json:"id"`
	EventType   EventType      `json:"event_type"`
	ProviderID  *int64         `json:"provider_id,omitempty"`
	Category    string         `json:"category,omitempty"`
	SearchQuery string         `json:"search_query,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ============================================================
// Dashboard views
// ============================================================

// ProviderStats is a counter row joined with the provider name.
type ProviderStats struct {
	BusinessAnalyticsData
	Name string `json:"name"`
}

// ActivityItem is a recent event joined with the provider name.
type ActivityItem struct {
	UserActivityEvent
	ProviderName string `json:"provider_name"`
}

// EngagementRow is one bar in the admin engagement chart.
type EngagementRow struct {
	Name     string `json:"name"`
	Views    int64  `json:"Views"`
	Calls    int64  `json:"Calls"`
	WhatsApp int64  `json:"WhatsApp"`
	Shares   int64  `json:"Shares"`
}

// AnalyticsDashboard is the admin analytics page payload.
type AnalyticsDashboard struct {
	TotalViews          int64           `json:"total_views"`
	TotalCalls          int64           `json:"total_calls"`
	TotalWhatsappClicks int64           `json:"total_whatsapp_clicks"`
	TotalShares         int64           `json:"total_shares"`
	TopPerforming       []ProviderStats `json:"top_performing_providers"`
	RecentActivity      []ActivityItem  `json:"recent_activity"`
	Engagement          []EngagementRow `json:"engagement_chart_data"`
}

// OwnerDashboard is the business owner's view of their own listing.
type OwnerDashboard struct {
	ProviderID          int64  `json:"provider_id"`
	ProviderName        string `json:"provider_name"`
	TotalViews          int64  `json:"total_views"`
	TotalCalls          int64  `json:"total_calls"`
	TotalWhatsappClicks int64  `json:"total_whatsapp_clicks"`
	TotalShares         int64  `json:"total_shares"`
}
