// File: /models/analytics.go
package models

import "time"

// AnalyticsStats is the headline block of the analytics dashboard.
type AnalyticsStats struct {
	TotalEngagement   int64   `json:"total_engagement"`
	TotalReach        int64   `json:"total_reach"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	TotalPosts        int64   `json:"total_posts"`
}

// PlatformAnalytics aggregates published posts of one platform.
type PlatformAnalytics struct {
	Platform      Platform `json:"platform"`
	Posts         int64    `json:"posts"`
	Engagement    int64    `json:"engagement"`
	AvgEngagement float64  `json:"avg_engagement"`
}

// EngagementTrend is one day of the trailing engagement series.
type EngagementTrend struct {
	Date     string `json:"date"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
	Shares   int64  `json:"shares"`
	Posts    int64  `json:"posts"`
}

// TopPost is the trimmed post view used in the top performers list.
type TopPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Platform    Platform   `json:"platform"`
	Engagement  Engagement `json:"engagement"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type AnalyticsResponse struct {
	Stats            AnalyticsStats      `json:"stats"`
	PlatformData     []PlatformAnalytics `json:"platform_data"`
	EngagementTrends []EngagementTrend   `json:"engagement_trends"`
	TopPosts         []TopPost           `json:"top_posts"`
}

// AnalyticsQuery bounds analytics to posts created inside [From, To].
type AnalyticsQuery struct {
	UserID string
	From   *time.Time
	To     *time.Time
}
