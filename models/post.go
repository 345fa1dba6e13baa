// File: /models/post.go
package models

import (
	"time"
)

// Engagement holds the externally updated counters of a published post.
type Engagement struct {
	Likes    int64 `json:"likes" bson:"likes" gorm:"default:0"`
	Comments int64 `json:"comments" bson:"comments" gorm:"default:0"`
	Shares   int64 `json:"shares" bson:"shares" gorm:"default:0"`
	Views    int64 `json:"views" bson:"views" gorm:"default:0"`
}

// Total is the interaction count used for ranking: likes, comments and shares.
func (e Engagement) Total() int64 {
	return e.Likes + e.Comments + e.Shares
}

type Post struct {
	ID             string     `json:"id" bson:"_id" gorm:"primaryKey;size:191"`
	UserID         string     `json:"user_id" bson:"user_id" gorm:"not null;size:191;index:idx_posts_user_status,priority:1"`
	Title          string     `json:"title" bson:"title" gorm:"not null;size:200"`
	Content        string     `json:"content" bson:"content" gorm:"not null;type:text"`
	Platform       Platform   `json:"platform" bson:"platform" gorm:"not null;size:50"`
	Status         PostStatus `json:"status" bson:"status" gorm:"not null;size:20;default:'draft';index:idx_posts_user_status,priority:2;index:idx_posts_status_scheduled,priority:1"`
	ScheduledFor   *time.Time `json:"scheduled_for,omitempty" bson:"scheduled_for,omitempty" gorm:"index:idx_posts_status_scheduled,priority:2"`
	PublishedAt    *time.Time `json:"published_at,omitempty" bson:"published_at,omitempty"`
	PlatformPostID string     `json:"platform_post_id,omitempty" bson:"platform_post_id,omitempty" gorm:"size:191"`
	ImageURL       string     `json:"image_url,omitempty" bson:"image_url,omitempty" gorm:"size:500"`
	Engagement     Engagement `json:"engagement" bson:"engagement" gorm:"embedded;embeddedPrefix:engagement_"`
	FailureReason  string     `json:"failure_reason,omitempty" bson:"failure_reason,omitempty" gorm:"size:500"`
	ClaimedAt      *time.Time `json:"-" bson:"claimed_at,omitempty"`
	ClaimToken     string     `json:"-" bson:"claim_token,omitempty" gorm:"size:64"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

// ClearPublication resets the fields that only a successful dispatch may set.
func (p *Post) ClearPublication() {
	p.PublishedAt = nil
	p.PlatformPostID = ""
	p.FailureReason = ""
	p.ClaimedAt = nil
	p.ClaimToken = ""
}

// PostFilter narrows a post listing for a single owner.
type PostFilter struct {
	UserID   string
	Status   PostStatus
	Platform Platform
	Page     int
	Limit    int
}

// Offset returns the row offset for the filter's page.
func (f PostFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// PostListResponse is the paginated listing returned by GET /posts.
type PostListResponse struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// StatusCount is one row of the per-status summary.
type StatusCount struct {
	Status PostStatus `json:"status"`
	Count  int64      `json:"count"`
}

// EngagementTotals sums the counters of a set of published posts.
type EngagementTotals struct {
	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
	TotalShares   int64 `json:"total_shares"`
	TotalViews    int64 `json:"total_views"`
	PostCount     int64 `json:"post_count"`
}

// PostStatsSummary is returned by GET /posts/stats/summary.
type PostStatsSummary struct {
	ByStatus   []StatusCount    `json:"by_status"`
	Engagement EngagementTotals `json:"engagement"`
}

// PostStatusEvent is pushed to dashboards when the scheduler moves a post.
type PostStatusEvent struct {
	Type           string     `json:"type"`
	PostID         string     `json:"post_id"`
	UserID         string     `json:"user_id"`
	Title          string     `json:"title"`
	Platform       Platform   `json:"platform"`
	Status         PostStatus `json:"status"`
	PlatformPostID string     `json:"platform_post_id,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

// NewPostStatusEvent builds the dashboard event for the post's current state.
func NewPostStatusEvent(p Post, at time.Time) PostStatusEvent {
	return PostStatusEvent{
		Type:           "post.status",
		PostID:         p.ID,
		UserID:         p.UserID,
		Title:          p.Title,
		Platform:       p.Platform,
		Status:         p.Status,
		PlatformPostID: p.PlatformPostID,
		PublishedAt:    p.PublishedAt,
		FailureReason:  p.FailureReason,
		OccurredAt:     at,
	}
}
