// File: /models/notification.go
package models

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypePostPublished NotificationType = "post_published"
	NotificationTypePostFailed    NotificationType = "post_failed"
)

// Notification is an inbox entry telling a user what the scheduler did with
// one of their posts.
type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;size:191"`
	UserID    string           `json:"user_id" gorm:"not null;size:191;index:idx_notifications_user_read,priority:1"`
	Type      NotificationType `json:"type" gorm:"not null;size:50"`
	PostID    string           `json:"post_id" gorm:"not null;size:191"`
	PostTitle string           `json:"post_title" gorm:"size:200"`
	Platform  Platform         `json:"platform" gorm:"size:50"`
	Detail    string           `json:"detail,omitempty" gorm:"size:500"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index:idx_notifications_user_read,priority:2"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationResponse represents the API response for notifications
type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	PostID    string           `json:"post_id"`
	PostTitle string           `json:"post_title"`
	Platform  Platform         `json:"platform"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	Message   string           `json:"message"`
	TimeAgo   string           `json:"time_ago"`
}

// NotificationStats represents notification statistics
type NotificationStats struct {
	UnreadCount int64 `json:"unread_count"`
	TotalCount  int64 `json:"total_count"`
}

type NotificationFilter struct {
	UserID     string
	Type       NotificationType
	UnreadOnly bool
	Page       int
	Limit      int
}

// PaginatedNotifications represents paginated notification response
type PaginatedNotifications struct {
	Notifications []NotificationResponse `json:"notifications"`
	Pagination    Pagination             `json:"pagination"`
}

// Message returns a human-readable message for the notification
func (n *Notification) Message() string {
	switch n.Type {
	case NotificationTypePostPublished:
		return fmt.Sprintf("%q was published to %s", n.PostTitle, n.Platform)
	case NotificationTypePostFailed:
		if n.Detail != "" {
			return fmt.Sprintf("%q could not be published to %s: %s", n.PostTitle, n.Platform, n.Detail)
		}
		return fmt.Sprintf("%q could not be published to %s", n.PostTitle, n.Platform)
	default:
		return "Your post was updated"
	}
}

// TimeAgo returns a human-readable time difference
func (n *Notification) TimeAgo(now time.Time) string {
	diff := now.Sub(n.CreatedAt)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/(24*7)), "week")
	default:
		return plural(int(diff.Hours()/(24*30)), "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// ToResponse converts Notification to NotificationResponse
func (n *Notification) ToResponse(now time.Time) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		PostID:    n.PostID,
		PostTitle: n.PostTitle,
		Platform:  n.Platform,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		Message:   n.Message(),
		TimeAgo:   n.TimeAgo(now),
	}
}
