// File: /services/notification_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"socialpulse-api/models"
	"socialpulse-api/repositories"
	"socialpulse-api/utils"
)

const (
	DefaultNotificationPageSize = 20
	MaxNotificationPageSize     = 50

	// at most one entry per post and type inside this window
	notificationDedupWindow = time.Hour
)

// NotificationService keeps the in-app inbox of publish outcomes. It is a
// scheduler status listener.
type NotificationService struct {
	store *repositories.NotificationRepository
	now   func() time.Time
}

func NewNotificationService(store *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// PostStatusChanged records published and failed posts. Errors are only logged.
func (s *NotificationService) PostStatusChanged(ctx context.Context, post models.Post) {
	var typ models.NotificationType
	switch post.Status {
	case models.PostStatusPublished:
		typ = models.NotificationTypePostPublished
	case models.PostStatusFailed:
		typ = models.NotificationTypePostFailed
	default:
		return
	}

	now := s.now()
	exists, err := s.store.ExistsSince(ctx, post.ID, typ, now.Add(-notificationDedupWindow))
	if err != nil {
		log.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to check notifications")
		return
	}
	if exists {
		return
	}

	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    post.UserID,
		Type:      typ,
		PostID:    post.ID,
		PostTitle: post.Title,
		Platform:  post.Platform,
		Detail:    post.FailureReason,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, n); err != nil {
		log.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to store notification")
	}
}

func (s *NotificationService) List(ctx context.Context, f models.NotificationFilter) (*models.PaginatedNotifications, error) {
	switch f.Type {
	case "", models.NotificationTypePostPublished, models.NotificationTypePostFailed:
	default:
		return nil, invalid("type", "unknown notification type")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > MaxNotificationPageSize {
		f.Limit = DefaultNotificationPageSize
	}

	notifications, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, notifications[i].ToResponse(now))
	}
	return &models.PaginatedNotifications{
		Notifications: responses,
		Pagination: models.Pagination{
			Total: total,
			Page:  f.Page,
			Pages: utils.TotalPages(total, f.Limit),
			Limit: f.Limit,
		},
	}, nil
}

func (s *NotificationService) Stats(ctx context.Context, userID string) (models.NotificationStats, error) {
	return s.store.Stats(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.store.MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	return s.store.Delete(ctx, userID, id)
}
