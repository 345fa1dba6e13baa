// File: /repositories/post_repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"socialpulse-api/models"
)

// PostRepository implements PostStore on top of gorm.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

var _ PostStore = (*PostRepository)(nil)

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindForUser(ctx context.Context, userID, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}
	return &post, nil
}

func (r *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", filter.UserID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	posts := make([]models.Post, 0)
	if err := query.Order("created_at DESC").Offset(filter.Offset()).Limit(filter.Limit).Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post, expected models.PostStatus) error {
	if expected == models.PostStatusPublishing {
		return ErrPostLocked
	}
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND user_id = ? AND status = ?", post.ID, post.UserID, expected).
		Updates(map[string]interface{}{
			"title":            post.Title,
			"content":          post.Content,
			"platform":         post.Platform,
			"status":           post.Status,
			"scheduled_for":    post.ScheduledFor,
			"published_at":     post.PublishedAt,
			"platform_post_id": post.PlatformPostID,
			"image_url":        post.ImageURL,
			"failure_reason":   post.FailureReason,
			"claimed_at":       post.ClaimedAt,
			"claim_token":      post.ClaimToken,
			"updated_at":       post.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update post %s: %w", post.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := r.FindForUser(ctx, post.UserID, post.ID)
		if err != nil {
			return err
		}
		if current.Status == models.PostStatusPublishing {
			return ErrPostLocked
		}
		return ErrPostChanged
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status <> ?", id, userID, models.PostStatusPublishing).
		Delete(&models.Post{})
	if res.Error != nil {
		return fmt.Errorf("delete post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.explainMiss(ctx, userID, id)
	}
	return nil
}

func (r *PostRepository) UpdateEngagement(ctx context.Context, userID, id string, engagement models.Engagement) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"engagement_likes":    engagement.Likes,
			"engagement_comments": engagement.Comments,
			"engagement_shares":   engagement.Shares,
			"engagement_views":    engagement.Views,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update engagement for post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) CountByStatus(ctx context.Context, userID string) ([]models.StatusCount, error) {
	counts := make([]models.StatusCount, 0)
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Order("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count posts by status: %w", err)
	}
	return counts, nil
}

func (r *PostRepository) PublishedPosts(ctx context.Context, query models.AnalyticsQuery) ([]models.Post, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", query.UserID, models.PostStatusPublished)
	if query.From != nil {
		q = q.Where("created_at >= ?", query.From.UTC())
	}
	if query.To != nil {
		q = q.Where("created_at <= ?", query.To.UTC())
	}

	posts := make([]models.Post, 0)
	if err := q.Order("published_at ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

// Scheduler operations

func (r *PostRepository) FindDuePosts(ctx context.Context, now, staleBefore time.Time, limit int) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := r.db.WithContext(ctx).
		Where(claimableCondition, models.PostStatusScheduled, now.UTC(), models.PostStatusPublishing, staleBefore.UTC()).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("find due posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) ClaimPost(ctx context.Context, id, token string, now, staleBefore time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Where(claimableCondition, models.PostStatusScheduled, now.UTC(), models.PostStatusPublishing, staleBefore.UTC()).
		Updates(map[string]interface{}{
			"status":      models.PostStatusPublishing,
			"claimed_at":  now.UTC(),
			"claim_token": token,
			"updated_at":  now.UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("claim post %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *PostRepository) MarkPublished(ctx context.Context, id, token, externalID string, publishedAt time.Time) error {
	return r.resolveClaim(ctx, id, token, map[string]interface{}{
		"status":           models.PostStatusPublished,
		"platform_post_id": externalID,
		"published_at":     publishedAt.UTC(),
		"failure_reason":   "",
		"claimed_at":       nil,
		"claim_token":      "",
		"updated_at":       publishedAt.UTC(),
	})
}

func (r *PostRepository) MarkFailed(ctx context.Context, id, token, reason string, failedAt time.Time) error {
	return r.resolveClaim(ctx, id, token, map[string]interface{}{
		"status":           models.PostStatusFailed,
		"platform_post_id": "",
		"published_at":     nil,
		"failure_reason":   truncate(reason, maxFailureReason),
		"claimed_at":       nil,
		"claim_token":      "",
		"updated_at":       failedAt.UTC(),
	})
}

const claimableCondition = "((status = ? AND scheduled_for <= ?) OR (status = ? AND claimed_at <= ?))"

func (r *PostRepository) resolveClaim(ctx context.Context, id, token string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND status = ? AND claim_token = ?", id, models.PostStatusPublishing, token).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("resolve claim on post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotClaimed
	}
	return nil
}

// explainMiss tells a missing post apart from one locked by the scheduler.
func (r *PostRepository) explainMiss(ctx context.Context, userID, id string) error {
	post, err := r.FindForUser(ctx, userID, id)
	if err != nil {
		return err
	}
	if post.Status == models.PostStatusPublishing {
		return ErrPostLocked
	}
	return ErrPostNotFound
}

// maxFailureReason matches the size of the failure_reason column.
const maxFailureReason = 500

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
