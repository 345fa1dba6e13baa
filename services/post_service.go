// File: /services/post_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"socialpulse-api/models"
	"socialpulse-api/repositories"
	"socialpulse-api/utils"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 5000
	DefaultPageSize  = 10
	MaxPageSize      = 100
)

var (
	ErrInvalidStatus    = errors.New("status can only be set to draft or scheduled")
	ErrAlreadyPublished = errors.New("post is already published")
)

// ValidationError reports a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// CreatePostInput is the payload of POST /posts.
type CreatePostInput struct {
	Title        string          `json:"title" binding:"required"`
	Content      string          `json:"content" binding:"required"`
	Platform     models.Platform `json:"platform" binding:"required"`
	ScheduledFor *time.Time      `json:"scheduled_for"`
	ImageURL     string          `json:"image_url"`
}

// UpdatePostInput is the payload of PUT /posts/:id. Nil fields are left alone.
type UpdatePostInput struct {
	Title        *string            `json:"title"`
	Content      *string            `json:"content"`
	Platform     *models.Platform   `json:"platform"`
	Status       *models.PostStatus `json:"status"`
	ScheduledFor *time.Time         `json:"scheduled_for"`
	ImageURL     *string            `json:"image_url"`
	// ClearSchedule removes scheduled_for; only valid for drafts.
	ClearSchedule bool `json:"clear_schedule"`
}

type PostService struct {
	store repositories.PostStore
	now   func() time.Time
}

func NewPostService(store repositories.PostStore) *PostService {
	return &PostService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a new post. A scheduled_for in the future makes it
// scheduled; anything else starts as a draft.
func (s *PostService) Create(ctx context.Context, userID string, in CreatePostInput) (*models.Post, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if !in.Platform.IsValid() {
		return nil, invalid("platform", "must be one of twitter, linkedin, instagram")
	}
	if !utils.IsValidImageURL(in.ImageURL) {
		return nil, invalid("image_url", "must be an absolute http(s) URL")
	}

	now := s.now()
	post := &models.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Content:   in.Content,
		Platform:  in.Platform,
		Status:    models.PostStatusDraft,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.ScheduledFor != nil {
		scheduledFor := in.ScheduledFor.UTC()
		post.ScheduledFor = &scheduledFor
		if scheduledFor.After(now) {
			post.Status = models.PostStatusScheduled
		}
	}

	if err := s.store.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, userID, id string) (*models.Post, error) {
	return s.store.FindForUser(ctx, userID, id)
}

// List returns one page of the user's posts.
func (s *PostService) List(ctx context.Context, filter models.PostFilter) (*models.PostListResponse, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, invalid("status", "unknown status")
	}
	if filter.Platform != "" && !filter.Platform.IsValid() {
		return nil, invalid("platform", "unknown platform")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}

	posts, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.PostListResponse{
		Posts: posts,
		Pagination: models.Pagination{
			Total: total,
			Page:  filter.Page,
			Pages: utils.TotalPages(total, filter.Limit),
			Limit: filter.Limit,
		},
	}, nil
}

// Update applies a user edit. Users may only move a post to draft or
// scheduled, which resets any previous publication outcome.
func (s *PostService) Update(ctx context.Context, userID, id string, in UpdatePostInput) (*models.Post, error) {
	post, err := s.store.FindForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusPublishing {
		return nil, repositories.ErrPostLocked
	}
	expected := post.Status

	if in.Title != nil {
		title, err := validateTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		post.Title = title
	}
	if in.Content != nil {
		if err := validateContent(*in.Content); err != nil {
			return nil, err
		}
		post.Content = *in.Content
	}
	if in.Platform != nil {
		if !in.Platform.IsValid() {
			return nil, invalid("platform", "must be one of twitter, linkedin, instagram")
		}
		post.Platform = *in.Platform
	}
	if in.ImageURL != nil {
		if !utils.IsValidImageURL(*in.ImageURL) {
			return nil, invalid("image_url", "must be an absolute http(s) URL")
		}
		post.ImageURL = *in.ImageURL
	}
	if in.ScheduledFor != nil {
		scheduledFor := in.ScheduledFor.UTC()
		post.ScheduledFor = &scheduledFor
	} else if in.ClearSchedule {
		post.ScheduledFor = nil
	}

	if in.Status != nil {
		if !in.Status.IsUserSettable() {
			return nil, ErrInvalidStatus
		}
		post.Status = *in.Status
		post.ClearPublication()
	}
	if post.Status == models.PostStatusScheduled && post.ScheduledFor == nil {
		return nil, invalid("scheduled_for", "is required for scheduled posts")
	}

	post.UpdatedAt = s.now()
	if err := s.store.Update(ctx, post, expected); err != nil {
		return nil, err
	}
	return post, nil
}

// PublishNow reschedules the post for the next scheduler iteration.
func (s *PostService) PublishNow(ctx context.Context, userID, id string) (*models.Post, error) {
	post, err := s.store.FindForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	switch post.Status {
	case models.PostStatusPublishing:
		return nil, repositories.ErrPostLocked
	case models.PostStatusPublished:
		return nil, ErrAlreadyPublished
	}

	expected := post.Status
	now := s.now()
	post.Status = models.PostStatusScheduled
	post.ScheduledFor = &now
	post.ClearPublication()
	post.UpdatedAt = now

	if err := s.store.Update(ctx, post, expected); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	return s.store.Delete(ctx, userID, id)
}

// UpdateEngagement overwrites the counters of a post.
func (s *PostService) UpdateEngagement(ctx context.Context, userID, id string, engagement models.Engagement) (*models.Post, error) {
	if engagement.Likes < 0 || engagement.Comments < 0 || engagement.Shares < 0 || engagement.Views < 0 {
		return nil, invalid("engagement", "counters must not be negative")
	}
	if err := s.store.UpdateEngagement(ctx, userID, id, engagement); err != nil {
		return nil, err
	}
	return s.store.FindForUser(ctx, userID, id)
}

// StatsSummary counts posts per status and sums engagement of published posts.
func (s *PostService) StatsSummary(ctx context.Context, userID string) (*models.PostStatsSummary, error) {
	counts, err := s.store.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	published, err := s.store.PublishedPosts(ctx, models.AnalyticsQuery{UserID: userID})
	if err != nil {
		return nil, err
	}

	totals := models.EngagementTotals{PostCount: int64(len(published))}
	for _, p := range published {
		totals.TotalLikes += p.Engagement.Likes
		totals.TotalComments += p.Engagement.Comments
		totals.TotalShares += p.Engagement.Shares
		totals.TotalViews += p.Engagement.Views
	}
	return &models.PostStatsSummary{ByStatus: counts, Engagement: totals}, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", invalid("title", fmt.Sprintf("cannot be more than %d characters", MaxTitleLength))
	}
	return title, nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return invalid("content", "is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return invalid("content", fmt.Sprintf("cannot be more than %d characters", MaxContentLength))
	}
	return nil
}
