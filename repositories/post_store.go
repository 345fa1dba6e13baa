// File: /repositories/post_store.go
package repositories

import (
	"context"
	"errors"
	"time"

	"socialpulse-api/models"
)

var (
	// ErrPostNotFound is returned when no post matches the id (and owner).
	ErrPostNotFound = errors.New("post not found")

	// ErrPostLocked is returned when a user edit targets a post that a
	// scheduler run has claimed.
	ErrPostLocked = errors.New("post is being published")

	// ErrPostNotClaimed is returned by MarkPublished and MarkFailed when the
	// post is no longer held by the given claim.
	ErrPostNotClaimed = errors.New("post is not claimed for publishing")

	// ErrPostChanged is returned by Update when the post left the status the
	// edit was based on, usually because the scheduler dispatched it.
	ErrPostChanged = errors.New("post was changed by another request")
)

// PostStore is the post store shared by the REST API and the publish
// scheduler. Every scheduler mutation is a conditional update so that several
// runners can work against the same store.
type PostStore interface {
	// Create inserts a new post.
	Create(ctx context.Context, post *models.Post) error

	// FindForUser returns the post with the given id owned by userID.
	FindForUser(ctx context.Context, userID, id string) (*models.Post, error)

	// List returns one page of the owner's posts, newest first, and the total
	// number of posts matching the filter.
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, int64, error)

	// Update saves user-editable fields, provided the stored post is still in
	// the expected status. Posts in publishing are rejected with ErrPostLocked
	// and posts that moved to another status with ErrPostChanged.
	Update(ctx context.Context, post *models.Post, expected models.PostStatus) error

	// Delete removes the owner's post. Posts in publishing are rejected with
	// ErrPostLocked.
	Delete(ctx context.Context, userID, id string) error

	// UpdateEngagement overwrites the engagement counters of a post.
	UpdateEngagement(ctx context.Context, userID, id string, engagement models.Engagement) error

	// CountByStatus groups the owner's posts by status.
	CountByStatus(ctx context.Context, userID string) ([]models.StatusCount, error)

	// PublishedPosts returns the owner's published posts created inside the
	// query window.
	PublishedPosts(ctx context.Context, query models.AnalyticsQuery) ([]models.Post, error)

	// FindDuePosts returns scheduled posts with scheduled_for <= now, plus
	// publishing posts claimed at or before staleBefore, oldest schedule first.
	FindDuePosts(ctx context.Context, now, staleBefore time.Time, limit int) ([]models.Post, error)

	// ClaimPost atomically moves a due post into publishing under the given
	// claim token. It reports false when the post is no longer claimable.
	ClaimPost(ctx context.Context, id, token string, now, staleBefore time.Time) (bool, error)

	// MarkPublished records a successful dispatch of a post still held by
	// token.
	MarkPublished(ctx context.Context, id, token, externalID string, publishedAt time.Time) error

	// MarkFailed records a failed dispatch of a post still held by token.
	MarkFailed(ctx context.Context, id, token, reason string, failedAt time.Time) error
}
