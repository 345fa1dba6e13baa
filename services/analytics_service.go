// File: /services/analytics_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"socialpulse-api/models"
)

const (
	trendDays     = 7
	topPostsLimit = 5
	// engagementRateFactor converts average interactions per post into the
	// dashboard's engagement rate percentage.
	engagementRateFactor = 8.5
)

// PublishedPostSource is the read model analytics are computed from.
type PublishedPostSource interface {
	PublishedPosts(ctx context.Context, query models.AnalyticsQuery) ([]models.Post, error)
}

// AnalyticsService aggregates engagement of published posts. Results are
// cached in redis per user when a client is configured.
type AnalyticsService struct {
	posts PublishedPostSource
	cache *redis.Client
	ttl   time.Duration
	now   func() time.Time
}

// NewAnalyticsService creates the service. cache may be nil.
func NewAnalyticsService(posts PublishedPostSource, cache *redis.Client, ttl time.Duration) *AnalyticsService {
	return &AnalyticsService{
		posts: posts,
		cache: cache,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func cacheKey(userID string) string {
	return "analytics:" + userID
}

func cacheField(q models.AnalyticsQuery) string {
	field := "all"
	if q.From != nil {
		field += ":from=" + q.From.UTC().Format(time.RFC3339)
	}
	if q.To != nil {
		field += ":to=" + q.To.UTC().Format(time.RFC3339)
	}
	return field
}

// Get returns the analytics dashboard for the query. Stats and platform data
// honour the query window; trends cover the last seven days and top posts
// all published posts.
func (s *AnalyticsService) Get(ctx context.Context, q models.AnalyticsQuery) (*models.AnalyticsResponse, error) {
	if cached, ok := s.fromCache(ctx, q); ok {
		return cached, nil
	}

	all, err := s.posts.PublishedPosts(ctx, models.AnalyticsQuery{UserID: q.UserID})
	if err != nil {
		return nil, fmt.Errorf("load published posts: %w", err)
	}

	windowed := make([]models.Post, 0, len(all))
	for _, p := range all {
		if q.From != nil && p.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && p.CreatedAt.After(*q.To) {
			continue
		}
		windowed = append(windowed, p)
	}

	result := &models.AnalyticsResponse{
		Stats:            computeStats(windowed),
		PlatformData:     computePlatformData(windowed),
		EngagementTrends: computeTrends(all, s.now()),
		TopPosts:         computeTopPosts(all),
	}

	s.toCache(ctx, q, result)
	return result, nil
}

// Invalidate drops every cached result of the user.
func (s *AnalyticsService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate analytics cache")
	}
}

// PostStatusChanged invalidates the owner's cache once a post is published.
func (s *AnalyticsService) PostStatusChanged(ctx context.Context, post models.Post) {
	if post.Status == models.PostStatusPublished {
		s.Invalidate(ctx, post.UserID)
	}
}

func (s *AnalyticsService) fromCache(ctx context.Context, q models.AnalyticsQuery) (*models.AnalyticsResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.HGet(ctx, cacheKey(q.UserID), cacheField(q)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Analytics cache read failed")
		}
		return nil, false
	}
	var cached models.AnalyticsResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

func (s *AnalyticsService) toCache(ctx context.Context, q models.AnalyticsQuery, result *models.AnalyticsResponse) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	key := cacheKey(q.UserID)
	_, err = s.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, cacheField(q), raw)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Analytics cache write failed")
	}
}

func computeStats(posts []models.Post) models.AnalyticsStats {
	var engagement, views int64
	for _, p := range posts {
		engagement += p.Engagement.Total()
		views += p.Engagement.Views
	}

	stats := models.AnalyticsStats{
		TotalEngagement: engagement,
		TotalReach:      views,
		TotalPosts:      int64(len(posts)),
	}
	// Reach falls back to an estimate when no views were reported.
	if views == 0 {
		stats.TotalReach = engagement * 10
	}
	if len(posts) > 0 {
		perPost := float64(engagement) / float64(len(posts))
		stats.AvgEngagementRate = round2(perPost / 100 * engagementRateFactor)
	}
	return stats
}

func computePlatformData(posts []models.Post) []models.PlatformAnalytics {
	byPlatform := make(map[models.Platform]*models.PlatformAnalytics)
	for _, p := range posts {
		entry, ok := byPlatform[p.Platform]
		if !ok {
			entry = &models.PlatformAnalytics{Platform: p.Platform}
			byPlatform[p.Platform] = entry
		}
		entry.Posts++
		entry.Engagement += p.Engagement.Total()
	}

	out := make([]models.PlatformAnalytics, 0, len(byPlatform))
	for _, entry := range byPlatform {
		entry.AvgEngagement = round2(float64(entry.Engagement) / float64(entry.Posts))
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return platformRank(out[i].Platform) < platformRank(out[j].Platform) ||
			(platformRank(out[i].Platform) == platformRank(out[j].Platform) && out[i].Platform < out[j].Platform)
	})
	return out
}

func platformRank(p models.Platform) int {
	for i, known := range models.Platforms {
		if p == known {
			return i
		}
	}
	return len(models.Platforms)
}

func computeTrends(posts []models.Post, now time.Time) []models.EngagementTrend {
	since := now.AddDate(0, 0, -trendDays)
	byDay := make(map[string]*models.EngagementTrend)
	for _, p := range posts {
		if p.PublishedAt == nil || p.PublishedAt.Before(since) {
			continue
		}
		day := p.PublishedAt.UTC().Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &models.EngagementTrend{Date: day}
			byDay[day] = entry
		}
		entry.Likes += p.Engagement.Likes
		entry.Comments += p.Engagement.Comments
		entry.Shares += p.Engagement.Shares
		entry.Posts++
	}

	out := make([]models.EngagementTrend, 0, len(byDay))
	for _, entry := range byDay {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func computeTopPosts(posts []models.Post) []models.TopPost {
	sorted := make([]models.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Engagement.Likes > sorted[j].Engagement.Likes
	})
	if len(sorted) > topPostsLimit {
		sorted = sorted[:topPostsLimit]
	}

	out := make([]models.TopPost, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, models.TopPost{
			ID:          p.ID,
			Title:       p.Title,
			Platform:    p.Platform,
			Engagement:  p.Engagement,
			PublishedAt: p.PublishedAt,
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
