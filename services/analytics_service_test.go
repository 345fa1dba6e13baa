package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"socialpulse-api/models"
)

type countingSource struct {
	posts []models.Post
	calls int
}

func (s *countingSource) PublishedPosts(_ context.Context, q models.AnalyticsQuery) ([]models.Post, error) {
	s.calls++
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.UserID == q.UserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func publishedPost(id string, platform models.Platform, publishedAt time.Time, e models.Engagement) models.Post {
	return models.Post{
		ID:          id,
		UserID:      "user-1",
		Title:       "Post " + id,
		Platform:    platform,
		Status:      models.PostStatusPublished,
		PublishedAt: &publishedAt,
		Engagement:  e,
		CreatedAt:   publishedAt.Add(-time.Hour),
	}
}

func analyticsFixture() *countingSource {
	return &countingSource{posts: []models.Post{
		publishedPost("a", models.PlatformTwitter, fixedNow.Add(-24*time.Hour), models.Engagement{Likes: 10, Comments: 5, Shares: 5}),
		publishedPost("b", models.PlatformTwitter, fixedNow.Add(-24*time.Hour), models.Engagement{Likes: 30, Comments: 0, Shares: 1}),
		publishedPost("c", models.PlatformLinkedIn, fixedNow.Add(-48*time.Hour), models.Engagement{Likes: 4, Comments: 4, Shares: 4}),
		publishedPost("old", models.PlatformInstagram, fixedNow.Add(-30*24*time.Hour), models.Engagement{Likes: 50}),
	}}
}

func TestAnalyticsComputation(t *testing.T) {
	svc := NewAnalyticsService(analyticsFixture(), nil, 0)
	svc.now = func() time.Time { return fixedNow }

	got, err := svc.Get(context.Background(), models.AnalyticsQuery{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	// 20 + 31 + 12 + 50 interactions over 4 posts, no views reported.
	if got.Stats.TotalEngagement != 113 || got.Stats.TotalPosts != 4 {
		t.Fatalf("unexpected stats: %+v", got.Stats)
	}
	if got.Stats.TotalReach != 1130 {
		t.Fatalf("expected estimated reach 1130, got %d", got.Stats.TotalReach)
	}
	if got.Stats.AvgEngagementRate != 2.4 {
		t.Fatalf("expected rate 2.4, got %v", got.Stats.AvgEngagementRate)
	}

	if len(got.PlatformData) != 3 || got.PlatformData[0].Platform != models.PlatformTwitter {
		t.Fatalf("unexpected platform data: %+v", got.PlatformData)
	}
	if got.PlatformData[0].Engagement != 51 || got.PlatformData[0].AvgEngagement != 25.5 {
		t.Fatalf("unexpected twitter aggregate: %+v", got.PlatformData[0])
	}

	if len(got.EngagementTrends) != 2 {
		t.Fatalf("expected two trend days inside the last week, got %+v", got.EngagementTrends)
	}
	if got.EngagementTrends[0].Date != "2026-03-12" || got.EngagementTrends[1].Posts != 2 {
		t.Fatalf("unexpected trend ordering: %+v", got.EngagementTrends)
	}

	if len(got.TopPosts) != 4 || got.TopPosts[0].ID != "old" || got.TopPosts[1].ID != "b" {
		t.Fatalf("unexpected top posts: %+v", got.TopPosts)
	}
}

func TestAnalyticsWindowAndViews(t *testing.T) {
	source := analyticsFixture()
	source.posts[0].Engagement.Views = 500
	svc := NewAnalyticsService(source, nil, 0)
	svc.now = func() time.Time { return fixedNow }

	from := fixedNow.Add(-3 * 24 * time.Hour)
	got, err := svc.Get(context.Background(), models.AnalyticsQuery{UserID: "user-1", From: &from})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Stats.TotalPosts != 3 {
		t.Fatalf("window should drop the old post, got %d", got.Stats.TotalPosts)
	}
	if got.Stats.TotalReach != 500 {
		t.Fatalf("reported views should be used as reach, got %d", got.Stats.TotalReach)
	}
	if len(got.TopPosts) != 4 {
		t.Fatal("top posts ignore the window")
	}
}

func TestAnalyticsEmpty(t *testing.T) {
	svc := NewAnalyticsService(&countingSource{}, nil, 0)
	got, err := svc.Get(context.Background(), models.AnalyticsQuery{UserID: "nobody"})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Stats.AvgEngagementRate != 0 || got.Stats.TotalReach != 0 {
		t.Fatalf("unexpected empty stats: %+v", got.Stats)
	}
	if got.PlatformData == nil || got.EngagementTrends == nil || got.TopPosts == nil {
		t.Fatal("empty analytics should serialize as empty lists")
	}
}

func TestAnalyticsCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := analyticsFixture()
	svc := NewAnalyticsService(source, client, time.Minute)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()
	q := models.AnalyticsQuery{UserID: "user-1"}

	first, err := svc.Get(ctx, q)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := svc.Get(ctx, q)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("second call should be served from cache, store called %d times", source.calls)
	}
	if second.Stats != first.Stats {
		t.Fatalf("cached stats differ: %+v vs %+v", second.Stats, first.Stats)
	}
	if ttl := mr.TTL(cacheKey("user-1")); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected cache ttl %v", ttl)
	}

	svc.PostStatusChanged(ctx, models.Post{UserID: "user-1", Status: models.PostStatusFailed})
	_, _ = svc.Get(ctx, q)
	if source.calls != 1 {
		t.Fatal("failed posts must not invalidate analytics")
	}

	svc.PostStatusChanged(ctx, models.Post{UserID: "user-1", Status: models.PostStatusPublished})
	_, _ = svc.Get(ctx, q)
	if source.calls != 2 {
		t.Fatalf("publish should invalidate the cache, store called %d times", source.calls)
	}
}
