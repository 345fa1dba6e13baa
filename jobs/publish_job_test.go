package jobs

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"socialpulse-api/models"
	"socialpulse-api/publishers"
	"socialpulse-api/repositories"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// memoryStore implements the scheduler half of repositories.PostStore.
type memoryStore struct {
	repositories.PostStore

	mu    sync.Mutex
	posts map[string]*models.Post

	findErr      error
	markErr      error
	markErrs     map[string]error
	findCalls    int
	findNotify   chan struct{}
	refuseClaims bool
}

func newMemoryStore(posts ...models.Post) *memoryStore {
	s := &memoryStore{posts: make(map[string]*models.Post)}
	for i := range posts {
		p := posts[i]
		s.posts[p.ID] = &p
	}
	return s
}

func (s *memoryStore) get(id string) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.posts[id]
}

func claimable(p *models.Post, now, staleBefore time.Time) bool {
	switch p.Status {
	case models.PostStatusScheduled:
		return p.ScheduledFor != nil && !p.ScheduledFor.After(now)
	case models.PostStatusPublishing:
		return p.ClaimedAt != nil && !p.ClaimedAt.After(staleBefore)
	}
	return false
}

func (s *memoryStore) FindDuePosts(ctx context.Context, now, staleBefore time.Time, limit int) ([]models.Post, error) {
	s.mu.Lock()
	s.findCalls++
	notify := s.findNotify
	s.mu.Unlock()
	if notify != nil {
		defer func() { notify <- struct{}{} }()
	}

	if s.findErr != nil {
		return nil, s.findErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	due := make([]models.Post, 0)
	for _, p := range s.posts {
		if claimable(p, now, staleBefore) {
			due = append(due, *p)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ScheduledFor.Before(*due[j].ScheduledFor) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *memoryStore) ClaimPost(ctx context.Context, id, token string, now, staleBefore time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok || s.refuseClaims || !claimable(p, now, staleBefore) {
		return false, nil
	}
	p.Status = models.PostStatusPublishing
	p.ClaimedAt = &now
	p.ClaimToken = token
	return true, nil
}

// resolvable reports the claimed post or the error a mark should return.
func (s *memoryStore) resolvable(id, token string) (*models.Post, error) {
	if s.markErr != nil {
		return nil, s.markErr
	}
	if err := s.markErrs[id]; err != nil {
		return nil, err
	}
	p := s.posts[id]
	if p.Status != models.PostStatusPublishing || p.ClaimToken != token {
		return nil, repositories.ErrPostNotClaimed
	}
	return p, nil
}

func (s *memoryStore) MarkPublished(ctx context.Context, id, token, externalID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.resolvable(id, token)
	if err != nil {
		return err
	}
	p.Status = models.PostStatusPublished
	p.PlatformPostID = externalID
	p.PublishedAt = &publishedAt
	p.ClaimedAt = nil
	p.ClaimToken = ""
	return nil
}

func (s *memoryStore) MarkFailed(ctx context.Context, id, token, reason string, failedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.resolvable(id, token)
	if err != nil {
		return err
	}
	p.Status = models.PostStatusFailed
	p.FailureReason = reason
	p.PublishedAt = nil
	p.PlatformPostID = ""
	p.ClaimedAt = nil
	p.ClaimToken = ""
	return nil
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	ticker *fakeTicker
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, ticker: &fakeTicker{ch: make(chan time.Time)}}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) NewTicker(time.Duration) Ticker { return c.ticker }

type fakeTicker struct {
	ch      chan time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped = true }

type recordingListener struct {
	mu     sync.Mutex
	events []models.Post
}

func (l *recordingListener) PostStatusChanged(_ context.Context, post models.Post) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, post)
}

func (l *recordingListener) statuses() map[string]models.PostStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]models.PostStatus, len(l.events))
	for _, e := range l.events {
		out[e.ID] = e.Status
	}
	return out
}

type funcPublisher struct {
	platform models.Platform
	fn       func(ctx context.Context, post models.Post) (string, error)
}

func (p funcPublisher) Platform() models.Platform { return p.platform }
func (p funcPublisher) Publish(ctx context.Context, post models.Post) (string, error) {
	return p.fn(ctx, post)
}

func scheduledPost(id string, platform models.Platform, at time.Time) models.Post {
	return models.Post{
		ID:           id,
		UserID:       "user-1",
		Title:        "Post " + id,
		Content:      "content",
		Platform:     platform,
		Status:       models.PostStatusScheduled,
		ScheduledFor: &at,
	}
}

func sequentialIDs() publishers.IDFunc {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return strings.Repeat("x", n)
	}
}

func TestRunOncePublishesDuePosts(t *testing.T) {
	draft := scheduledPost("draft", models.PlatformTwitter, baseTime.Add(-time.Minute))
	draft.Status = models.PostStatusDraft
	publishedAt := baseTime.Add(-time.Hour)
	done := scheduledPost("done", models.PlatformTwitter, baseTime.Add(-2*time.Hour))
	done.Status = models.PostStatusPublished
	done.PlatformPostID = "tw_old"
	done.PublishedAt = &publishedAt
	rejected := scheduledPost("rejected", models.PlatformLinkedIn, baseTime.Add(-2*time.Hour))
	rejected.Status = models.PostStatusFailed
	rejected.FailureReason = "rejected by linkedin"

	store := newMemoryStore(
		scheduledPost("due", models.PlatformTwitter, baseTime.Add(-30*time.Second)),
		scheduledPost("exact", models.PlatformLinkedIn, baseTime),
		scheduledPost("overdue", models.PlatformInstagram, baseTime.Add(-3*time.Hour)),
		scheduledPost("future", models.PlatformTwitter, baseTime.Add(time.Minute)),
		draft,
		done,
		rejected,
	)
	clock := newFakeClock(baseTime)
	listener := &recordingListener{}
	job := NewPublishJob(store, publishers.DefaultRegistry(sequentialIDs()), PublishJobConfig{Clock: clock}, listener)

	report, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if report != (RunReport{Selected: 3, Published: 3}) {
		t.Fatalf("unexpected report: %+v", report)
	}

	prefixes := map[string]string{"due": "tw_", "exact": "li_", "overdue": "ig_"}
	for id, prefix := range prefixes {
		p := store.get(id)
		if p.Status != models.PostStatusPublished {
			t.Fatalf("post %s: expected published, got %s", id, p.Status)
		}
		if !strings.HasPrefix(p.PlatformPostID, prefix) {
			t.Fatalf("post %s: expected platform id prefix %q, got %q", id, prefix, p.PlatformPostID)
		}
		if p.PublishedAt == nil || !p.PublishedAt.Equal(baseTime) {
			t.Fatalf("post %s: expected published_at %v, got %v", id, baseTime, p.PublishedAt)
		}
	}

	if got := store.get("future").Status; got != models.PostStatusScheduled {
		t.Fatalf("future post should stay scheduled, got %s", got)
	}
	if got := store.get("draft").Status; got != models.PostStatusDraft {
		t.Fatalf("draft post should be untouched, got %s", got)
	}
	if got := store.get("done"); got.Status != models.PostStatusPublished || got.PlatformPostID != "tw_old" || !got.PublishedAt.Equal(publishedAt) {
		t.Fatalf("published post should be untouched, got %+v", got)
	}
	if got := store.get("rejected"); got.Status != models.PostStatusFailed || got.FailureReason != "rejected by linkedin" || got.PublishedAt != nil {
		t.Fatalf("failed post should be untouched, got %+v", got)
	}

	if got := listener.statuses(); len(got) != 3 {
		t.Fatalf("expected 3 notifications, got %v", got)
	}

	again, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second RunOnce returned error: %v", err)
	}
	if again != (RunReport{}) {
		t.Fatalf("second iteration should change nothing, got %+v", again)
	}
	if got := listener.statuses(); len(got) != 3 {
		t.Fatalf("second iteration notified listeners: %v", got)
	}
}

func TestRunOnceIsolatesPublisherFailures(t *testing.T) {
	store := newMemoryStore(
		scheduledPost("a", models.PlatformTwitter, baseTime.Add(-2*time.Minute)),
		scheduledPost("b", models.PlatformLinkedIn, baseTime.Add(-time.Minute)),
		scheduledPost("c", models.PlatformInstagram, baseTime),
	)
	registry := publishers.NewRegistry(
		publishers.NewTwitterPublisher(nil),
		funcPublisher{platform: models.PlatformLinkedIn, fn: func(context.Context, models.Post) (string, error) {
			return "", errors.New("linkedin rejected the post")
		}},
		funcPublisher{platform: models.PlatformInstagram, fn: func(context.Context, models.Post) (string, error) {
			panic("boom")
		}},
	)
	listener := &recordingListener{}
	job := NewPublishJob(store, registry, PublishJobConfig{Clock: newFakeClock(baseTime)}, listener)

	report, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if report != (RunReport{Selected: 3, Published: 1, Failed: 2}) {
		t.Fatalf("unexpected report: %+v", report)
	}

	if got := store.get("a").Status; got != models.PostStatusPublished {
		t.Fatalf("expected a published, got %s", got)
	}
	b := store.get("b")
	if b.Status != models.PostStatusFailed || b.FailureReason != "linkedin rejected the post" {
		t.Fatalf("unexpected state for b: %s %q", b.Status, b.FailureReason)
	}
	if b.PublishedAt != nil || b.PlatformPostID != "" {
		t.Fatalf("failed post must not carry publication fields: %+v", b)
	}
	c := store.get("c")
	if c.Status != models.PostStatusFailed || !strings.Contains(c.FailureReason, "panicked") {
		t.Fatalf("unexpected state for c: %s %q", c.Status, c.FailureReason)
	}

	statuses := listener.statuses()
	if statuses["b"] != models.PostStatusFailed || statuses["a"] != models.PostStatusPublished {
		t.Fatalf("unexpected notifications: %v", statuses)
	}
}

func TestRunOnceFailsUnknownPlatform(t *testing.T) {
	store := newMemoryStore(scheduledPost("p", models.Platform("myspace"), baseTime))
	job := NewPublishJob(store, publishers.NewRegistry(), PublishJobConfig{Clock: newFakeClock(baseTime)})

	report, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("expected one failure, got %+v", report)
	}
	if p := store.get("p"); !strings.Contains(p.FailureReason, "unknown platform") {
		t.Fatalf("unexpected failure reason %q", p.FailureReason)
	}
}

func TestRunOnceRejectsEmptyPlatformID(t *testing.T) {
	store := newMemoryStore(scheduledPost("p", models.PlatformTwitter, baseTime))
	registry := publishers.NewRegistry(funcPublisher{platform: models.PlatformTwitter, fn: func(context.Context, models.Post) (string, error) {
		return "", nil
	}})
	job := NewPublishJob(store, registry, PublishJobConfig{Clock: newFakeClock(baseTime)})

	if _, err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if got := store.get("p").Status; got != models.PostStatusFailed {
		t.Fatalf("expected failed, got %s", got)
	}
}

func TestRunOnceTimesOutSlowPublisher(t *testing.T) {
	store := newMemoryStore(scheduledPost("slow", models.PlatformTwitter, baseTime))
	registry := publishers.NewRegistry(funcPublisher{platform: models.PlatformTwitter, fn: func(ctx context.Context, _ models.Post) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}})
	job := NewPublishJob(store, registry, PublishJobConfig{
		Clock:          newFakeClock(baseTime),
		PublishTimeout: 20 * time.Millisecond,
	})

	report, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("expected the slow post to fail, got %+v", report)
	}
	if p := store.get("slow"); !strings.Contains(p.FailureReason, "deadline exceeded") {
		t.Fatalf("unexpected failure reason %q", p.FailureReason)
	}
}

func TestRunOnceReturnsSelectionError(t *testing.T) {
	store := newMemoryStore()
	store.findErr = errors.New("connection refused")
	job := NewPublishJob(store, publishers.DefaultRegistry(nil), PublishJobConfig{Clock: newFakeClock(baseTime)})

	_, err := job.RunOnce(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected selection error, got %v", err)
	}
}

func TestRunOnceAbortsOnStoreErrorDuringMark(t *testing.T) {
	store := newMemoryStore(
		scheduledPost("first", models.PlatformTwitter, baseTime.Add(-time.Minute)),
		scheduledPost("second", models.PlatformTwitter, baseTime),
	)
	store.markErr = errors.New("disk full")
	job := NewPublishJob(store, publishers.DefaultRegistry(nil), PublishJobConfig{Clock: newFakeClock(baseTime)})

	_, err := job.RunOnce(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected store error, got %v", err)
	}
	if got := store.get("second").Status; got != models.PostStatusScheduled {
		t.Fatalf("iteration should stop before the second post, got %s", got)
	}
}

func TestRunOnceStoreErrorLetsInFlightPostsFinish(t *testing.T) {
	store := newMemoryStore(
		scheduledPost("slow", models.PlatformLinkedIn, baseTime.Add(-2*time.Minute)),
		scheduledPost("broken", models.PlatformTwitter, baseTime.Add(-time.Minute)),
		scheduledPost("later", models.PlatformTwitter, baseTime),
	)
	store.markErrs = map[string]error{"broken": errors.New("disk full")}

	started := make(chan struct{})
	registry := publishers.NewRegistry(
		funcPublisher{platform: models.PlatformLinkedIn, fn: func(ctx context.Context, _ models.Post) (string, error) {
			close(started)
			select {
			case <-time.After(100 * time.Millisecond):
				return "li_slow", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}},
		funcPublisher{platform: models.PlatformTwitter, fn: func(context.Context, models.Post) (string, error) {
			<-started
			return "tw_fast", nil
		}},
	)
	job := NewPublishJob(store, registry, PublishJobConfig{Clock: newFakeClock(baseTime), Concurrency: 2})

	_, err := job.RunOnce(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected store error, got %v", err)
	}

	slow := store.get("slow")
	if slow.Status != models.PostStatusPublished || slow.PlatformPostID != "li_slow" {
		t.Fatalf("in-flight post should still publish, got status=%s reason=%q", slow.Status, slow.FailureReason)
	}
	if got := store.get("later").Status; got != models.PostStatusScheduled {
		t.Fatalf("no new posts should start after a store error, got %s", got)
	}
}

func TestRunOnceSkipsPostsClaimedElsewhere(t *testing.T) {
	store := newMemoryStore(scheduledPost("p", models.PlatformTwitter, baseTime))
	store.refuseClaims = true
	listener := &recordingListener{}
	job := NewPublishJob(store, publishers.DefaultRegistry(nil), PublishJobConfig{Clock: newFakeClock(baseTime)}, listener)

	report, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if report != (RunReport{Selected: 1, Skipped: 1}) {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(listener.statuses()) != 0 {
		t.Fatal("skipped posts must not be announced")
	}
}

func TestRunOnceRecoversStaleClaims(t *testing.T) {
	fresh := baseTime.Add(-time.Minute)
	stale := baseTime.Add(-time.Hour)

	stuck := scheduledPost("stuck", models.PlatformTwitter, baseTime.Add(-2*time.Hour))
	stuck.Status = models.PostStatusPublishing
	stuck.ClaimedAt = &stale

	busy := scheduledPost("busy", models.PlatformTwitter, baseTime.Add(-2*time.Hour))
	busy.Status = models.PostStatusPublishing
	busy.ClaimedAt = &fresh

	store := newMemoryStore(stuck, busy)
	job := NewPublishJob(store, publishers.DefaultRegistry(nil), PublishJobConfig{
		Clock:    newFakeClock(baseTime),
		ClaimTTL: 10 * time.Minute,
	})

	report, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if report.Published != 1 {
		t.Fatalf("expected the stale claim to be recovered, got %+v", report)
	}
	if got := store.get("stuck").Status; got != models.PostStatusPublished {
		t.Fatalf("expected stuck post published, got %s", got)
	}
	if got := store.get("busy").Status; got != models.PostStatusPublishing {
		t.Fatalf("fresh claim must be left alone, got %s", got)
	}
}

func TestRunOnceHonoursBatchSize(t *testing.T) {
	store := newMemoryStore(
		scheduledPost("1", models.PlatformTwitter, baseTime.Add(-3*time.Minute)),
		scheduledPost("2", models.PlatformTwitter, baseTime.Add(-2*time.Minute)),
		scheduledPost("3", models.PlatformTwitter, baseTime.Add(-time.Minute)),
	)
	job := NewPublishJob(store, publishers.DefaultRegistry(nil), PublishJobConfig{Clock: newFakeClock(baseTime), BatchSize: 2})

	report, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if report.Selected != 2 {
		t.Fatalf("expected 2 selected, got %+v", report)
	}
	if got := store.get("3").Status; got != models.PostStatusScheduled {
		t.Fatalf("newest post should wait for the next iteration, got %s", got)
	}

	report, _ = job.RunOnce(context.Background())
	if report.Published != 1 {
		t.Fatalf("expected remaining post on the next iteration, got %+v", report)
	}
}

func TestConcurrentJobsPublishEachPostOnce(t *testing.T) {
	posts := make([]models.Post, 0, 20)
	for i := 0; i < 20; i++ {
		posts = append(posts, scheduledPost(strings.Repeat("p", i+1), models.PlatformTwitter, baseTime.Add(-time.Duration(i)*time.Second)))
	}
	store := newMemoryStore(posts...)

	var mu sync.Mutex
	calls := make(map[string]int)
	registry := publishers.NewRegistry(funcPublisher{platform: models.PlatformTwitter, fn: func(_ context.Context, post models.Post) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		calls[post.ID]++
		return "tw_" + post.ID, nil
	}})

	clock := newFakeClock(baseTime)
	jobs := []*PublishJob{
		NewPublishJob(store, registry, PublishJobConfig{Clock: clock, Concurrency: 4}),
		NewPublishJob(store, registry, PublishJobConfig{Clock: clock, Concurrency: 4}),
		NewPublishJob(store, registry, PublishJobConfig{Clock: clock, Concurrency: 4}),
	}

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job *PublishJob) {
			defer wg.Done()
			if _, err := job.RunOnce(context.Background()); err != nil {
				t.Errorf("RunOnce returned error: %v", err)
			}
		}(job)
	}
	wg.Wait()

	for _, p := range posts {
		if calls[p.ID] != 1 {
			t.Fatalf("post %s published %d times", p.ID, calls[p.ID])
		}
		if got := store.get(p.ID).Status; got != models.PostStatusPublished {
			t.Fatalf("post %s: expected published, got %s", p.ID, got)
		}
	}
}

func TestStartRunsImmediatelyAndOnEveryTick(t *testing.T) {
	store := newMemoryStore()
	store.findNotify = make(chan struct{}, 4)
	clock := newFakeClock(baseTime)
	job := NewPublishJob(store, publishers.DefaultRegistry(nil), PublishJobConfig{Clock: clock})

	job.Start(context.Background())
	waitForRun(t, store.findNotify)

	clock.Set(baseTime.Add(time.Minute))
	clock.ticker.ch <- baseTime.Add(time.Minute)
	waitForRun(t, store.findNotify)

	job.Stop()
	if !clock.ticker.stopped {
		t.Fatal("Stop should stop the ticker")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.findCalls != 2 {
		t.Fatalf("expected 2 iterations, got %d", store.findCalls)
	}
}

func TestStopWaitsForInFlightIteration(t *testing.T) {
	store := newMemoryStore(scheduledPost("p", models.PlatformTwitter, baseTime))
	started := make(chan struct{})
	release := make(chan struct{})
	registry := publishers.NewRegistry(funcPublisher{platform: models.PlatformTwitter, fn: func(context.Context, models.Post) (string, error) {
		close(started)
		<-release
		return "tw_1", nil
	}})
	job := NewPublishJob(store, registry, PublishJobConfig{Clock: newFakeClock(baseTime)})

	job.Start(context.Background())
	<-started

	stopped := make(chan struct{})
	go func() {
		job.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned before the in-flight publish completed")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	if got := store.get("p").Status; got != models.PostStatusPublished {
		t.Fatalf("in-flight post should finish publishing, got %s", got)
	}
}

func TestStartStopsWithContext(t *testing.T) {
	store := newMemoryStore()
	store.findNotify = make(chan struct{}, 1)
	job := NewPublishJob(store, publishers.DefaultRegistry(nil), PublishJobConfig{Clock: newFakeClock(baseTime)})

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx)
	waitForRun(t, store.findNotify)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := PublishJobConfig{PublishTimeout: time.Minute, ClaimTTL: 30 * time.Second}.withDefaults()
	if cfg.Interval != DefaultInterval || cfg.BatchSize != DefaultBatchSize || cfg.Concurrency != DefaultConcurrency {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ClaimTTL <= cfg.PublishTimeout {
		t.Fatalf("claim TTL %v must exceed publish timeout %v", cfg.ClaimTTL, cfg.PublishTimeout)
	}
}

func waitForRun(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler iteration did not run")
	}
}
