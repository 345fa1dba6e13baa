// File: /jobs/publish_job.go
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"socialpulse-api/models"
	"socialpulse-api/publishers"
	"socialpulse-api/repositories"
)

const (
	DefaultInterval       = time.Minute
	DefaultBatchSize      = 100
	DefaultConcurrency    = 1
	DefaultPublishTimeout = 30 * time.Second
	DefaultClaimTTL       = 10 * time.Minute
)

// StatusListener is told about every status transition the scheduler makes.
// Implementations must not block.
type StatusListener interface {
	PostStatusChanged(ctx context.Context, post models.Post)
}

// PublisherLookup resolves the publisher for a platform.
type PublisherLookup interface {
	Lookup(platform models.Platform) (publishers.Publisher, error)
}

// PublishJobConfig tunes the scheduler. Zero values fall back to the defaults.
type PublishJobConfig struct {
	Interval       time.Duration
	BatchSize      int
	Concurrency    int
	PublishTimeout time.Duration
	// ClaimTTL is how long a publishing claim is honoured before the post is
	// selected again. It is kept above PublishTimeout.
	ClaimTTL time.Duration
	Clock    Clock
}

func (c PublishJobConfig) withDefaults() PublishJobConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = DefaultPublishTimeout
	}
	if c.ClaimTTL <= 0 {
		c.ClaimTTL = DefaultClaimTTL
	}
	if c.ClaimTTL <= c.PublishTimeout {
		c.ClaimTTL = 2 * c.PublishTimeout
	}
	if c.Clock == nil {
		c.Clock = realClock{}
	}
	return c
}

// RunReport summarises one scheduler iteration.
type RunReport struct {
	Selected  int `json:"selected"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// PublishJob periodically dispatches due posts to their platform publisher.
// Each post is claimed with a conditional update before dispatch, so several
// jobs may run against the same store without publishing a post twice.
type PublishJob struct {
	store     repositories.PostStore
	registry  PublisherLookup
	cfg       PublishJobConfig
	listeners []StatusListener

	runMu sync.Mutex // one iteration at a time

	lifecycleMu sync.Mutex
	ticker      Ticker
	stop        chan struct{}
	done        chan struct{}
}

// NewPublishJob creates a new publish scheduler
func NewPublishJob(store repositories.PostStore, registry PublisherLookup, cfg PublishJobConfig, listeners ...StatusListener) *PublishJob {
	return &PublishJob{
		store:     store,
		registry:  registry,
		cfg:       cfg.withDefaults(),
		listeners: listeners,
	}
}

// AddListener registers l for subsequent transitions. Call before Start.
func (j *PublishJob) AddListener(l StatusListener) {
	j.listeners = append(j.listeners, l)
}

// Start runs one iteration immediately and then one per interval until ctx
// is done or Stop is called. Calling Start on a running job is a no-op.
func (j *PublishJob) Start(ctx context.Context) {
	j.lifecycleMu.Lock()
	defer j.lifecycleMu.Unlock()
	if j.done != nil {
		return
	}

	j.ticker = j.cfg.Clock.NewTicker(j.cfg.Interval)
	j.stop = make(chan struct{})
	j.done = make(chan struct{})

	// Iterations outlive cancellation of ctx so that a shutdown never cuts a
	// dispatch off between claim and mark.
	runCtx := context.WithoutCancel(ctx)
	ticker, stop, done := j.ticker, j.stop, j.done

	log.Info().
		Dur("interval", j.cfg.Interval).
		Int("batch_size", j.cfg.BatchSize).
		Int("concurrency", j.cfg.Concurrency).
		Msg("Post scheduler started")

	go func() {
		defer close(done)

		j.runAndLog(runCtx)

		for {
			select {
			case <-ticker.C():
				j.runAndLog(runCtx)
			case <-stop:
				log.Info().Msg("Post scheduler stopped")
				return
			case <-ctx.Done():
				log.Info().Msg("Post scheduler stopped")
				return
			}
		}
	}()
}

// Stop stops the timer and waits for the in-flight iteration to finish.
func (j *PublishJob) Stop() {
	j.lifecycleMu.Lock()
	defer j.lifecycleMu.Unlock()
	if j.done == nil {
		return
	}

	j.ticker.Stop()
	close(j.stop)
	<-j.done

	j.ticker, j.stop, j.done = nil, nil, nil
}

func (j *PublishJob) runAndLog(ctx context.Context) {
	report, err := j.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).
			Int("published", report.Published).
			Int("failed", report.Failed).
			Msg("Scheduler iteration aborted")
		return
	}
	if report.Selected == 0 {
		return
	}
	log.Info().
		Int("selected", report.Selected).
		Int("published", report.Published).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Msg("Scheduler iteration completed")
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomePublished
	outcomeFailed
)

// RunOnce performs a single scheduler iteration. A store error aborts the
// iteration and is returned; transitions committed before it stay valid.
// Publisher failures only affect their own post.
func (j *PublishJob) RunOnce(ctx context.Context) (RunReport, error) {
	j.runMu.Lock()
	defer j.runMu.Unlock()

	var report RunReport
	now := j.cfg.Clock.Now()
	staleBefore := now.Add(-j.cfg.ClaimTTL)

	posts, err := j.store.FindDuePosts(ctx, now, staleBefore, j.cfg.BatchSize)
	if err != nil {
		return report, fmt.Errorf("select due posts: %w", err)
	}
	report.Selected = len(posts)
	if len(posts) == 0 {
		return report, nil
	}

	log.Info().Int("count", len(posts)).Msg("Processing scheduled posts")

	// A store error stops new dispatches; claims already in flight still
	// resolve so their posts are not left in publishing.
	var (
		mu      sync.Mutex
		stopped atomic.Bool
		g       errgroup.Group
	)
	g.SetLimit(j.cfg.Concurrency)

	for _, post := range posts {
		if stopped.Load() {
			break
		}
		post := post
		g.Go(func() error {
			if stopped.Load() {
				return nil
			}
			result, err := j.dispatch(ctx, post, now, staleBefore)
			if err != nil {
				stopped.Store(true)
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			switch result {
			case outcomePublished:
				report.Published++
			case outcomeFailed:
				report.Failed++
			default:
				report.Skipped++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

func (j *PublishJob) dispatch(ctx context.Context, post models.Post, now, staleBefore time.Time) (outcome, error) {
	token := uuid.NewString()
	claimed, err := j.store.ClaimPost(ctx, post.ID, token, now, staleBefore)
	if err != nil {
		return outcomeSkipped, fmt.Errorf("claim post %s: %w", post.ID, err)
	}
	if !claimed {
		log.Debug().Str("post_id", post.ID).Msg("Post already claimed by another run")
		return outcomeSkipped, nil
	}

	externalID, publishErr := j.publish(ctx, post)
	if publishErr != nil {
		return j.fail(ctx, post, token, publishErr)
	}

	publishedAt := j.cfg.Clock.Now()
	if err := j.store.MarkPublished(ctx, post.ID, token, externalID, publishedAt); err != nil {
		if errors.Is(err, repositories.ErrPostNotClaimed) {
			log.Warn().Str("post_id", post.ID).Msg("Claim lost before the post could be marked published")
			return outcomeSkipped, nil
		}
		return outcomeSkipped, fmt.Errorf("mark post %s published: %w", post.ID, err)
	}

	post.Status = models.PostStatusPublished
	post.PlatformPostID = externalID
	post.PublishedAt = &publishedAt
	post.FailureReason = ""
	post.ClaimedAt = nil
	post.ClaimToken = ""

	log.Info().
		Str("post_id", post.ID).
		Str("platform", string(post.Platform)).
		Str("platform_post_id", externalID).
		Msg("Post published")

	j.notify(ctx, post)
	return outcomePublished, nil
}

func (j *PublishJob) publish(ctx context.Context, post models.Post) (string, error) {
	publisher, err := j.registry.Lookup(post.Platform)
	if err != nil {
		return "", err
	}

	externalID, err := publishers.PublishWithTimeout(ctx, publisher, post, j.cfg.PublishTimeout)
	if err != nil {
		return "", err
	}
	if externalID == "" {
		return "", errors.New("publisher returned an empty post id")
	}
	return externalID, nil
}

func (j *PublishJob) fail(ctx context.Context, post models.Post, token string, cause error) (outcome, error) {
	log.Error().Err(cause).
		Str("post_id", post.ID).
		Str("platform", string(post.Platform)).
		Msg("Failed to publish post")

	failedAt := j.cfg.Clock.Now()
	if err := j.store.MarkFailed(ctx, post.ID, token, cause.Error(), failedAt); err != nil {
		if errors.Is(err, repositories.ErrPostNotClaimed) {
			return outcomeSkipped, nil
		}
		return outcomeSkipped, fmt.Errorf("mark post %s failed: %w", post.ID, err)
	}

	post.ClearPublication()
	post.Status = models.PostStatusFailed
	post.FailureReason = cause.Error()

	j.notify(ctx, post)
	return outcomeFailed, nil
}

func (j *PublishJob) notify(ctx context.Context, post models.Post) {
	for _, l := range j.listeners {
		l.PostStatusChanged(ctx, post)
	}
}
