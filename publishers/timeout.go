// File: /publishers/timeout.go
package publishers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialpulse-api/models"
)

// PublishWithTimeout runs p.Publish under a deadline. A publisher that ignores
// its context still cannot hold the caller past the timeout, and a panic
// inside the publisher is returned as an error.
func PublishWithTimeout(ctx context.Context, p Publisher, post models.Post, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		return safePublish(ctx, p, post)
	}

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		id  string
		err error
	}
	done := make(chan result, 1)
	go func() {
		id, err := safePublish(tctx, p, post)
		done <- result{id: id, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && ctx.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
			return "", timedOut(p, timeout, res.err)
		}
		return res.id, res.err
	case <-tctx.Done():
		select {
		case res := <-done:
			return res.id, res.err
		default:
		}
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("publish to %s interrupted: %w", p.Platform(), err)
		}
		return "", timedOut(p, timeout, tctx.Err())
	}
}

func timedOut(p Publisher, timeout time.Duration, err error) error {
	return fmt.Errorf("publish to %s timed out after %s: %w", p.Platform(), timeout, err)
}

func safePublish(ctx context.Context, p Publisher, post models.Post) (id string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("publisher for %s panicked: %v", p.Platform(), recovered)
		}
	}()
	return p.Publish(ctx, post)
}
