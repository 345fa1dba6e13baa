// File: /publishers/publisher.go

// Package publishers dispatches posts to social platforms.
package publishers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"socialpulse-api/models"
)

// ErrUnknownPlatform is returned by Registry.Lookup for a platform with no
// registered publisher.
var ErrUnknownPlatform = errors.New("unknown platform")

// Publisher performs the platform-specific publish action for a post and
// returns the identifier the platform assigned to it.
type Publisher interface {
	Platform() models.Platform
	Publish(ctx context.Context, post models.Post) (string, error)
}

// Registry maps platforms to their publisher.
type Registry struct {
	mu         sync.RWMutex
	publishers map[models.Platform]Publisher
}

func NewRegistry(publishers ...Publisher) *Registry {
	r := &Registry{publishers: make(map[models.Platform]Publisher, len(publishers))}
	for _, p := range publishers {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any publisher already registered for its platform.
func (r *Registry) Register(p Publisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishers[p.Platform()] = p
}

// Lookup returns the publisher for platform.
func (r *Registry) Lookup(platform models.Platform) (Publisher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.publishers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return p, nil
}

// Platforms lists the registered platforms.
func (r *Registry) Platforms() []models.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]models.Platform, 0, len(r.publishers))
	for _, known := range models.Platforms {
		if _, ok := r.publishers[known]; ok {
			platforms = append(platforms, known)
		}
	}
	return platforms
}
