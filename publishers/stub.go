// File: /publishers/stub.go
package publishers

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"socialpulse-api/models"
)

// IDFunc generates the platform-side identifier of a stub publish.
type IDFunc func() string

// StubPublisher stands in for a real platform API. It never leaves the
// process and answers with a prefixed synthetic id.
type StubPublisher struct {
	platform models.Platform
	prefix   string
	newID    IDFunc
}

// NewStubPublisher returns a stub for platform. A nil newID falls back to
// random uuids.
func NewStubPublisher(platform models.Platform, prefix string, newID IDFunc) *StubPublisher {
	if newID == nil {
		newID = uuid.NewString
	}
	return &StubPublisher{platform: platform, prefix: prefix, newID: newID}
}

func NewTwitterPublisher(newID IDFunc) *StubPublisher {
	return NewStubPublisher(models.PlatformTwitter, "tw_", newID)
}

func NewLinkedInPublisher(newID IDFunc) *StubPublisher {
	return NewStubPublisher(models.PlatformLinkedIn, "li_", newID)
}

func NewInstagramPublisher(newID IDFunc) *StubPublisher {
	return NewStubPublisher(models.PlatformInstagram, "ig_", newID)
}

// DefaultRegistry registers a stub publisher for every supported platform.
func DefaultRegistry(newID IDFunc) *Registry {
	return NewRegistry(
		NewTwitterPublisher(newID),
		NewLinkedInPublisher(newID),
		NewInstagramPublisher(newID),
	)
}

func (p *StubPublisher) Platform() models.Platform {
	return p.platform
}

func (p *StubPublisher) Publish(ctx context.Context, post models.Post) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	log.Debug().
		Str("post_id", post.ID).
		Str("platform", string(p.platform)).
		Str("title", post.Title).
		Msg("Publishing post through stub publisher")

	return p.prefix + p.newID(), nil
}
