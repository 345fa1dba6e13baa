// File: /models/types.go
package models

// Platform identifies the social network a post or account targets.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{PlatformTwitter, PlatformLinkedIn, PlatformInstagram}

// IsValid reports whether p is one of the supported platforms.
func (p Platform) IsValid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// PostStatus drives all dispatch logic for a post.
type PostStatus string

const (
	PostStatusDraft      PostStatus = "draft"
	PostStatusScheduled  PostStatus = "scheduled"
	PostStatusPublishing PostStatus = "publishing" // claimed by a scheduler run
	PostStatusPublished  PostStatus = "published"
	PostStatusFailed     PostStatus = "failed"
)

// PostStatuses lists every status a post can be in.
var PostStatuses = []PostStatus{
	PostStatusDraft,
	PostStatusScheduled,
	PostStatusPublishing,
	PostStatusPublished,
	PostStatusFailed,
}

func (s PostStatus) IsValid() bool {
	for _, known := range PostStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsUserSettable reports whether a user edit may move a post into s.
func (s PostStatus) IsUserSettable() bool {
	return s == PostStatusDraft || s == PostStatusScheduled
}
