// File: /models/social_account.go
package models

import (
	"time"
)

// SocialAccount is a third-party account connected by a user. Tokens are never
// serialized.
type SocialAccount struct {
	ID             string     `json:"id" gorm:"primaryKey;size:191"`
	UserID         string     `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_social_accounts_user_platform,priority:1"`
	Platform       Platform   `json:"platform" gorm:"not null;size:50;uniqueIndex:uk_social_accounts_user_platform,priority:2"`
	PlatformUserID string     `json:"platform_user_id" gorm:"size:191"`
	Username       string     `json:"username" gorm:"not null;size:255"`
	AccessToken    string     `json:"-" gorm:"type:text"`
	RefreshToken   string     `json:"-" gorm:"type:text"`
	TokenExpiry    *time.Time `json:"token_expiry,omitempty"`
	Followers      int64      `json:"followers" gorm:"default:0"`
	ProfileURL     string     `json:"profile_url" gorm:"size:500"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	ConnectedAt    time.Time  `json:"connected_at"`
	LastSyncedAt   *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (SocialAccount) TableName() string {
	return "social_accounts"
}

// SocialAccountResponse is the token-free view returned by the accounts API.
type SocialAccountResponse struct {
	ID          string    `json:"id"`
	Platform    Platform  `json:"platform"`
	Username    string    `json:"username"`
	Followers   int64     `json:"followers"`
	ProfileURL  string    `json:"profile_url,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

func (a SocialAccount) ToResponse() SocialAccountResponse {
	return SocialAccountResponse{
		ID:          a.ID,
		Platform:    a.Platform,
		Username:    a.Username,
		Followers:   a.Followers,
		ProfileURL:  a.ProfileURL,
		ConnectedAt: a.ConnectedAt,
	}
}
