// File: /services/account_service.go
package services

import (
	"context"
	"strings"
	"time"

	"socialpulse-api/models"
)

// AccountStore is the persistence for connected social accounts.
type AccountStore interface {
	ListActive(ctx context.Context, userID string) ([]models.SocialAccount, error)
	FindActive(ctx context.Context, userID string, platform models.Platform) (*models.SocialAccount, error)
	Upsert(ctx context.Context, account *models.SocialAccount) (bool, error)
	Deactivate(ctx context.Context, userID string, platform models.Platform) error
}

// ConnectAccountInput is the payload of POST /accounts/connect.
type ConnectAccountInput struct {
	Platform     models.Platform `json:"platform" binding:"required"`
	Username     string          `json:"username" binding:"required"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Followers    int64           `json:"followers"`
	ProfileURL   string          `json:"profile_url"`
}

type AccountService struct {
	store AccountStore
	now   func() time.Time
}

func NewAccountService(store AccountStore) *AccountService {
	return &AccountService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// List returns the user's active accounts keyed by platform. Every supported
// platform is present; unconnected ones map to nil.
func (s *AccountService) List(ctx context.Context, userID string) (map[models.Platform]*models.SocialAccountResponse, error) {
	accounts, err := s.store.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(map[models.Platform]*models.SocialAccountResponse, len(models.Platforms))
	for _, p := range models.Platforms {
		out[p] = nil
	}
	for _, a := range accounts {
		resp := a.ToResponse()
		out[a.Platform] = &resp
	}
	return out, nil
}

func (s *AccountService) Get(ctx context.Context, userID string, platform models.Platform) (*models.SocialAccount, error) {
	if !platform.IsValid() {
		return nil, invalid("platform", "invalid platform")
	}
	return s.store.FindActive(ctx, userID, platform)
}

// Connect creates or reconnects the account and reports whether it is new.
func (s *AccountService) Connect(ctx context.Context, userID string, in ConnectAccountInput) (*models.SocialAccount, bool, error) {
	if !in.Platform.IsValid() {
		return nil, false, invalid("platform", "invalid platform")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, false, invalid("username", "is required")
	}
	if in.Followers < 0 {
		return nil, false, invalid("followers", "must not be negative")
	}

	account := &models.SocialAccount{
		UserID:       userID,
		Platform:     in.Platform,
		Username:     username,
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		Followers:    in.Followers,
		ProfileURL:   in.ProfileURL,
		ConnectedAt:  s.now(),
	}
	created, err := s.store.Upsert(ctx, account)
	if err != nil {
		return nil, false, err
	}
	return account, created, nil
}

func (s *AccountService) Disconnect(ctx context.Context, userID string, platform models.Platform) error {
	if !platform.IsValid() {
		return invalid("platform", "invalid platform")
	}
	return s.store.Deactivate(ctx, userID, platform)
}
