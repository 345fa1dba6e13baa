// File: /services/oauth_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
	"socialpulse-api/config"
	"socialpulse-api/models"
)

const (
	linkedInStateAudience = "linkedin-oauth"
	linkedInStateTTL      = 10 * time.Minute
	linkedInAPIBase       = "https://api.linkedin.com"
)

var (
	ErrOAuthNotConfigured = errors.New("linkedin oauth is not configured")
	ErrInvalidOAuthState  = errors.New("invalid oauth state")
)

// LinkedInOAuthService runs the authorization-code flow that connects a
// LinkedIn account to a user.
type LinkedInOAuthService struct {
	oauth    *oauth2.Config
	tokens   *TokenService
	accounts AccountStore
	apiBase  string
	now      func() time.Time
}

func NewLinkedInOAuthService(cfg *config.Config, tokens *TokenService, accounts AccountStore) *LinkedInOAuthService {
	return &LinkedInOAuthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.LinkedInClientID,
			ClientSecret: cfg.LinkedInClientSecret,
			RedirectURL:  cfg.LinkedInRedirectURI,
			Scopes:       []string{"openid", "profile", "email", "w_member_social"},
			Endpoint:     linkedin.Endpoint,
		},
		tokens:   tokens,
		accounts: accounts,
		apiBase:  linkedInAPIBase,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *LinkedInOAuthService) configured() bool {
	return s.oauth.ClientID != "" && s.oauth.ClientSecret != ""
}

// AuthURL returns the LinkedIn consent URL. The state is a signed,
// short-lived token carrying the user id.
func (s *LinkedInOAuthService) AuthURL(userID string) (string, error) {
	if !s.configured() {
		return "", ErrOAuthNotConfigured
	}
	state, err := s.tokens.IssueState(userID, linkedInStateAudience, linkedInStateTTL)
	if err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(state), nil
}

type linkedInUserInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type linkedInProfile struct {
	VanityName string `json:"vanityName"`
}

// Callback exchanges the code, loads the member profile and stores the
// connected account.
func (s *LinkedInOAuthService) Callback(ctx context.Context, code, state string) (*models.SocialAccount, error) {
	if !s.configured() {
		return nil, ErrOAuthNotConfigured
	}
	if code == "" || state == "" {
		return nil, ErrInvalidOAuthState
	}
	claims, err := s.tokens.ParseState(state, linkedInStateAudience)
	if err != nil {
		return nil, ErrInvalidOAuthState
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange linkedin code: %w", err)
	}
	client := s.oauth.Client(ctx, token)

	var info linkedInUserInfo
	if err := getJSON(ctx, client, s.apiBase+"/v2/userinfo", &info); err != nil {
		return nil, fmt.Errorf("load linkedin userinfo: %w", err)
	}

	var profileURL string
	var profile linkedInProfile
	if err := getJSON(ctx, client, s.apiBase+"/v2/me", &profile); err != nil {
		log.Debug().Err(err).Msg("LinkedIn profile URL not available")
	} else if profile.VanityName != "" {
		profileURL = "https://www.linkedin.com/in/" + profile.VanityName
	}

	now := s.now()
	account := &models.SocialAccount{
		UserID:         claims.UserID,
		Platform:       models.PlatformLinkedIn,
		PlatformUserID: info.Sub,
		Username:       info.Name,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		ProfileURL:     profileURL,
		ConnectedAt:    now,
		LastSyncedAt:   &now,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		account.TokenExpiry = &expiry
	}
	if account.Username == "" {
		account.Username = info.Email
	}

	if _, err := s.accounts.Upsert(ctx, account); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", claims.UserID).Msg("LinkedIn account connected")
	return account, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
