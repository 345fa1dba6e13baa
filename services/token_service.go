// File: /services/token_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload of an access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an access token for the user.
func (s *TokenService) Issue(userID, email string) (string, error) {
	return s.sign(Claims{UserID: userID, Email: email}, s.ttl)
}

// Parse verifies the signature and expiry of raw and returns its claims.
func (s *TokenService) Parse(raw string) (*Claims, error) {
	return s.parse(raw, "")
}

// IssueState signs a short-lived OAuth state value bound to userID.
func (s *TokenService) IssueState(userID, audience string, ttl time.Duration) (string, error) {
	claims := Claims{UserID: userID}
	claims.Audience = jwt.ClaimStrings{audience}
	return s.sign(claims, ttl)
}

// ParseState verifies a value produced by IssueState for the same audience.
func (s *TokenService) ParseState(raw, audience string) (*Claims, error) {
	return s.parse(raw, audience)
}

func (s *TokenService) sign(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(raw, audience string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	// Access tokens carry no audience; a state token is not a session.
	if audience == "" && len(claims.Audience) > 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
