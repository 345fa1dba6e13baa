package services

import (
	"errors"
	"testing"
	"time"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue("user-1", "ada@example.com")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenServiceRejects(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)

	expired := NewTokenService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.Issue("user-1", "")

	foreignToken, _ := other.Issue("user-1", "")
	stateToken, _ := svc.IssueState("user-1", "linkedin", time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreignToken},
		{"expired", expiredToken},
		{"oauth state used as session", stateToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenServiceState(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	state, err := svc.IssueState("user-1", "linkedin", time.Minute)
	if err != nil {
		t.Fatalf("IssueState returned error: %v", err)
	}
	claims, err := svc.ParseState(state, "linkedin")
	if err != nil || claims.UserID != "user-1" {
		t.Fatalf("unexpected state parse result: %+v %v", claims, err)
	}
	if _, err := svc.ParseState(state, "github"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected audience mismatch to fail, got %v", err)
	}
}
