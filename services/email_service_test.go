package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"gopkg.in/gomail.v2"
	"socialpulse-api/config"
	"socialpulse-api/models"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []*gomail.Message
	err      error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, m...)
	return nil
}

func (s *recordingSender) rendered(t *testing.T, i int) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf bytes.Buffer
	if _, err := s.messages[i].WriteTo(&buf); err != nil {
		t.Fatalf("render message: %v", err)
	}
	return buf.String()
}

func testEmailConfig() *config.Config {
	return &config.Config{FromName: "SocialPulse", FromEmail: "noreply@socialpulse.app", FrontendURL: "http://localhost:5173"}
}

func TestSendWelcomeEmail(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailServiceWithSender(testEmailConfig(), sender)

	if err := svc.SendWelcomeEmail("ada@example.com", "Ada"); err != nil {
		t.Fatalf("SendWelcomeEmail returned error: %v", err)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.messages))
	}
	if got := sender.messages[0].GetHeader("To"); len(got) != 1 || got[0] != "ada@example.com" {
		t.Fatalf("unexpected recipient %v", got)
	}
	if !strings.Contains(sender.rendered(t, 0), "Hello Ada!") {
		t.Fatal("welcome body should greet the user")
	}
}

func TestSendWelcomeEmailWrapsError(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	svc := NewEmailServiceWithSender(testEmailConfig(), sender)

	err := svc.SendWelcomeEmail("ada@example.com", "Ada")
	if err == nil || !strings.Contains(err.Error(), "smtp down") {
		t.Fatalf("expected wrapped smtp error, got %v", err)
	}
}

type stubUsers map[string]*models.User

func (s stubUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func TestFailureNotifier(t *testing.T) {
	sender := &recordingSender{}
	users := stubUsers{"user-1": {ID: "user-1", Name: "Ada", Email: "ada@example.com"}}
	notifier := NewFailureNotifier(users, NewEmailServiceWithSender(testEmailConfig(), sender))
	notifier.run = func(f func()) { f() }

	notifier.PostStatusChanged(context.Background(), models.Post{ID: "p1", UserID: "user-1", Status: models.PostStatusPublished})
	if len(sender.messages) != 0 {
		t.Fatal("published posts must not trigger an email")
	}

	notifier.PostStatusChanged(context.Background(), models.Post{
		ID:            "p2",
		UserID:        "user-1",
		Title:         "Launch <day>",
		Platform:      models.PlatformLinkedIn,
		Status:        models.PostStatusFailed,
		FailureReason: "token expired",
	})
	if len(sender.messages) != 1 {
		t.Fatalf("expected one failure email, got %d", len(sender.messages))
	}
	body := sender.rendered(t, 0)
	if !strings.Contains(body, "token expired") {
		t.Fatal("failure reason missing from email")
	}

	notifier.PostStatusChanged(context.Background(), models.Post{ID: "p3", UserID: "ghost", Status: models.PostStatusFailed})
	if len(sender.messages) != 1 {
		t.Fatal("unknown owners must be skipped")
	}
}
