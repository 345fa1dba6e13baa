// File: /services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"socialpulse-api/models"
	"socialpulse-api/repositories"
	"socialpulse-api/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the persistence AuthService needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error
}

// WelcomeMailer sends the post-signup greeting.
type WelcomeMailer interface {
	SendWelcomeEmail(email, name string) error
}

type AuthService struct {
	users  UserStore
	tokens *TokenService
	mailer WelcomeMailer
	cost   int
}

// NewAuthService creates the auth service. mailer may be nil.
func NewAuthService(users UserStore, tokens *TokenService, mailer WelcomeMailer) *AuthService {
	return &AuthService{users: users, tokens: tokens, mailer: mailer, cost: bcrypt.DefaultCost}
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		go func(email, name string) {
			if err := s.mailer.SendWelcomeEmail(email, name); err != nil {
				log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to send welcome email")
			}
		}(user.Email, user.Name)
	}

	return s.result(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.result(user)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.ToResponse()}, nil
}

// ProfileInput is the payload of PUT /users/profile. Nil fields are left alone.
type ProfileInput struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

// UpdateProfile changes the user's display fields. An empty avatar removes it.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
			return nil, invalid("name", "must be between 2 and 50 characters")
		}
		updates["name"] = name
	}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > 500 {
			return nil, invalid("bio", "cannot be more than 500 characters")
		}
		updates["bio"] = *in.Bio
	}
	if in.Avatar != nil {
		if *in.Avatar == "" {
			updates["avatar"] = nil
		} else if !utils.IsValidImageURL(*in.Avatar) {
			return nil, invalid("avatar", "must be an absolute http(s) URL")
		} else {
			updates["avatar"] = *in.Avatar
		}
	}

	if len(updates) > 0 {
		if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.users.FindByID(ctx, userID)
}
