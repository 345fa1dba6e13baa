// File: /database/seed.go
package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"socialpulse-api/models"
)

const (
	DemoEmail    = "demo@socialpulse.app"
	DemoPassword = "demo1234"
)

// SeedData populates an empty database with a demo account for development.
func SeedData(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if userCount > 0 {
		log.Debug().Msg("Database already has data, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:       uuid.New().String(),
		Name:     "Demo User",
		Email:    DemoEmail,
		Password: string(hashed),
	}

	publishedAt := now.Add(-48 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	posts := []models.Post{
		{
			Title:          "Hello from SocialPulse",
			Content:        "Our first **scheduled** post is live.",
			Platform:       models.PlatformTwitter,
			Status:         models.PostStatusPublished,
			PublishedAt:    &publishedAt,
			PlatformPostID: "tw_" + uuid.NewString(),
			Engagement:     models.Engagement{Likes: 42, Comments: 7, Shares: 5, Views: 1200},
		},
		{
			Title:        "Product update",
			Content:      "A short note on what shipped this week.",
			Platform:     models.PlatformLinkedIn,
			Status:       models.PostStatusScheduled,
			ScheduledFor: &tomorrow,
		},
		{
			Title:    "Behind the scenes",
			Content:  "Draft caption for the team photo.",
			Platform: models.PlatformInstagram,
			Status:   models.PostStatusDraft,
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create demo user: %w", err)
		}
		for i := range posts {
			posts[i].ID = uuid.New().String()
			posts[i].UserID = user.ID
			if err := tx.Create(&posts[i]).Error; err != nil {
				return fmt.Errorf("create demo post: %w", err)
			}
		}
		log.Info().Str("email", DemoEmail).Msg("Database seeded with demo account")
		return nil
	})
}
