// File: /repositories/social_account_repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"socialpulse-api/models"
)

var ErrAccountNotFound = errors.New("account not found")

type SocialAccountRepository struct {
	db *gorm.DB
}

func NewSocialAccountRepository(db *gorm.DB) *SocialAccountRepository {
	return &SocialAccountRepository{db: db}
}

// ListActive returns the user's connected accounts.
func (r *SocialAccountRepository) ListActive(ctx context.Context, userID string) ([]models.SocialAccount, error) {
	accounts := make([]models.SocialAccount, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("platform").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// FindActive returns the user's connected account for one platform.
func (r *SocialAccountRepository) FindActive(ctx context.Context, userID string, platform models.Platform) (*models.SocialAccount, error) {
	var account models.SocialAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform = ? AND is_active = ?", userID, platform, true).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

// Upsert connects or reconnects the (user, platform) account. It reports
// whether a new row was created.
func (r *SocialAccountRepository) Upsert(ctx context.Context, account *models.SocialAccount) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.SocialAccount
		err := tx.Where("user_id = ? AND platform = ?", account.UserID, account.Platform).First(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if account.ID == "" {
				account.ID = uuid.New().String()
			}
			account.IsActive = true
			created = true
			return tx.Create(account).Error
		}

		account.ID = existing.ID
		account.CreatedAt = existing.CreatedAt
		if account.Followers == 0 {
			account.Followers = existing.Followers
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"platform_user_id": account.PlatformUserID,
			"username":         account.Username,
			"access_token":     account.AccessToken,
			"refresh_token":    account.RefreshToken,
			"token_expiry":     account.TokenExpiry,
			"followers":        account.Followers,
			"profile_url":      account.ProfileURL,
			"is_active":        true,
			"connected_at":     account.ConnectedAt,
			"last_synced_at":   account.LastSyncedAt,
			"updated_at":       time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return false, fmt.Errorf("upsert %s account: %w", account.Platform, err)
	}
	account.IsActive = true
	return created, nil
}

// Deactivate soft-disconnects the user's account for a platform.
func (r *SocialAccountRepository) Deactivate(ctx context.Context, userID string, platform models.Platform) error {
	res := r.db.WithContext(ctx).Model(&models.SocialAccount{}).
		Where("user_id = ? AND platform = ? AND is_active = ?", userID, platform, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("disconnect %s account: %w", platform, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
