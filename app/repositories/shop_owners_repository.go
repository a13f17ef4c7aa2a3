package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopOwnerRepositoryImpl is the interface for shop owner persistence.
type ShopOwnerRepositoryImpl interface {
	Create(ctx context.Context, owner *models.ShopOwner) error
	FindByID(ctx context.Context, id string) (*models.ShopOwner, error)
	FindByEmail(ctx context.Context, email string) (*models.ShopOwner, error)
	FindByMobile(ctx context.Context, mobile string) (*models.ShopOwner, error)
	Update(ctx context.Context, owner *models.ShopOwner) error
	SavePasswordResetToken(ctx context.Context, ownerID string, token *string, expiresAt *time.Time) error
	FindByPasswordResetToken(ctx context.Context, token string) (*models.ShopOwner, error)
	// ResetPassword sets the new hash and clears both reset-token columns in
	// a single update so a consumed token can never be replayed.
	ResetPassword(ctx context.Context, ownerID string, newPasswordHash string) error
}

type shopOwnerRepository struct {
	db *gorm.DB
}

func NewShopOwnerRepository(db *gorm.DB) ShopOwnerRepositoryImpl {
	return &shopOwnerRepository{db}
}

func (r *shopOwnerRepository) Create(ctx context.Context, owner *models.ShopOwner) error {
	if owner.ID == "" {
		owner.ID = uuid.New().String()
	}
	owner.Email = strings.ToLower(strings.TrimSpace(owner.Email))

	owner.PasswordResetToken = nil
	owner.PasswordResetExpires = nil

	return r.db.WithContext(ctx).Create(owner).Error
}

func (r *shopOwnerRepository) FindByID(ctx context.Context, id string) (*models.ShopOwner, error) {
	var owner models.ShopOwner
	err := r.db.WithContext(ctx).First(&owner, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}

func (r *shopOwnerRepository) FindByEmail(ctx context.Context, email string) (*models.ShopOwner, error) {
	var owner models.ShopOwner
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&owner).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}

func (r *shopOwnerRepository) FindByMobile(ctx context.Context, mobile string) (*models.ShopOwner, error) {
	var owner models.ShopOwner
	err := r.db.WithContext(ctx).Where("mobile_number = ?", mobile).First(&owner).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}

func (r *shopOwnerRepository) Update(ctx context.Context, owner *models.ShopOwner) error {
	return r.db.WithContext(ctx).Save(owner).Error
}

func (r *shopOwnerRepository) SavePasswordResetToken(ctx context.Context, ownerID string, token *string, expiresAt *time.Time) error {
	updates := map[string]interface{}{
		"password_reset_token":   token,
		"password_reset_expires": expiresAt,
		"updated_at":             time.Now(),
	}
	result := r.db.WithContext(ctx).Model(&models.ShopOwner{}).Where("id = ?", ownerID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to save password reset token for owner %s: %w", ownerID, result.Error)
	}
	return nil
}

func (r *shopOwnerRepository) FindByPasswordResetToken(ctx context.Context, token string) (*models.ShopOwner, error) {
	var owner models.ShopOwner
	result := r.db.WithContext(ctx).Where("password_reset_token = ? AND password_reset_expires > ?", token, time.Now()).First(&owner)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find owner by password reset token: %w", result.Error)
	}
	return &owner, nil
}

func (r *shopOwnerRepository) ResetPassword(ctx context.Context, ownerID string, newPasswordHash string) error {
	updates := map[string]interface{}{
		"password":               newPasswordHash,
		"password_reset_token":   nil,
		"password_reset_expires": nil,
		"updated_at":             time.Now(),
	}
	result := r.db.WithContext(ctx).Model(&models.ShopOwner{}).Where("id = ?", ownerID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to reset password for owner %s: %w", ownerID, result.Error)
	}
	return nil
}
