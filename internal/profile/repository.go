// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Schwifty101/arco-backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for profile store operations.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	// Create writes the profile and, for clients, its extension row in one
	// transaction. A primary-key collision surfaces as common.ErrConflict so
	// callers can treat it as "someone else provisioned first" and re-fetch.
	Create(ctx context.Context, userProfile *UserProfile, clientProfile *ClientProfile) error
	UpdateUserType(ctx context.Context, id uuid.UUID, userType string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	var p UserProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("No profile exists for this user.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) Create(ctx context.Context, userProfile *UserProfile, clientProfile *ClientProfile) error {
	now := time.Now()
	userProfile.CreatedAt = now
	userProfile.UpdatedAt = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userProfile).Error; err != nil {
			return err
		}
		if clientProfile != nil {
			if clientProfile.ID == uuid.Nil {
				clientProfile.ID = uuid.New()
			}
			clientProfile.UserProfileID = userProfile.ID
			clientProfile.CreatedAt = now
			clientProfile.UpdatedAt = now
			if err := tx.Create(clientProfile).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A profile already exists for this user.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) UpdateUserType(ctx context.Context, id uuid.UUID, userType string) error {
	result := r.db.WithContext(ctx).Model(&UserProfile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"user_type": userType, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("No profile exists for this user.")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
