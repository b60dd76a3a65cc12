package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetbook/backend/internal/models"
)

// Repository handles user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates an auth repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertByEmail creates the user on first login or refreshes last_login (and
// the Google profile fields) on subsequent logins. Email is the unique key.
func (r *Repository) UpsertByEmail(ctx context.Context, user *models.User) (*models.User, error) {
	var existing models.User
	err := r.db.WithContext(ctx).First(&existing, "email = ?", user.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"last_login": user.LastLogin,
		"username":   user.Username,
		"picture":    user.Picture,
		"updated_at": time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
