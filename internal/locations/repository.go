package locations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetbook/backend/internal/models"
)

// Repository handles location persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a locations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveByOrganization returns the organization's active locations, oldest first.
func (r *Repository) ListActiveByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Location, error) {
	var list []models.Location
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Order("created_at asc").
		Find(&list).Error
	return list, err
}

// GetActive returns an active location by id within an organization.
func (r *Repository) GetActive(ctx context.Context, orgID, id uuid.UUID) (*models.Location, error) {
	var loc models.Location
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ? AND is_active = ?", id, orgID, true).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// NameTaken reports whether an active location with the (already lower-cased)
// name exists in the organization. excludeID skips the location being updated
// so a PATCH keeping its own name is not a duplicate; pass uuid.Nil on create.
func (r *Repository) NameTaken(ctx context.Context, orgID, excludeID uuid.UUID, name string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Location{}).
		Where("organization_id = ? AND name = ? AND is_active = ?", orgID, name, true)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// Create inserts a new location.
func (r *Repository) Create(ctx context.Context, loc *models.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

// Update sets the location name. Returns gorm.ErrRecordNotFound when no
// active row matched.
func (r *Repository) Update(ctx context.Context, orgID, id uuid.UUID, name string) error {
	res := r.db.WithContext(ctx).Model(&models.Location{}).
		Where("id = ? AND organization_id = ? AND is_active = ?", id, orgID, true).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate flips is_active to false. Idempotent.
func (r *Repository) Deactivate(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Location{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Update("is_active", false).Error
}
