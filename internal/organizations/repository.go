package organizations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetbook/backend/internal/models"
)

// Repository handles organization persistence. All reads filter is_active so
// soft-deleted rows never surface.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates an organizations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns all active organizations, oldest first.
func (r *Repository) ListActive(ctx context.Context) ([]models.Organization, error) {
	var list []models.Organization
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at asc").
		Find(&list).Error
	return list, err
}

// GetActiveByID returns an active organization by ID.
func (r *Repository) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetActiveByDomain returns the active organization owning an email domain.
func (r *Repository) GetActiveByDomain(ctx context.Context, domain string) (*models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).
		Where("domain = ? AND is_active = ?", domain, true).
		First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// DomainTaken reports whether an active organization already uses the domain.
// Domain uniqueness among active rows is what keeps login routing unambiguous.
// excludeID skips the organization being updated; pass uuid.Nil on create.
func (r *Repository) DomainTaken(ctx context.Context, excludeID uuid.UUID, domain string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("domain = ? AND is_active = ?", domain, true)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// Create inserts a new organization.
func (r *Repository) Create(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

// Update sets name and domain. Returns gorm.ErrRecordNotFound when no active
// row matched.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, domain string) error {
	res := r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{"name": name, "domain": domain})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate flips is_active to false. Idempotent: deactivating an already
// inactive organization is a no-op, not an error.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
