package rooms

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetbook/backend/internal/models"
	"github.com/meetbook/backend/pkg/timeutil"
)

// Repository handles room persistence and the read-time availability
// projection over the room's bookings.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a rooms repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveByLocation returns the location's active rooms, oldest first, each
// with IsAvailable projected from whether an active booking covers now.
func (r *Repository) ListActiveByLocation(ctx context.Context, locationID uuid.UUID, now time.Time) ([]models.Room, error) {
	var list []models.Room
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND is_active = ?", locationID, true).
		Order("created_at asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]uuid.UUID, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	busy, err := r.inProgressRoomIDs(ctx, ids, now)
	if err != nil {
		return nil, err
	}
	for i := range list {
		_, inProgress := busy[list[i].ID]
		list[i].IsAvailable = !inProgress
	}
	return list, nil
}

// inProgressRoomIDs returns the subset of room IDs with an active booking in
// progress (from_time <= now <= to_time on today's date).
func (r *Repository) inProgressRoomIDs(ctx context.Context, roomIDs []uuid.UUID, now time.Time) (map[uuid.UUID]struct{}, error) {
	now = timeutil.ToMinute(now)
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id IN ?", roomIDs).
		Where("date = ? AND is_active = ?", timeutil.ToDay(now), true).
		Where("from_time <= ? AND to_time >= ?", now, now).
		Pluck("room_id", &ids).Error
	if err != nil {
		return nil, err
	}
	busy := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		busy[id] = struct{}{}
	}
	return busy, nil
}

// GetActive returns an active room by id within a location.
func (r *Repository) GetActive(ctx context.Context, locationID, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Where("id = ? AND location_id = ? AND is_active = ?", id, locationID, true).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// TitleTaken reports whether an active room with the (already lower-cased)
// title exists in the location. excludeID skips the room being updated so a
// PATCH keeping its own title is not a duplicate; pass uuid.Nil on create.
func (r *Repository) TitleTaken(ctx context.Context, locationID, excludeID uuid.UUID, title string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("location_id = ? AND title = ? AND is_active = ?", locationID, title, true)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// Create inserts a new room.
func (r *Repository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// Update sets title and capacity. Returns gorm.ErrRecordNotFound when no
// active row matched.
func (r *Repository) Update(ctx context.Context, locationID, id uuid.UUID, title string, capacity int) error {
	res := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ? AND location_id = ? AND is_active = ?", id, locationID, true).
		Updates(map[string]interface{}{"title": title, "capacity": capacity})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate flips is_active to false. Idempotent.
func (r *Repository) Deactivate(ctx context.Context, locationID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ? AND location_id = ?", id, locationID).
		Update("is_active", false).Error
}
