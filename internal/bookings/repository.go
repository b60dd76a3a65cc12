package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetbook/backend/internal/models"
	"github.com/meetbook/backend/pkg/timeutil"
)

// ErrOverlap is returned when a candidate interval overlaps an active booking
// on the same room and date.
var ErrOverlap = errors.New("room is already booked for this time")

// Repository handles booking persistence and the overlap check.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a bookings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUpcomingToday returns today's active bookings for the room that have not
// yet ended, ordered by start time. One canonical predicate (to_time > now) is
// used for every "remaining bookings" read.
func (r *Repository) ListUpcomingToday(ctx context.Context, roomID uuid.UUID, now time.Time) ([]models.Booking, error) {
	now = timeutil.ToMinute(now)
	var list []models.Booking
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND date = ? AND is_active = ?", roomID, timeutil.ToDay(now), true).
		Where("to_time > ?", now).
		Order("from_time asc").
		Preload("User").
		Find(&list).Error
	return list, err
}

// GetActive returns an active booking by id within a room.
func (r *Repository) GetActive(ctx context.Context, roomID, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Where("id = ? AND room_id = ? AND is_active = ?", id, roomID, true).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get returns a booking by id within a room regardless of active state, so
// cancellation stays idempotent.
func (r *Repository) Get(ctx context.Context, roomID, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Where("id = ? AND room_id = ?", id, roomID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// HasOverlap reports whether any active booking for the room and date overlaps
// [from, to). Two intervals [a,b) and [c,d) overlap iff a < d and c < b.
func (r *Repository) HasOverlap(ctx context.Context, roomID uuid.UUID, date, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ? AND date = ? AND is_active = ?", roomID, date, true).
		Where("from_time < ? AND to_time > ?", to, from).
		Count(&count).Error
	return count > 0, err
}

// CreateIfFree re-runs the overlap check and inserts the booking inside one
// transaction. On PostgreSQL the bookings_no_overlap exclusion constraint
// backs this up against concurrent writers. Returns ErrOverlap on conflict.
func (r *Repository) CreateIfFree(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Booking{}).
			Where("room_id = ? AND date = ? AND is_active = ?", b.RoomID, b.Date, true).
			Where("from_time < ? AND to_time > ?", b.ToTime, b.FromTime).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrOverlap
		}
		return tx.Create(b).Error
	})
}

// Deactivate flips is_active to false.
func (r *Repository) Deactivate(ctx context.Context, roomID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND room_id = ?", id, roomID).
		Update("is_active", false).Error
}
