package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking reserves a room for the half-open interval [FromTime, ToTime) on a
// calendar day. Date is UTC midnight, FromTime/ToTime are minute-truncated.
// Cancellation flips IsActive instead of deleting the row. EventID is set only
// when IsCalendarEvent is true and the external calendar create succeeded.
type Booking struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID          uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_room_date" json:"room_id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	EventID         *string   `json:"event_id"`
	Summary         string    `gorm:"not null" json:"summary"`
	Description     string    `json:"description"`
	Date            time.Time `gorm:"not null;index:idx_bookings_room_date" json:"date"`
	FromTime        time.Time `gorm:"not null" json:"from_time"`
	ToTime          time.Time `gorm:"not null" json:"to_time"`
	Guests          string    `json:"guests"`
	IsCalendarEvent bool      `gorm:"not null" json:"is_calendar_event"`
	IsActive        bool      `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate sets the UUID if not provided.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name.
func (Booking) TableName() string {
	return "bookings"
}
