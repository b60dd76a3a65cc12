package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a bookable meeting room. Title is stored trimmed and lower-cased and
// must be unique among the location's active rooms.
type Room struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;index" json:"location_id"`
	Title      string    `gorm:"not null" json:"title"`
	Capacity   int       `gorm:"not null" json:"capacity"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// IsAvailable is a read-time projection: true when no active booking is in
	// progress at query time. Never persisted.
	IsAvailable bool `gorm:"-" json:"is_available"`

	Bookings []Booking `gorm:"foreignKey:RoomID" json:"bookings,omitempty"`
}

// BeforeCreate sets the UUID if not provided.
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name.
func (Room) TableName() string {
	return "rooms"
}
