package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization represents a tenant. Domain maps a login email's domain to the
// organization and must be unique among active rows.
type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Domain    string    `gorm:"not null;index" json:"domain"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Locations []Location `gorm:"foreignKey:OrganizationID" json:"-"`
	Users     []User     `gorm:"foreignKey:OrganizationID" json:"-"`
}

// BeforeCreate sets the UUID if not provided.
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name.
func (Organization) TableName() string {
	return "organizations"
}
