// Package calendar abstracts the external calendar service that mirrors
// bookings as events. The core treats any non-success as a hard failure of the
// enclosing operation and never retries.
package calendar

import (
	"context"
	"time"
)

// Event describes a calendar event to create alongside a booking.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string // attendee email addresses
}

// Service creates and deletes events in an external calendar.
type Service interface {
	CreateEvent(ctx context.Context, ev Event) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}
