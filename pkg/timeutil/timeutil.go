// Package timeutil normalizes instants to the canonical boundaries used for
// booking comparisons and storage: whole minutes for times of day, UTC
// midnight for calendar days. Both sides of every comparison go through the
// same normalization so equality and ordering are exact.
package timeutil

import "time"

// ToMinute returns t in UTC with seconds and sub-second components zeroed.
func ToMinute(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// ToDay returns the UTC midnight of t's calendar day.
func ToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
