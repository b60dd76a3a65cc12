package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToMinute(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "strips seconds and nanoseconds",
			in:   time.Date(2025, 3, 10, 14, 32, 59, 999999999, time.UTC),
			want: time.Date(2025, 3, 10, 14, 32, 0, 0, time.UTC),
		},
		{
			name: "already canonical",
			in:   time.Date(2025, 3, 10, 14, 32, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 14, 32, 0, 0, time.UTC),
		},
		{
			name: "converts zone to UTC",
			in:   time.Date(2025, 3, 10, 14, 32, 30, 0, time.FixedZone("IST", 5*3600+30*60)),
			want: time.Date(2025, 3, 10, 9, 2, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMinute(tt.in))
		})
	}
}

func TestToDay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "truncates to UTC midnight",
			in:   time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day boundary follows UTC not local zone",
			in:   time.Date(2025, 3, 11, 1, 30, 0, 0, time.FixedZone("IST", 5*3600+30*60)),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDay(tt.in))
		})
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	in := time.Date(2025, 7, 1, 10, 15, 42, 123, time.UTC)
	assert.Equal(t, ToMinute(in), ToMinute(ToMinute(in)))
	assert.Equal(t, ToDay(in), ToDay(ToDay(in)))
}
