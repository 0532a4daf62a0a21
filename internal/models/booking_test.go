package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_OverlapsWith(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	mk := func(startOffset, endOffset time.Duration) *Booking {
		return &Booking{Start: base.Add(startOffset), End: base.Add(endOffset)}
	}

	tests := []struct {
		name     string
		a, b     *Booking
		overlaps bool
	}{
		{"identical intervals", mk(0, time.Hour), mk(0, time.Hour), true},
		{"partial overlap", mk(0, time.Hour), mk(30*time.Minute, 2*time.Hour), true},
		{"contained interval", mk(0, 3*time.Hour), mk(time.Hour, 2*time.Hour), true},
		{"back to back", mk(0, time.Hour), mk(time.Hour, 2*time.Hour), false},
		{"disjoint", mk(0, time.Hour), mk(2*time.Hour, 3*time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.OverlapsWith(tt.b))
			// Overlap must be symmetric.
			assert.Equal(t, tt.overlaps, tt.b.OverlapsWith(tt.a))
		})
	}
}

func TestBooking_ValidateInterval(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	valid := &Booking{Start: base, End: base.Add(time.Hour)}
	assert.NoError(t, valid.ValidateInterval())

	reversed := &Booking{Start: base.Add(time.Hour), End: base}
	assert.ErrorIs(t, reversed.ValidateInterval(), ErrInvalidInterval)

	zeroLength := &Booking{Start: base, End: base}
	assert.ErrorIs(t, zeroLength.ValidateInterval(), ErrInvalidInterval)

	missing := &Booking{Start: base}
	assert.ErrorIs(t, missing.ValidateInterval(), ErrInvalidInterval)
}

func TestBooking_Deleted(t *testing.T) {
	b := &Booking{Status: StatusActive}
	assert.False(t, b.Deleted())

	b.Status = StatusDeleted
	assert.True(t, b.Deleted())
}
