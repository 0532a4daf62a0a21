package models

import (
	"errors"
	"time"
)

// Booking statuses. Deleted bookings stay in the table for historical
// reports but are invisible everywhere else.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// ErrInvalidInterval is returned when a booking interval has end <= start.
// Bad intervals are rejected at the boundary instead of clamped, so they
// can never corrupt layout computations downstream.
var ErrInvalidInterval = errors.New("invalid interval: end_time must be after start_time")

// Booking represents a court booking record. Start and End are absolute
// instants stored in UTC; all user-facing day arithmetic happens in the
// business timezone (see internal/schedule).
type Booking struct {
	ID           int64     `json:"id"`
	CourtID      int64     `json:"court_id"`
	CustomerName string    `json:"customer_name"`
	Start        time.Time `json:"start_time"`
	End          time.Time `json:"end_time"`
	Price        float64   `json:"price"`
	Paid         bool      `json:"paid"`
	Notes        string    `json:"notes,omitempty"`
	EmployeeID   int64     `json:"employee_id,omitempty"`
	Status       string    `json:"status"`
	ReceiptPath  string    `json:"receipt_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Deleted reports whether the booking is soft-deleted.
func (b *Booking) Deleted() bool {
	return b.Status == StatusDeleted
}

// ValidateInterval checks the end > start invariant.
func (b *Booking) ValidateInterval() error {
	if b.Start.IsZero() || b.End.IsZero() || !b.End.After(b.Start) {
		return ErrInvalidInterval
	}
	return nil
}

// OverlapsWith checks if this booking overlaps with another booking.
// Uses half-open interval [start, end) semantics - end boundary is exclusive,
// so back-to-back bookings do not conflict.
func (b *Booking) OverlapsWith(other *Booking) bool {
	return b.Start.Before(other.End) && other.Start.Before(b.End)
}

// Duration returns the booked interval length.
func (b *Booking) Duration() time.Duration {
	return b.End.Sub(b.Start)
}
