// Package schedule reconciles booking intervals against business calendar
// days and computes the timeline layout for the day view.
//
// Bookings are stored as absolute UTC instants. A "day" is midnight-to-
// midnight in a fixed business timezone (UTC+5 by default, no DST), so a
// booking that crosses local midnight belongs partly to two calendar days.
// The engine is a set of pure functions over an immutable snapshot of
// bookings; callers re-fetch the snapshot after every mutation.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"padelpoint/internal/models"
)

// DefaultOffsetMinutes is the business timezone offset from UTC.
const DefaultOffsetMinutes = 300

// Engine performs day-window and layout computations in a fixed
// business timezone.
type Engine struct {
	loc *time.Location
}

// New creates an engine with the given UTC offset in minutes.
// Zero or negative-only configs fall back to the default UTC+5.
func New(offsetMinutes int) *Engine {
	if offsetMinutes == 0 {
		offsetMinutes = DefaultOffsetMinutes
	}
	name := fmt.Sprintf("UTC%+03d:%02d", offsetMinutes/60, abs(offsetMinutes%60))
	return &Engine{loc: time.FixedZone(name, offsetMinutes*60)}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Location returns the business timezone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// DayBounds returns the UTC instants of the business-day window
// [00:00, 24:00) containing the calendar date of day.
func (e *Engine) DayBounds(day time.Time) (start, end time.Time) {
	y, m, d := day.In(e.loc).Date()
	local := time.Date(y, m, d, 0, 0, 0, 0, e.loc)
	return local.UTC(), local.Add(24 * time.Hour).UTC()
}

// sameBusinessDay reports whether t falls on the business-timezone
// calendar date of day.
func (e *Engine) sameBusinessDay(t, day time.Time) bool {
	ty, tm, td := t.In(e.loc).Date()
	dy, dm, dd := day.In(e.loc).Date()
	return ty == dy && tm == dm && td == dd
}

// DayView returns non-deleted bookings whose business-timezone start date
// equals the selected day, sorted by start time then id.
//
// Cross-midnight continuations (bookings that started the previous day and
// end on the selected day) are deliberately not included here; the list
// view shows only bookings that begin on the day, while CalendarWindow
// also renders the clipped tail of overnight bookings.
func (e *Engine) DayView(bookings []models.Booking, day time.Time) []models.Booking {
	out := make([]models.Booking, 0)
	for _, b := range bookings {
		if b.Deleted() {
			continue
		}
		if e.sameBusinessDay(b.Start, day) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// HourOccupancy reports whether the given hour (0-23) of the selected day
// is covered by at least one non-deleted booking. A booking counts if it
// starts that day and covers the hour, if it starts that day and runs past
// midnight, or if it started the previous day and its tail reaches into
// the selected day.
func (e *Engine) HourOccupancy(bookings []models.Booking, day time.Time, hour int) bool {
	if hour < 0 || hour > 23 {
		return false
	}
	prevDay := day.In(e.loc).AddDate(0, 0, -1)

	for _, b := range bookings {
		if b.Deleted() {
			continue
		}
		localStart := b.Start.In(e.loc)
		localEnd := b.End.In(e.loc)
		startsToday := e.sameBusinessDay(b.Start, day)
		endsToday := e.sameBusinessDay(b.End, day)

		// Occupancy is hour-granular: the comparison is over local start
		// and end hours with a half-open [startHour, endHour) window.
		switch {
		case startsToday && endsToday:
			if hour >= localStart.Hour() && hour < localEnd.Hour() {
				return true
			}
		case startsToday:
			// Runs past midnight; covers every hour from start to 24:00.
			if hour >= localStart.Hour() {
				return true
			}
		case e.sameBusinessDay(b.Start, prevDay) && endsToday:
			if hour < localEnd.Hour() {
				return true
			}
		}
	}
	return false
}

// OccupiedHours returns per-hour occupancy flags for the selected day.
func (e *Engine) OccupiedHours(bookings []models.Booking, day time.Time) [24]bool {
	var hours [24]bool
	for h := 0; h < 24; h++ {
		hours[h] = e.HourOccupancy(bookings, day, h)
	}
	return hours
}

// ParseInstant parses an instant string. RFC 3339 strings keep their
// explicit offset; strings without zone information are treated as UTC,
// never as the host's local timezone.
func ParseInstant(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse instant %q: %w", s, models.ErrInvalidInterval)
}

// ParseDay parses a YYYY-MM-DD business calendar date.
func (e *Engine) ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, e.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format; expected YYYY-MM-DD")
	}
	return t, nil
}
