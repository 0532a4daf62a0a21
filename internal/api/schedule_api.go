package api

import (
	"net/http"

	"padelpoint/internal/metrics"
	"padelpoint/internal/models"
	"padelpoint/internal/schedule"
)

// ScheduleResponse is the full day view: the list of bookings starting on
// the business day, the clipped timeline blocks, and per-hour occupancy.
// The list and the timeline deliberately differ on cross-midnight
// bookings: the tail of an overnight booking appears as a clipped block
// but not as a list entry.
type ScheduleResponse struct {
	Date          string                 `json:"date"`
	Bookings      []models.Booking       `json:"bookings"`
	Calendar      []schedule.LayoutBlock `json:"calendar"`
	OccupiedHours [24]bool               `json:"occupied_hours"`
}

// handleSchedule renders one business day.
// GET /api/schedule?date=YYYY-MM-DD
func (s *HTTPServer) handleSchedule(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	day, err := s.engine.ParseDay(dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// One window query covers all three views: bookings starting on the
	// day, overnight tails reaching into it, and everything the timeline
	// needs to clip.
	dayStart, dayEnd := s.engine.DayBounds(day)
	bookings, err := s.db.ListBookingsInRange(r.Context(), dayStart, dayEnd)
	if err != nil {
		s.log.Error().Err(err).Str("date", dateStr).Msg("failed to load schedule")
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}

	blocks, err := s.engine.CalendarWindow(bookings, day)
	if err != nil {
		// A stored booking violating the interval invariant is data
		// corruption, not a client error.
		s.log.Error().Err(err).Str("date", dateStr).Msg("invalid booking in schedule window")
		writeError(w, http.StatusInternalServerError, "failed to compute schedule")
		return
	}

	writeJSON(w, http.StatusOK, ScheduleResponse{
		Date:          dateStr,
		Bookings:      s.engine.DayView(bookings, day),
		Calendar:      blocks,
		OccupiedHours: s.engine.OccupiedHours(bookings, day),
	})
}
