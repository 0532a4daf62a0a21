package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"padelpoint/internal/auth"
	"padelpoint/internal/database"
	"padelpoint/internal/metrics"
	"padelpoint/internal/models"
	"padelpoint/internal/schedule"
)

// CreateBookingRequest is the request body for creating a booking.
type CreateBookingRequest struct {
	CourtID      int64   `json:"court_id"`
	CustomerName string  `json:"customer_name"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Price        float64 `json:"price"`
	Paid         bool    `json:"paid"`
	Notes        string  `json:"notes,omitempty"`
}

// UpdateBookingRequest is the PATCH body; nil fields stay unchanged.
type UpdateBookingRequest struct {
	CourtID      *int64   `json:"court_id,omitempty"`
	CustomerName *string  `json:"customer_name,omitempty"`
	StartTime    *string  `json:"start_time,omitempty"`
	EndTime      *string  `json:"end_time,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Paid         *bool    `json:"paid,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

// handleBookings lists or creates bookings.
// GET /api/bookings?date=YYYY-MM-DD
// POST /api/bookings
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings")
	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	var (
		bookings []models.Booking
		err      error
	)

	// The date filter matches the stored UTC day of the start instant,
	// not the business day; the schedule endpoint is the timezone-aware
	// view.
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, parseErr := time.Parse("2006-01-02", dateStr)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		bookings, err = s.db.ListBookingsForDate(r.Context(), date)
	} else {
		bookings, err = s.db.ListBookings(r.Context())
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list bookings")
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.CourtID == 0 || req.CustomerName == "" || req.StartTime == "" || req.EndTime == "" {
		writeError(w, http.StatusBadRequest, "court_id, customer_name, start_time and end_time are required")
		return
	}

	start, err := schedule.ParseInstant(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_time")
		return
	}
	end, err := schedule.ParseInstant(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_time")
		return
	}

	session := auth.FromContext(r.Context())
	booking := &models.Booking{
		CourtID:      req.CourtID,
		CustomerName: req.CustomerName,
		Start:        start,
		End:          end,
		Price:        req.Price,
		Paid:         req.Paid,
		Notes:        req.Notes,
		EmployeeID:   session.UserID,
		Status:       models.StatusActive,
	}
	if err := booking.ValidateInterval(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	court, err := s.db.GetCourt(r.Context(), req.CourtID)
	if err != nil {
		writeError(w, http.StatusNotFound, "court not found")
		return
	}

	busy, err := s.db.HasOverlap(r.Context(), req.CourtID, start, end, 0)
	if err != nil {
		s.log.Error().Err(err).Msg("overlap check failed")
		writeError(w, http.StatusInternalServerError, "failed to check availability")
		return
	}
	if busy {
		writeError(w, http.StatusConflict, "court is already booked for this time")
		return
	}

	if err := s.db.CreateBooking(r.Context(), booking); err != nil {
		s.log.Error().Err(err).Int64("court_id", req.CourtID).Msg("failed to create booking")
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	metrics.IncBookingCreated()
	s.audit(r.Context(), session, "create", "booking", booking.ID,
		fmt.Sprintf("court=%d start=%s", booking.CourtID, booking.Start.Format(time.RFC3339)))
	s.invalidateReportCache(r.Context())

	s.log.Info().
		Int64("booking_id", booking.ID).
		Int64("court_id", booking.CourtID).
		Str("customer", booking.CustomerName).
		Msg("booking created")

	go s.notifier.BookingCreated(context.WithoutCancel(r.Context()), booking, court.Name)

	writeJSON(w, http.StatusCreated, booking)
}

// handleBookingByID dispatches /api/bookings/{id} and
// /api/bookings/{id}/receipt.
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking_by_id")

	rest := strings.TrimPrefix(r.URL.Path, "/api/bookings/")
	idStr, tail, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	if tail == "receipt" {
		s.serveReceipt(w, r, id)
		return
	}
	if tail != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getBooking(w, r, id)
	case http.MethodPatch:
		s.updateBooking(w, r, id)
	case http.MethodDelete:
		s.deleteBooking(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request, id int64) {
	booking, err := s.db.GetBooking(r.Context(), id)
	if errors.Is(err, database.ErrBookingNotFound) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load booking")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) updateBooking(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.db.GetBooking(r.Context(), id)
	if errors.Is(err, database.ErrBookingNotFound) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load booking")
		return
	}
	if booking.Deleted() {
		writeError(w, http.StatusConflict, "booking is deleted")
		return
	}

	if req.CourtID != nil {
		if _, err := s.db.GetCourt(r.Context(), *req.CourtID); err != nil {
			writeError(w, http.StatusNotFound, "court not found")
			return
		}
		booking.CourtID = *req.CourtID
	}
	if req.CustomerName != nil {
		booking.CustomerName = *req.CustomerName
	}
	if req.StartTime != nil {
		start, err := schedule.ParseInstant(*req.StartTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_time")
			return
		}
		booking.Start = start
	}
	if req.EndTime != nil {
		end, err := schedule.ParseInstant(*req.EndTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_time")
			return
		}
		booking.End = end
	}
	if req.Price != nil {
		booking.Price = *req.Price
	}
	if req.Paid != nil {
		booking.Paid = *req.Paid
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}

	if err := booking.ValidateInterval(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Re-check availability for the new slot, ignoring the booking itself.
	busy, err := s.db.HasOverlap(r.Context(), booking.CourtID, booking.Start, booking.End, booking.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check availability")
		return
	}
	if busy {
		writeError(w, http.StatusConflict, "court is already booked for this time")
		return
	}

	if err := s.db.UpdateBooking(r.Context(), booking); err != nil {
		s.log.Error().Err(err).Int64("booking_id", id).Msg("failed to update booking")
		writeError(w, http.StatusInternalServerError, "failed to update booking")
		return
	}

	session := auth.FromContext(r.Context())
	s.audit(r.Context(), session, "update", "booking", id, "")
	s.invalidateReportCache(r.Context())
	s.log.Info().Int64("booking_id", id).Msg("booking updated")

	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) deleteBooking(w http.ResponseWriter, r *http.Request, id int64) {
	booking, err := s.db.GetBooking(r.Context(), id)
	if errors.Is(err, database.ErrBookingNotFound) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load booking")
		return
	}

	if err := s.db.SoftDeleteBooking(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrBookingNotFound) {
			// Already deleted.
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.log.Error().Err(err).Int64("booking_id", id).Msg("failed to delete booking")
		writeError(w, http.StatusInternalServerError, "failed to delete booking")
		return
	}

	metrics.IncBookingDeleted()
	session := auth.FromContext(r.Context())
	s.audit(r.Context(), session, "delete", "booking", id, "")
	s.invalidateReportCache(r.Context())
	s.log.Info().Int64("booking_id", id).Msg("booking deleted")

	courtName := fmt.Sprintf("#%d", booking.CourtID)
	if court, err := s.db.GetCourt(r.Context(), booking.CourtID); err == nil {
		courtName = court.Name
	}
	go s.notifier.BookingCancelled(context.WithoutCancel(r.Context()), booking, courtName)

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// audit records a mutation; failures are logged, never surfaced.
func (s *HTTPServer) audit(ctx context.Context, session *auth.Session, action, entity string, entityID int64, details string) {
	var userID int64
	if session != nil {
		userID = session.UserID
	}
	if err := s.db.WriteAudit(ctx, userID, action, entity, entityID, details); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("audit write failed")
	}
}
