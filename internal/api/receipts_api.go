package api

import (
	"errors"
	"net/http"
	"os"

	"padelpoint/internal/auth"
	"padelpoint/internal/database"
	"padelpoint/internal/metrics"
)

// serveReceipt returns the booking's PDF receipt, generating it on first
// request and reusing the stored file afterwards. Admins and the employee
// who took the booking may fetch it.
// GET /api/bookings/{id}/receipt
func (s *HTTPServer) serveReceipt(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("receipt")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
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

	session := auth.FromContext(r.Context())
	if !session.IsAdmin() && booking.EmployeeID != session.UserID {
		writeError(w, http.StatusForbidden, "receipt belongs to another employee")
		return
	}

	path := booking.ReceiptPath
	if path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			// The stored file is gone; regenerate below.
			path = ""
		}
	}

	if path == "" {
		courtName := ""
		if court, err := s.db.GetCourt(r.Context(), booking.CourtID); err == nil {
			courtName = court.Name
		}

		path, err = s.receipts.Generate(booking, courtName)
		if err != nil {
			s.log.Error().Err(err).Int64("booking_id", id).Msg("failed to generate receipt")
			writeError(w, http.StatusInternalServerError, "failed to generate receipt")
			return
		}
		if err := s.db.SetReceiptPath(r.Context(), id, path); err != nil {
			s.log.Warn().Err(err).Int64("booking_id", id).Msg("failed to store receipt path")
		}
		s.log.Info().Int64("booking_id", id).Str("path", path).Msg("receipt generated")
	}

	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}
