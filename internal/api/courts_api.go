package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"padelpoint/internal/database"
	"padelpoint/internal/metrics"
	"padelpoint/internal/models"
)

// CourtRequest is the body for creating or updating a court.
type CourtRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// handleCourts lists or creates courts.
// GET /api/courts
// POST /api/courts (admin)
func (s *HTTPServer) handleCourts(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("courts")
	switch r.Method {
	case http.MethodGet:
		courts, err := s.db.ListCourts(r.Context())
		if err != nil {
			s.log.Error().Err(err).Msg("failed to list courts")
			writeError(w, http.StatusInternalServerError, "failed to list courts")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"courts": courts})

	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		req, ok := decodeCourtRequest(w, r)
		if !ok {
			return
		}
		court := &models.Court{Name: req.Name, Description: req.Description}
		if err := s.db.CreateCourt(r.Context(), court); err != nil {
			s.log.Error().Err(err).Str("name", req.Name).Msg("failed to create court")
			writeError(w, http.StatusInternalServerError, "failed to create court")
			return
		}
		s.log.Info().Int64("court_id", court.ID).Str("name", court.Name).Msg("court created")
		writeJSON(w, http.StatusCreated, court)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCourtByID reads, updates or deletes a single court.
// GET /api/courts/{id}
// PUT/PATCH /api/courts/{id} (admin)
// DELETE /api/courts/{id} (admin)
func (s *HTTPServer) handleCourtByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("court_by_id")

	idStr := strings.TrimPrefix(r.URL.Path, "/api/courts/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid court id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		court, err := s.db.GetCourt(r.Context(), id)
		if errors.Is(err, database.ErrCourtNotFound) {
			writeError(w, http.StatusNotFound, "court not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load court")
			return
		}
		writeJSON(w, http.StatusOK, court)

	case http.MethodPut, http.MethodPatch:
		if !requireAdmin(w, r) {
			return
		}
		req, ok := decodeCourtRequest(w, r)
		if !ok {
			return
		}
		court := &models.Court{ID: id, Name: req.Name, Description: req.Description}
		if err := s.db.UpdateCourt(r.Context(), court); err != nil {
			if errors.Is(err, database.ErrCourtNotFound) {
				writeError(w, http.StatusNotFound, "court not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to update court")
			return
		}
		s.log.Info().Int64("court_id", id).Msg("court updated")
		writeJSON(w, http.StatusOK, court)

	case http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		if err := s.db.DeleteCourt(r.Context(), id); err != nil {
			if errors.Is(err, database.ErrCourtNotFound) {
				writeError(w, http.StatusNotFound, "court not found")
				return
			}
			// Foreign key violations land here while bookings exist.
			writeError(w, http.StatusConflict, "court has bookings and cannot be deleted")
			return
		}
		s.log.Info().Int64("court_id", id).Msg("court deleted")
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func decodeCourtRequest(w http.ResponseWriter, r *http.Request) (*CourtRequest, bool) {
	var req CourtRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return nil, false
	}
	return &req, true
}
