package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"padelpoint/internal/auth"
	"padelpoint/internal/metrics"
	"padelpoint/internal/reports"
)

const reportCachePrefix = "report:"

// handleReports builds a revenue report over an inclusive business-day
// range. Admins get the full report (JSON or an xlsx workbook); employees
// get a redacted shell with every monetary figure zeroed.
// GET /api/reports?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD&format=json|xlsx
func (s *HTTPServer) handleReports(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reports")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	startStr := r.URL.Query().Get("start_date")
	endStr := r.URL.Query().Get("end_date")
	if startStr == "" || endStr == "" {
		writeError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}

	startDay, err := s.engine.ParseDay(startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	endDay, err := s.engine.ParseDay(endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if endDay.Before(startDay) {
		writeError(w, http.StatusBadRequest, "start_date must be before or equal to end_date")
		return
	}

	session := auth.FromContext(r.Context())
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	if format == "xlsx" && !session.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	report, err := s.buildReport(r.Context(), startDay, endDay)
	if err != nil {
		s.log.Error().Err(err).Str("start", startStr).Str("end", endStr).Msg("failed to build report")
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	if s.sheets != nil && session.IsAdmin() {
		go func(rep *reports.Report) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.sheets.Push(ctx, rep); err != nil {
				s.log.Warn().Err(err).Msg("sheets mirror push failed")
			}
		}(report)
	}

	switch format {
	case "xlsx":
		metrics.IncReportGenerated("xlsx")
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=report_%s_%s.xlsx", startStr, endStr))
		if err := reports.WriteWorkbook(report, w); err != nil {
			s.log.Error().Err(err).Msg("failed to write workbook")
		}

	case "json":
		metrics.IncReportGenerated("json")
		if !session.IsAdmin() {
			report = report.Redacted()
		}
		writeJSON(w, http.StatusOK, report)

	default:
		writeError(w, http.StatusBadRequest, "unsupported format; expected json or xlsx")
	}
}

// buildReport returns a cached report when fresh, otherwise recomputes it
// from the raw booking rows and caches the result.
func (s *HTTPServer) buildReport(ctx context.Context, startDay, endDay time.Time) (*reports.Report, error) {
	rangeStart, _ := s.engine.DayBounds(startDay)
	_, rangeEnd := s.engine.DayBounds(endDay)

	cacheKey := fmt.Sprintf("%s%s:%s",
		reportCachePrefix,
		rangeStart.Format("2006-01-02"),
		rangeEnd.Format("2006-01-02"))

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached reports.Report
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	bookings, err := s.db.ListBookingsStartingInRange(ctx, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	report := reports.Build(bookings, rangeStart, rangeEnd.Add(-time.Second), s.engine.Location())

	if s.cache != nil && s.cfg.ReportCacheTTL() > 0 {
		if data, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, s.cfg.ReportCacheTTL()).Err(); err != nil {
				s.log.Warn().Err(err).Msg("report cache write failed")
			}
		}
	}
	return report, nil
}

// invalidateReportCache drops all cached reports after a booking mutation.
func (s *HTTPServer) invalidateReportCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	keys, err := s.cache.Keys(ctx, reportCachePrefix+"*").Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("report cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("report cache invalidation failed")
	}
}
