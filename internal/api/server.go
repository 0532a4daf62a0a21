// Package api serves the back-office REST interface.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"padelpoint/internal/config"
	"padelpoint/internal/models"
	"padelpoint/internal/notify"
	"padelpoint/internal/receipts"
	"padelpoint/internal/reports"
	"padelpoint/internal/schedule"
)

// Store is the persistence surface the handlers depend on. *database.DB
// implements it; tests substitute an in-memory fake.
type Store interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	ListBookingsForDate(ctx context.Context, date time.Time) ([]models.Booking, error)
	ListBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	ListBookingsStartingInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	HasOverlap(ctx context.Context, courtID int64, start, end time.Time, excludeID int64) (bool, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error
	SoftDeleteBooking(ctx context.Context, id int64) error
	SetReceiptPath(ctx context.Context, id int64, path string) error

	ListCourts(ctx context.Context) ([]models.Court, error)
	GetCourt(ctx context.Context, id int64) (*models.Court, error)
	CreateCourt(ctx context.Context, c *models.Court) error
	UpdateCourt(ctx context.Context, c *models.Court) error
	DeleteCourt(ctx context.Context, id int64) error

	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	WriteAudit(ctx context.Context, userID int64, action, entity string, entityID int64, details string) error
}

// HTTPServer holds handler dependencies.
type HTTPServer struct {
	cfg      *config.Config
	db       Store
	engine   *schedule.Engine
	cache    *redis.Client // nil when redis is not configured
	notifier *notify.Notifier
	receipts *receipts.Generator
	sheets   *reports.SheetsMirror // nil when sheets export is off
	log      zerolog.Logger
}

// NewHTTPServer wires the API handlers. cache, notifier and sheets may be
// nil; the corresponding features degrade gracefully.
func NewHTTPServer(
	cfg *config.Config,
	db Store,
	engine *schedule.Engine,
	cache *redis.Client,
	notifier *notify.Notifier,
	gen *receipts.Generator,
	sheets *reports.SheetsMirror,
	logger zerolog.Logger,
) *HTTPServer {
	return &HTTPServer{
		cfg:      cfg,
		db:       db,
		engine:   engine,
		cache:    cache,
		notifier: notifier,
		receipts: gen,
		sheets:   sheets,
		log:      logger.With().Str("component", "api").Logger(),
	}
}

// Router builds the API mux. Everything under /api requires a valid token;
// /auth/token is open.
func (s *HTTPServer) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/token", s.handleToken)

	mux.HandleFunc("/api/bookings", s.requireAuth(s.handleBookings))
	mux.HandleFunc("/api/bookings/", s.requireAuth(s.handleBookingByID))
	mux.HandleFunc("/api/courts", s.requireAuth(s.handleCourts))
	mux.HandleFunc("/api/courts/", s.requireAuth(s.handleCourtByID))
	mux.HandleFunc("/api/schedule", s.requireAuth(s.handleSchedule))
	mux.HandleFunc("/api/reports", s.requireAuth(s.handleReports))

	return mux
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("api server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
