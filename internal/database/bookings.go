package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"padelpoint/internal/models"
)

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = fmt.Errorf("booking not found")

const bookingColumns = `id, court_id, customer_name, start_time, end_time,
	price, paid, notes, employee_id, status, receipt_path, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	var notes, receiptPath sql.NullString
	var employeeID sql.NullInt64
	if err := row.Scan(
		&b.ID, &b.CourtID, &b.CustomerName, &b.Start, &b.End,
		&b.Price, &b.Paid, &notes, &employeeID, &b.Status, &receiptPath,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Notes = notes.String
	b.ReceiptPath = receiptPath.String
	b.EmployeeID = employeeID.Int64
	b.Start = b.Start.UTC()
	b.End = b.End.UTC()
	return &b, nil
}

// CreateBooking inserts a booking and returns it with its id.
// The interval invariant is enforced here as well as in the API layer.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	if err := b.ValidateInterval(); err != nil {
		return err
	}
	if b.Status == "" {
		b.Status = models.StatusActive
	}

	now := time.Now().UTC()
	res, err := db.ExecContext(ctx, `
		INSERT INTO bookings (
			court_id, customer_name, start_time, end_time, price, paid,
			notes, employee_id, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.CourtID, b.CustomerName, b.Start.UTC(), b.End.UTC(), b.Price, b.Paid,
		b.Notes, nullableID(b.EmployeeID), b.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("booking id: %w", err)
	}
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// GetBooking returns a booking by id, including soft-deleted ones.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	row := db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM bookings WHERE id = ?", bookingColumns), id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings returns all bookings ordered by start time. Soft-deleted
// rows are included, tagged with their status; visibility filtering is the
// schedule engine's job.
func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		fmt.Sprintf("SELECT %s FROM bookings ORDER BY start_time, id", bookingColumns))
}

// ListBookingsForDate returns bookings whose start falls inside the UTC
// day window of date. Callers needing cross-midnight recovery fetch the
// adjacent day or use ListBookingsInRange.
func (db *DB) ListBookingsForDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	return db.queryBookings(ctx, fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time, id`, bookingColumns),
		start, end)
}

// ListBookingsInRange returns bookings intersecting [start, end).
func (db *DB) ListBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	return db.queryBookings(ctx, fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE end_time > ? AND start_time < ?
		ORDER BY start_time, id`, bookingColumns),
		start.UTC(), end.UTC())
}

// ListBookingsStartingInRange returns bookings whose start falls inside
// [start, end); used by reports, which group by start date.
func (db *DB) ListBookingsStartingInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	return db.queryBookings(ctx, fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time, id`, bookingColumns),
		start.UTC(), end.UTC())
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// HasOverlap checks whether an active booking on the court intersects
// [start, end) with half-open semantics. excludeID skips a booking, used
// when rescheduling an existing one.
func (db *DB) HasOverlap(ctx context.Context, courtID int64, start, end time.Time, excludeID int64) (bool, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE court_id = ?
		AND end_time > ? AND start_time < ?
		AND status = 'active'`
	args := []any{courtID, start.UTC(), end.UTC()}
	if excludeID > 0 {
		query += " AND id != ?"
		args = append(args, excludeID)
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateBooking persists mutable booking fields.
func (db *DB) UpdateBooking(ctx context.Context, b *models.Booking) error {
	if err := b.ValidateInterval(); err != nil {
		return err
	}

	b.UpdatedAt = time.Now().UTC()
	res, err := db.ExecContext(ctx, `
		UPDATE bookings SET
			court_id = ?, customer_name = ?, start_time = ?, end_time = ?,
			price = ?, paid = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		b.CourtID, b.CustomerName, b.Start.UTC(), b.End.UTC(),
		b.Price, b.Paid, b.Notes, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return requireRow(res)
}

// SoftDeleteBooking marks a booking deleted; the row stays for reports.
func (db *DB) SoftDeleteBooking(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx,
		"UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status != ?",
		models.StatusDeleted, time.Now().UTC(), id, models.StatusDeleted,
	)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return requireRow(res)
}

// SetReceiptPath records where a generated receipt was written.
func (db *DB) SetReceiptPath(ctx context.Context, id int64, path string) error {
	res, err := db.ExecContext(ctx,
		"UPDATE bookings SET receipt_path = ?, updated_at = ? WHERE id = ?",
		path, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set receipt path: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
