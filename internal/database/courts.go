package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"padelpoint/internal/models"
)

// ErrCourtNotFound is returned when a court id does not exist.
var ErrCourtNotFound = fmt.Errorf("court not found")

// ListCourts returns all courts ordered by name.
func (db *DB) ListCourts(ctx context.Context) ([]models.Court, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, description FROM courts ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courts []models.Court
	for rows.Next() {
		var c models.Court
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc); err != nil {
			return nil, err
		}
		c.Description = desc.String
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

// GetCourt returns a court by id.
func (db *DB) GetCourt(ctx context.Context, id int64) (*models.Court, error) {
	var c models.Court
	var desc sql.NullString
	err := db.QueryRowContext(ctx,
		"SELECT id, name, description FROM courts WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &desc)
	if err == sql.ErrNoRows {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Description = desc.String
	return &c, nil
}

// CreateCourt inserts a court and returns it with its id.
func (db *DB) CreateCourt(ctx context.Context, c *models.Court) error {
	now := time.Now().UTC()
	res, err := db.ExecContext(ctx,
		"INSERT INTO courts (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)",
		c.Name, c.Description, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert court: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("court id: %w", err)
	}
	c.ID = id
	return nil
}

// UpdateCourt updates name and description.
func (db *DB) UpdateCourt(ctx context.Context, c *models.Court) error {
	res, err := db.ExecContext(ctx,
		"UPDATE courts SET name = ?, description = ?, updated_at = ? WHERE id = ?",
		c.Name, c.Description, time.Now().UTC(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update court: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCourtNotFound
	}
	return nil
}

// DeleteCourt removes a court. Bookings reference courts with a foreign
// key, so deletion fails while bookings exist.
func (db *DB) DeleteCourt(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM courts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete court: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCourtNotFound
	}
	return nil
}
