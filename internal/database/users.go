package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"padelpoint/internal/models"
)

// ErrUserNotFound is returned when a user lookup matches nothing.
var ErrUserNotFound = fmt.Errorf("user not found")

// GetUserByUsername returns a user by unique username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.getUser(ctx,
		"SELECT id, username, password_hash, role, full_name FROM users WHERE username = ?",
		username)
}

// GetUserByID returns a user by id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.getUser(ctx,
		"SELECT id, username, password_hash, role, full_name FROM users WHERE id = ?",
		id)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	var fullName sql.NullString
	err := db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &fullName,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.FullName = fullName.String
	return &u, nil
}

// CreateUser inserts a staff account. Fails on duplicate username.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleEmployee
	}

	now := time.Now().UTC()
	res, err := db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Role, u.FullName, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	u.ID = id
	return nil
}
