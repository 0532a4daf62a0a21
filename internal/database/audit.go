package database

import (
	"context"
	"time"
)

// WriteAudit records a mutation in the audit log. Audit failures are the
// caller's to log and swallow; they never fail the mutation itself.
func (db *DB) WriteAudit(ctx context.Context, userID int64, action, entity string, entityID int64, details string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO audit_log (user_id, action, entity, entity_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nullableID(userID), action, entity, entityID, details, time.Now().UTC(),
	)
	return err
}
