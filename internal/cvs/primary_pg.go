package cvs

import (
	"context"
	"database/sql"
)

// lockOwnerCVs takes row locks on every CV owned by the user and returns how
// many exist. All writers that touch the primary flag acquire this lock
// first, so two concurrent primary elections for the same owner serialize on
// the store instead of both observing zero primaries.
func lockOwnerCVs(ctx context.Context, tx *sql.Tx, userID string) (int, error) {
	const query = `SELECT id FROM cvs WHERE user_id = $1 FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		count++
	}
	return count, rows.Err()
}

// clearPrimary drops the primary flag from every CV of the owner. It is
// idempotent and runs only inside the caller's transaction; it never commits
// or rolls back on its own.
func clearPrimary(ctx context.Context, tx *sql.Tx, userID string) error {
	const query = `UPDATE cvs SET is_primary = FALSE WHERE user_id = $1 AND is_primary`
	_, err := tx.ExecContext(ctx, query, userID)
	return err
}
