package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// namedInsertReturning runs a named INSERT ... RETURNING statement and scans the single
// returned row into dest. Used where the database assigns the insertion timestamp.
func namedInsertReturning(ctx context.Context, db *sqlx.DB, query string, arg any, dest ...any) error {
	rows, err := db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.Scan(dest...)
}
