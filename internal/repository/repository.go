package repository

import (
	"context"
	"database/sql"
	"strings"
)

// oraUniqueViolation is Oracle's "unique constraint violated" error code.
const oraUniqueViolation = "ORA-00001"

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), oraUniqueViolation)
}

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
// Queries are written with '?' placeholders and passed through Rebind.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// execAffected runs an update/delete and returns the affected row count.
func execAffected(ctx context.Context, db DBTX, query string, args ...interface{}) (int64, error) {
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
