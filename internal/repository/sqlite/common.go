package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"time-tagger/internal/errors"
)

// dbError wraps a driver error. Errors that are already categorised pass
// through unchanged.
func dbError(operation string, err error) error {
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	return errors.NewDatabaseError(operation, err)
}

// bounded derives a context limited to d; d <= 0 leaves ctx as is.
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// withTx runs fn inside a transaction, committing only if fn succeeds
func withTx(ctx context.Context, db *sql.DB, operation string, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return dbError("begin "+operation, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return dbError(operation, err)
	}

	if err := tx.Commit(); err != nil {
		return dbError("commit "+operation, err)
	}
	return nil
}

// querySingle scans the one row a query returns. No row is a not found error.
func querySingle[T any](ctx context.Context, db *sql.DB, query string, scan func(Scanner) (*T, error), entity string, id string, args ...interface{}) (*T, error) {
	result, err := scan(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError(entity, id)
		}
		return nil, dbError("scan "+entity, err)
	}
	return result, nil
}

// queryMultiple scans every row a query returns
func queryMultiple[T any](ctx context.Context, db *sql.DB, query string, scan func(Rows) ([]*T, error), entity string, args ...interface{}) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("query "+entity, err)
	}
	defer rows.Close()

	results, err := scan(rows)
	if err != nil {
		return nil, dbError("scan "+entity, err)
	}
	return results, nil
}

// execAffecting runs a statement that must touch at least one row
func execAffecting(ctx context.Context, db *sql.DB, query string, entity string, id string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbError("execute query", err)
	}
	return requireAffected(result, entity, id)
}

func requireAffected(result sql.Result, entity string, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return dbError("get rows affected", err)
	}
	if n == 0 {
		return errors.NewNotFoundError(entity, id)
	}
	return nil
}
