package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-adoption-hub/internal/ports/store"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

// translate lleva errores del driver a los sentinels de ports/store.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	var liteErr *sqlite.Error

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.ConstraintName)
	case errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT:
		return fmt.Errorf("%w: %v", store.ErrConflict, liteErr)
	default:
		// conexión caída, timeout del server, etc.
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
}
