package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of pgxpool.Pool the repositories use. pgxmock satisfies it
// too, which is what the repository tests run against.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	// ErrNotFound covers both "row absent" and "row filtered out by an
	// ownership or status condition". Callers must not be able to tell the
	// two apart.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken is returned when the unique email index rejects an insert.
	ErrEmailTaken = errors.New("email already exists")

	// ErrNoTransition is returned when a conditional status update matched
	// zero rows (wrong state or wrong owner).
	ErrNoTransition = errors.New("no matching row for transition")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
