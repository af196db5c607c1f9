package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by writes that matched no row, and by inserts
	// whose foreign key points at a missing parent.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("record already exists")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// handleSQLError maps driver errors onto the repository sentinels.
func handleSQLError(err error, format string, args ...any) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf(format+": %w", append(args, ErrDuplicate)...)
		case pgForeignKeyViolation:
			return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
		}
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
