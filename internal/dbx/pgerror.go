package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes for the constraints the schema relies on.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err carries SQLSTATE 23503.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// Classify wraps a driver error so that callers can match it with errors.Is:
// unique violations become common.ErrorConflict, foreign key violations
// become common.ErrorNotFound, anything else is reported as "db error".
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", common.ErrorConflict, err)
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", common.ErrorNotFound, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
