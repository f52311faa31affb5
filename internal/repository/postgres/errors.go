package postgres

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
)

const uniqueViolation pq.ErrorCode = "23505"

func isUniqueViolation(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr, true
	}
	return nil, false
}

// queryError marks sql.ErrNoRows as not found and everything else as a database error
func queryError(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHintf("%s not found", what).
			Mark(ierr.ErrNotFound)
	}
	return ierr.WithError(err).
		WithHintf("Failed to query %s", what).
		Mark(ierr.ErrDatabase)
}

// execError marks unique violations as already existing
func execError(err error, what string) error {
	if pqErr, ok := isUniqueViolation(err); ok {
		return ierr.WithError(err).
			WithHintf("A %s with these keys already exists", what).
			WithReportableDetails(map[string]any{"constraint": pqErr.Constraint}).
			Mark(ierr.ErrAlreadyExists)
	}
	return ierr.WithError(err).
		WithHintf("Failed to write %s", what).
		Mark(ierr.ErrDatabase)
}
