package database

import (
	"errors"

	"github.com/lib/pq"

	apperrors "github.com/paramveeRana/brainstroke3/pkg/errors"
)

const (
	pqUniqueViolation     pq.ErrorCode = "23505"
	pqForeignKeyViolation pq.ErrorCode = "23503"
	pqCheckViolation      pq.ErrorCode = "23514"
)

// writeError maps PostgreSQL constraint failures onto application errors.
func writeError(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return apperrors.NewConflictError(message + ": already exists")
		case pqForeignKeyViolation:
			return apperrors.WrapValidationError(message+": referenced record does not exist", err)
		case pqCheckViolation:
			return apperrors.WrapValidationError(message+": value out of range", err)
		}
	}
	return apperrors.NewInternalError(message, err)
}
