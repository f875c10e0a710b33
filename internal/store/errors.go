package store

import (
	"errors"

	"github.com/lib/pq"
)

// Error types for the store package.
var (
	// ErrDuplicateURL is returned when an insert violates the unique
	// constraint on the article URL column.
	ErrDuplicateURL = errors.New("article URL already exists")

	// ErrNotFound is returned when no article matches the lookup.
	ErrNotFound = errors.New("article not found")
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// isDuplicateErr reports whether err is a unique constraint violation.
func isDuplicateErr(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
