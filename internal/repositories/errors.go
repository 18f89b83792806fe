package repositories

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique index rejects a write. The
	// index is the authoritative guard; application-level pre-checks only
	// exist for friendlier messages.
	ErrConflict = errors.New("unique constraint violation")
)

const pqUniqueViolation = "23505"

// translateUnique maps a Postgres unique_violation onto ErrConflict so
// services can match it without importing pq.
func translateUnique(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrConflict
	}
	return err
}
