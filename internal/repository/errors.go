// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrAlreadyAttended signals that the attendance
// uniqueness constraint fired for a (user, event) pair, which the
// check-in flow treats as an idempotent success rather than a failure.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrEventNotFound is returned when no event exists with the requested id.
// Handlers should translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrProfileNotFound is returned when a user has no profile row. This
// indicates a registration that never completed; handlers translate it
// into an HTTP 404 or 500 depending on context.
var ErrProfileNotFound = errors.New("profile not found")

// ErrAlreadyAttended is returned when inserting an attendance row for a
// (user, event) pair that already has one. The duplicate-key violation on
// UNIQUE(user_id, event_id) is the authoritative double-award guard:
// concurrent check-ins race on the insert and exactly one wins.
var ErrAlreadyAttended = errors.New("already attended")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062), raised when an insert violates a unique key.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
