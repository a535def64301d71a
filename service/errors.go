package service

import (
	"errors"
)

// Hard failure taxonomy. Soft outcomes (unrecognized text, ambiguous or
// empty resolutions) are ordinary values, not errors.
var (
	// ErrNotFound means the operation targeted a nonexistent record.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized means a mutation was attempted by a user who does not
	// own the affected record. The operation is refused with no side effects.
	ErrUnauthorized = errors.New("not the owner of this record")

	// ErrAliasTaken means the alias name is already bound within the user's
	// namespace.
	ErrAliasTaken = errors.New("alias already in use")
)
