package db

import "errors"

// DuplicateKeyError is an error type for unique constraint violations. A
// replayed deploy hash surfaces as this type so callers can treat it as an
// idempotent no-op instead of a persistence fault.
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup)
}

// NotFoundError is an error type for missing rows.
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
