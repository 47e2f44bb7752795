package errors

import "errors"

var (
	ErrNotFound         = errors.New("reservation not found")
	ErrInvalidID        = errors.New("invalid reservation ID format")
	ErrAlreadyCancelled = errors.New("reservation already cancelled")
)
