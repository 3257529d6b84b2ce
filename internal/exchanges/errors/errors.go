package errors

import "errors"

var (
	ErrNotFound = errors.New("exchange not found")

	ErrUnknownReference = errors.New("exchange references a missing user, booking or object")
)
