package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrUnknownReference = errors.New("booking references a missing user or object")

	ErrDateRangeConflict = errors.New("date range overlaps an existing booking")

	ErrInvalidDateRange = errors.New("end date must not be before start date")
)
