package domain

import "errors"

var (
	// ErrInvalidField indicates an unknown field name or a value of the wrong type.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidDate indicates a date string in none of the accepted layouts.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidDateRange indicates a start date after the end date.
	ErrInvalidDateRange = errors.New("start date is after end date")

	// ErrInvalidProgress indicates a progress value outside 0-100.
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
)
