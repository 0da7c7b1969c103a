package domain

import "errors"

var (
	// ErrEmptySubmission is returned when a result submission carries no entries.
	ErrEmptySubmission = errors.New("result submission has no entries")

	// ErrInvalidPosition is returned when a position label is outside the
	// closed first/second/third/fourth set.
	ErrInvalidPosition = errors.New("invalid position")
)
