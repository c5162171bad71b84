package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a required column is absent from a frame.
	ErrMissingColumn = errors.New("missing column")
	// ErrKindMismatch is returned when a column exists with an unexpected kind.
	ErrKindMismatch = errors.New("column kind mismatch")
	// ErrMalformedValue is returned when a cell cannot be coerced to its column kind.
	ErrMalformedValue = errors.New("malformed value")
)

func missingColumn(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

func kindError(name string, want, got Kind) error {
	return fmt.Errorf("%w: column %s is %v, want %v", ErrKindMismatch, name, got, want)
}

// MalformedValueError reports a single cell that could not be interpreted.
// Row is zero-based within the frame (or the data rows of a file).
type MalformedValueError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *MalformedValueError) Error() string {
	msg := fmt.Sprintf("malformed value in column %s at row %d: %q", e.Column, e.Row, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedValueError) Is(target error) bool { return target == ErrMalformedValue }

func (e *MalformedValueError) Unwrap() error { return e.Err }
