package kwollect

import (
	"errors"
	"fmt"
)

var (
	// ErrNotArray reports a response body whose top level is not a JSON
	// array. The whole batch is unusable.
	ErrNotArray = errors.New("payload is not a JSON array")

	// ErrNotObject reports a batch element that is not a JSON object.
	ErrNotObject = errors.New("measurement is not a JSON object")

	// ErrUnsupportedShape reports a JSON value of a shape that has no
	// attribute or measurement representation (object, null).
	ErrUnsupportedShape = errors.New("unsupported JSON shape")

	// ErrNegativeInteger reports a negative integer value. There is no
	// signed variant, and reinterpreting the bits as unsigned would
	// silently produce a huge value, so the record is rejected.
	ErrNegativeInteger = errors.New("negative integer has no unsigned representation")

	// ErrTimestampShape reports a timestamp that is neither epoch seconds
	// nor an RFC-3339 string.
	ErrTimestampShape = errors.New("timestamp is neither epoch seconds nor RFC-3339")
)

// MissingFieldError reports a required record field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// BadValueError reports a record field that is present but cannot be
// decoded.
type BadValueError struct {
	Field string
	Err   error
}

func (e *BadValueError) Error() string {
	return fmt.Sprintf("bad value for field %q: %v", e.Field, e.Err)
}

func (e *BadValueError) Unwrap() error { return e.Err }
