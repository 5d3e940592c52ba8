package serde

import (
	"errors"
	"fmt"
)

// ErrInvalidType is matched by every *InvalidTypeError.
var ErrInvalidType = errors.New("serde: invalid type")

// ErrUnsupportedKind is returned when the reflection driver meets a Go kind
// no format can represent, such as channels or functions.
var ErrUnsupportedKind = errors.New("serde: unsupported kind")

// Error is a framework-level error carrying a message.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "serde: " + e.Msg }

// Errorf formats a framework error.
func Errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// InvalidTypeError reports that the input held a value of one shape where
// the destination expected another.
type InvalidTypeError struct {
	Got      string
	Expected string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("serde: invalid type: %s, expected %s", e.Got, e.Expected)
}

func (e *InvalidTypeError) Is(target error) bool { return target == ErrInvalidType }

// InvalidType returns an *InvalidTypeError for a visitor that received got.
func InvalidType(v Visitor, got string) error {
	return &InvalidTypeError{Got: got, Expected: v.Expecting()}
}
