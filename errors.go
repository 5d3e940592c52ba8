package nbt

import (
	"errors"
	"fmt"
)

var (
	// ErrNilIO indicates that NewWriter was called with a nil io.Writer.
	ErrNilIO = errors.New("nbt: NewWriter called with a nil io.Writer")

	// ErrAlreadyBuffered indicates that NewWriterSize was called with a bufio.Writer
	// smaller than requested, which would lead to double buffering.
	ErrAlreadyBuffered = errors.New("nbt: writer is already buffered")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative) count from Write.
	ErrInvalidWrite = errors.New("nbt: writer returned invalid count from Write")

	// ErrNotEnoughBytes is matched by every *NotEnoughBytesError.
	ErrNotEnoughBytes = errors.New("nbt: not enough bytes")

	// ErrInvalidSkip is matched by every *InvalidSkipError.
	ErrInvalidSkip = errors.New("nbt: invalid skip")

	// ErrNoRootCompound is matched by every *NoRootCompoundError.
	ErrNoRootCompound = errors.New("nbt: root tag is not a compound")

	// ErrUnknownTagID is matched by every *UnknownTagIDError.
	ErrUnknownTagID = errors.New("nbt: unknown tag id")

	// ErrUnsupportedType is matched by every *UnsupportedTypeError.
	ErrUnsupportedType = errors.New("nbt: unsupported type")

	// ErrListTypeMismatch is matched by every *ListTypeMismatchError.
	ErrListTypeMismatch = errors.New("nbt: list element type mismatch")

	// ErrDepthLimit is matched by every *DepthLimitError.
	ErrDepthLimit = errors.New("nbt: maximum nesting depth exceeded")

	// ErrInvalidJavaString indicates string bytes that are not valid modified UTF-8.
	ErrInvalidJavaString = errors.New("nbt: string is not valid modified UTF-8")

	// ErrStringTooLong indicates a string whose modified UTF-8 form does not fit a u16 length prefix.
	ErrStringTooLong = errors.New("nbt: string exceeds 65535 encoded bytes")

	// ErrNegativeLength indicates a negative i32 length prefix on the wire.
	ErrNegativeLength = errors.New("nbt: negative length")

	// ErrTrailingData is returned by UnmarshalBinary when non-zero bytes are found
	// after the end of the document.
	ErrTrailingData = errors.New("nbt: non-zero trailing data found after decoding")

	// ErrStreamTooLarge indicates a stream longer than MaxStreamSize passed to ReadFrom.
	ErrStreamTooLarge = errors.New("nbt: stream too large")

	// ErrTruncatedData indicates that fewer bytes were produced or consumed than expected.
	ErrTruncatedData = errors.New("nbt: truncated data")
)

// NotEnoughBytesError reports a read past the end of a Cursor.
type NotEnoughBytesError struct {
	Requested int
	Available int
}

func (e *NotEnoughBytesError) Error() string {
	return fmt.Sprintf("nbt: not enough bytes remaining in buffer to read value (requested %d but only %d available)", e.Requested, e.Available)
}

func (e *NotEnoughBytesError) Is(target error) bool { return target == ErrNotEnoughBytes }

// InvalidSkipError reports a skip past the end of a Cursor.
type InvalidSkipError struct {
	Amount    int
	Available int
}

func (e *InvalidSkipError) Error() string {
	return fmt.Sprintf("nbt: cannot skip %d bytes, only %d bytes are remaining in the buffer", e.Amount, e.Available)
}

func (e *InvalidSkipError) Is(target error) bool { return target == ErrInvalidSkip }

// NoRootCompoundError reports a document whose leading tag id is not TagCompound.
type NoRootCompoundError struct {
	ID TagID
}

func (e *NoRootCompoundError) Error() string {
	return fmt.Sprintf("nbt: the root tag is not a compound tag, received tag id %d", uint8(e.ID))
}

func (e *NoRootCompoundError) Is(target error) bool { return target == ErrNoRootCompound }

// UnknownTagIDError reports a tag id outside 0..12.
type UnknownTagIDError struct {
	ID TagID
}

func (e *UnknownTagIDError) Error() string {
	return fmt.Sprintf("nbt: encountered an unknown tag id %d", uint8(e.ID))
}

func (e *UnknownTagIDError) Is(target error) bool { return target == ErrUnknownTagID }

// UnsupportedTypeError reports a value shape the format cannot represent.
type UnsupportedTypeError struct {
	Kind string
}

func (e *UnsupportedTypeError) Error() string {
	return "nbt: unsupported type " + e.Kind
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// ListTypeMismatchError reports a list element whose tag id differs from the list's element id.
type ListTypeMismatchError struct {
	Want  TagID
	Got   TagID
	Index int
}

func (e *ListTypeMismatchError) Error() string {
	return fmt.Sprintf("nbt: list element %d has type %s, list holds %s", e.Index, e.Got, e.Want)
}

func (e *ListTypeMismatchError) Is(target error) bool { return target == ErrListTypeMismatch }

// DepthLimitError reports a tree nested deeper than the configured limit.
type DepthLimitError struct {
	Limit int
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("nbt: nesting depth exceeds limit of %d", e.Limit)
}

func (e *DepthLimitError) Is(target error) bool { return target == ErrDepthLimit }
