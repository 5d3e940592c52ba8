package nbt

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Cursor is a zero-copy sequential reader over an immutable byte slice.
// Every bounds violation is reported as a typed error; a Cursor never panics
// on malformed input and never reads past its slice.
type Cursor struct {
	b   []byte
	pos int
}

// NewCursor creates a Cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Position returns the number of bytes consumed so far.
func (c *Cursor) Position() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.b) - c.pos }

// HasRemaining reports whether any unread bytes are left.
func (c *Cursor) HasRemaining() bool { return c.pos < len(c.b) }

// Bytes returns the unread portion of the underlying slice without copying.
func (c *Cursor) Bytes() []byte { return c.b[c.pos:] }

// Read returns the next n bytes as a slice borrowed from the underlying
// buffer and advances past them. The returned slice must not be modified.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, &NotEnoughBytesError{Requested: n, Available: c.Remaining()}
	}
	s := c.b[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return s, nil
}

// ReadOwned is like Read but returns a copy the caller may keep and modify.
func (c *Cursor) ReadOwned(n int) ([]byte, error) {
	s, err := c.Read(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, s)
	return out, nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		return &InvalidSkipError{Amount: n, Available: c.Remaining()}
	}
	c.pos += n
	return nil
}

// --- Big-endian scalar reads ---

func (c *Cursor) U8() (uint8, error) {
	if c.pos >= len(c.b) {
		return 0, &NotEnoughBytesError{Requested: 1, Available: 0}
	}
	v := c.b[c.pos]
	c.pos++
	return v, nil
}

func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

func (c *Cursor) U16() (uint16, error) {
	s, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return Order.Uint16(s), nil
}

func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

func (c *Cursor) U32() (uint32, error) {
	s, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return Order.Uint32(s), nil
}

func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

func (c *Cursor) U64() (uint64, error) {
	s, err := c.Read(8)
	if err != nil {
		return 0, err
	}
	return Order.Uint64(s), nil
}

func (c *Cursor) I64() (int64, error) {
	v, err := c.U64()
	return int64(v), err
}

func (c *Cursor) F32() (float32, error) {
	v, err := c.U32()
	return math.Float32frombits(v), err
}

func (c *Cursor) F64() (float64, error) {
	v, err := c.U64()
	return math.Float64frombits(v), err
}

// TagID reads a single tag id byte. The id is not validated.
func (c *Cursor) TagID() (TagID, error) {
	v, err := c.U8()
	return TagID(v), err
}

// Length reads an i32 length prefix and rejects negative values.
func (c *Cursor) Length() (int, error) {
	n, err := c.I32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrNegativeLength
	}
	return int(n), nil
}

// String reads a u16 length-prefixed modified UTF-8 string.
func (c *Cursor) String() (string, error) {
	n, err := c.U16()
	if err != nil {
		return "", err
	}
	s, err := c.Read(int(n))
	if err != nil {
		return "", err
	}
	return decodeMUTF8(s)
}

// SkipString skips a u16 length-prefixed string without decoding it.
func (c *Cursor) SkipString() error {
	n, err := c.U16()
	if err != nil {
		return err
	}
	return c.Skip(int(n))
}

// readArray reads count fixed-width big-endian elements of width size.
// The total length is checked up front so a hostile count cannot trigger a
// huge allocation.
func readArray[T constraints.Integer](c *Cursor, count, size int, decode func([]byte) T) ([]T, error) {
	if count > c.Remaining()/size {
		return nil, &NotEnoughBytesError{Requested: count * size, Available: c.Remaining()}
	}
	s, _ := c.Read(count * size)
	out := make([]T, count)
	for i := range out {
		out[i] = decode(s[i*size:])
	}
	return out, nil
}
