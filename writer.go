package nbt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/exp/constraints"
)

// WriterPro is the sink a Writer drives: byte, string and slice writes plus
// a flush hook for buffered destinations.
type WriterPro interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
	Size() int
	Flush() error
}

// Writer is the big-endian sink every encoder in this package writes to.
// It tracks the first error that occurs; after an error all subsequent
// writes become no-ops, so encoders can write a whole tree and check once.
// Bytes already handed to the destination are not rolled back on error.
type Writer struct {
	w     WriterPro
	count int64 // total bytes written
	err   error // first error encountered
	depth int
	order binary.ByteOrder
	buf   []byte // scratch for modified UTF-8 conversion

	maxDepth int // nesting limit for tag trees, 0 means DefaultMaxDepth
}

var _ WriterPro = (*Writer)(nil)

// NewWriterSize creates a new Writer with a specified buffer size.
// It returns an error to prevent double-buffering.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}

	switch bw := w.(type) {
	// Reuse the underlying sink if it's already a Writer; only the outermost flushes.
	case *Writer:
		return &Writer{w: bw.w, depth: bw.depth + 1, order: Order}, nil

	case *bufio.Writer:
		if bw.Size() >= size {
			return &Writer{w: bw, depth: 1, order: Order}, nil
		}
		return nil, ErrAlreadyBuffered

	// in-memory sinks need no buffering
	case *BytesWriter:
		return &Writer{w: bw, order: Order}, nil
	case *bytes.Buffer:
		return &Writer{w: &bytesBufferWriterAdapter{bw}, order: Order}, nil
	}

	return &Writer{w: bufio.NewWriterSize(w, size), order: Order}, nil
}

// NewWriter creates a new Writer with a default buffer size.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, 0)
}

// WithMaxDepth sets the nesting limit enforced when writing tag trees and
// returns the Writer for chaining.
func (w *Writer) WithMaxDepth(n int) *Writer {
	w.maxDepth = n
	return w
}

func (w *Writer) depthLimit() int {
	if w.maxDepth <= 0 {
		return DefaultMaxDepth
	}
	return w.maxDepth
}

// Write implements the io.Writer interface.
func (w *Writer) Write(buf []byte) (int, error) {
	if len(buf) == 0 || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	if n < 0 {
		n, err = 0, ErrInvalidWrite
	}
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// WriteString implements the io.StringWriter interface. The string is
// written as raw bytes; use WriteNBTString for the length-prefixed form.
func (w *Writer) WriteString(str string) (int, error) {
	if str == "" || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.WriteString(str)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

func (w *Writer) WriteByte(v byte) error {
	if w.err != nil {
		return w.err
	}
	err := w.w.WriteByte(v)
	if err == nil {
		w.count++
	} else {
		w.err = err
	}
	return err
}

func (w *Writer) Size() int    { return w.w.Size() }
func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// setError records the first non-nil error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	// Only the outermost writer flushes.
	if w.depth > 0 || w.err != nil {
		return w.err
	}
	err := w.w.Flush()
	w.setError(err)
	return err
}

// --- Primitive Write Operations ---

func (w *Writer) WriteTagID(id TagID) { _ = w.WriteByte(byte(id)) }

func (w *Writer) WriteInt8(v int8) { _ = w.WriteByte(uint8(v)) }

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	w.order.PutUint16(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

func (w *Writer) WriteInt32(v int32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	w.order.PutUint32(buf[:], uint32(v))
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteInt64(v int64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	w.order.PutUint64(buf[:], uint64(v))
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteFloat32(v float32) { w.WriteInt32(int32(math.Float32bits(v))) }

func (w *Writer) WriteFloat64(v float64) { w.WriteInt64(int64(math.Float64bits(v))) }

// WriteLength writes an i32 length prefix.
func (w *Writer) WriteLength(n int) {
	if n > math.MaxInt32 {
		w.setError(&UnsupportedTypeError{Kind: "sequence longer than 2147483647 elements"})
		return
	}
	w.WriteInt32(int32(n))
}

// WriteNBTString writes s as a u16 byte length followed by its modified UTF-8 bytes.
func (w *Writer) WriteNBTString(s string) {
	if w.err != nil {
		return
	}
	if isPlainUTF8(s) {
		if len(s) > math.MaxUint16 {
			w.setError(ErrStringTooLong)
			return
		}
		w.WriteUint16(uint16(len(s)))
		_, _ = w.WriteString(s)
		return
	}
	w.buf = appendMUTF8(w.buf[:0], s)
	if len(w.buf) > math.MaxUint16 {
		w.setError(ErrStringTooLong)
		return
	}
	w.WriteUint16(uint16(len(w.buf)))
	_, _ = w.Write(w.buf)
}

// writeArray writes the elements of s at fixed width size, big-endian.
func writeArray[T constraints.Integer](w *Writer, s []T, size int, put func([]byte, T)) {
	if w.err != nil || len(s) == 0 {
		return
	}
	var buf [512]byte
	per := len(buf) / size
	for len(s) > 0 {
		n := min(per, len(s))
		for i, v := range s[:n] {
			put(buf[i*size:], v)
		}
		if _, err := w.Write(buf[:n*size]); err != nil {
			return
		}
		s = s[n:]
	}
}
