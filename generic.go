package nbt

import (
	"encoding"
	"fmt"
	"io"
)

// MarshalBinaryGeneric provides a generic `encoding.BinaryMarshaler` implementation
// for types that know their exact encoded size.
func MarshalBinaryGeneric[T interface {
	Size() int
	io.WriterTo
}](v T) ([]byte, error) {
	expectedSize := v.Size()
	w := NewBytesWriter(make([]byte, expectedSize))
	n, err := v.WriteTo(w)
	if err != nil {
		return nil, err
	}
	if n < int64(expectedSize) {
		return nil, fmt.Errorf("%w: expected at least %d bytes, but write %d", ErrTruncatedData, expectedSize, n)
	}
	return w.Bytes(), nil
}

// MaxStreamSize bounds how many bytes ReadFromGeneric buffers from a stream.
const MaxStreamSize = 64 << 20

// ReadFromGeneric provides a generic, non-streaming `io.ReaderFrom` implementation.
// WARNING: This is NOT a streaming implementation. It reads the entire `io.Reader`
// into a pooled buffer before unmarshalling, and refuses streams longer than MaxStreamSize.
func ReadFromGeneric[T encoding.BinaryUnmarshaler](v T, r io.Reader) (int64, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	n, err := buf.ReadFrom(io.LimitReader(r, MaxStreamSize+1))
	if err != nil {
		return n, err
	}
	if n > MaxStreamSize {
		return n, fmt.Errorf("%w: stream exceeds %d bytes", ErrStreamTooLarge, MaxStreamSize)
	}
	return n, v.UnmarshalBinary(buf.Bytes())
}

// MarshalToGeneric provides a fallback implementation for the MarshalTo method.
func MarshalToGeneric[T interface {
	Size() int
	io.WriterTo
}](v T, p []byte) (int, error) {
	size := v.Size()
	if len(p) < size {
		return 0, io.ErrShortWrite
	}
	w := NewBytesWriter(p)
	n, err := v.WriteTo(w)
	if err != nil {
		return int(n), err
	}
	if n < int64(size) {
		return int(n), io.ErrShortWrite
	}
	return int(n), nil
}
