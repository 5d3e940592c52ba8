package nbt

import (
	"encoding"
	"io"
)

// Sizer is an interface for types that can report their binary size.
// This is useful for pre-allocating buffers before encoding.
type Sizer interface {
	// Size returns the size of the type in bytes when binary encoded.
	Size() int
}

// Marshaler defines the methods for encoding a document into a byte stream.
type Marshaler interface {
	// encoding.BinaryMarshaler allocates and returns a new byte slice.
	encoding.BinaryMarshaler
	// io.WriterTo streams the encoding without building the whole slice first.
	io.WriterTo

	// MarshalTo encodes into a pre-allocated buffer, returning
	// io.ErrShortWrite if the buffer is too small.
	MarshalTo(buf []byte) (int, error)
}

// Unmarshaler defines the methods for decoding a document from a byte stream.
type Unmarshaler interface {
	encoding.BinaryUnmarshaler
	io.ReaderFrom
}

// Codec aggregates all binary serialization and deserialization interfaces.
// Document and NetworkDocument implement it for the two root framings.
type Codec interface {
	Sizer
	Marshaler
	Unmarshaler
}
