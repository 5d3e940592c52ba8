// Package serde is a small structured-serialization framework. A data format
// implements Serializer and Deserializer; Go values are driven through them
// by Serialize and Deserialize, which walk the value with reflection, or by
// the value itself when it implements Marshaler or Unmarshaler.
//
// The contracts separate what a value looks like (struct, sequence, map,
// scalar) from how a format lays it out in bytes, so a format whose byte
// order differs from the visiting order can keep its own state between calls.
package serde

// Serializer is implemented by data formats. Each method writes one value of
// the named shape. Aggregates return a second-stage serializer that receives
// the children and is closed with End.
type Serializer interface {
	SerializeBool(v bool) error
	SerializeInt8(v int8) error
	SerializeInt16(v int16) error
	SerializeInt32(v int32) error
	SerializeInt64(v int64) error
	SerializeUint8(v uint8) error
	SerializeUint16(v uint16) error
	SerializeUint32(v uint32) error
	SerializeUint64(v uint64) error
	SerializeFloat32(v float32) error
	SerializeFloat64(v float64) error
	SerializeString(v string) error
	SerializeBytes(v []byte) error

	// SerializeNone writes an absent optional value: a nil pointer or a nil
	// interface.
	SerializeNone() error

	// SerializeSeq begins a sequence of exactly n elements.
	SerializeSeq(n int) (SeqSerializer, error)
	// SerializeMap begins a map of n entries.
	SerializeMap(n int) (MapSerializer, error)
	// SerializeStruct begins a struct of at most n fields.
	SerializeStruct(name string, n int) (StructSerializer, error)

	// SerializeNewtypeVariant writes value wrapped in the variant of the
	// enum-like type name. Formats use it for out-of-band framing hints.
	SerializeNewtypeVariant(name, variant string, value any) error
}

// SeqSerializer receives the elements of a sequence.
type SeqSerializer interface {
	SerializeElement(v any) error
	End() error
}

// MapSerializer receives map entries as a key followed by its value.
type MapSerializer interface {
	SerializeKey(k any) error
	SerializeValue(v any) error
	End() error
}

// StructSerializer receives struct fields by name.
type StructSerializer interface {
	SerializeField(name string, v any) error
	End() error
}

// Deserializer is implemented by data formats. Each method tells the format
// what shape the destination expects; the format answers by calling the
// Visitor method that matches what is actually in the input. Self-describing
// formats may forward every hint to DeserializeAny.
type Deserializer interface {
	DeserializeAny(v Visitor) error
	DeserializeBool(v Visitor) error
	DeserializeInt8(v Visitor) error
	DeserializeInt16(v Visitor) error
	DeserializeInt32(v Visitor) error
	DeserializeInt64(v Visitor) error
	DeserializeUint8(v Visitor) error
	DeserializeUint16(v Visitor) error
	DeserializeUint32(v Visitor) error
	DeserializeUint64(v Visitor) error
	DeserializeFloat32(v Visitor) error
	DeserializeFloat64(v Visitor) error
	DeserializeString(v Visitor) error
	DeserializeBytes(v Visitor) error

	// DeserializeOption calls VisitNone or VisitSome.
	DeserializeOption(v Visitor) error
	DeserializeSeq(v Visitor) error
	DeserializeMap(v Visitor) error
	DeserializeStruct(name string, fields []string, v Visitor) error

	// DeserializeIdentifier produces a struct field name or map key.
	DeserializeIdentifier(v Visitor) error
	// DeserializeIgnoredAny consumes the next value without materializing it.
	DeserializeIgnoredAny(v Visitor) error
}

// Visitor receives decoded values. Embed BaseVisitor to reject every shape
// the destination does not handle.
type Visitor interface {
	// Expecting describes what the visitor accepts, for error messages.
	Expecting() string

	VisitBool(v bool) error
	VisitInt8(v int8) error
	VisitInt16(v int16) error
	VisitInt32(v int32) error
	VisitInt64(v int64) error
	VisitUint64(v uint64) error
	VisitFloat32(v float32) error
	VisitFloat64(v float64) error
	VisitString(v string) error
	VisitBytes(v []byte) error
	VisitNone() error
	VisitSome(d Deserializer) error
	VisitSeq(s SeqAccess) error
	VisitMap(m MapAccess) error
}

// Seed decodes one value from d into wherever the caller chose.
type Seed func(d Deserializer) error

// SeqAccess hands out sequence elements one at a time.
type SeqAccess interface {
	// NextElement decodes the next element with seed. It reports false,
	// without calling seed, once the sequence is exhausted.
	NextElement(seed Seed) (bool, error)
	// SizeHint returns the number of remaining elements, or -1 if unknown.
	SizeHint() int
}

// PackedSeqAccess is a SeqAccess over a packed array rather than a general
// list. Packed returns the format-specific element kind.
type PackedSeqAccess interface {
	SeqAccess
	Packed() string
}

// MapAccess hands out map entries one at a time.
type MapAccess interface {
	// NextKey decodes the next key with seed. It reports false, without
	// calling seed, once the map is exhausted.
	NextKey(seed Seed) (bool, error)
	// NextValue decodes the value for the key returned by the last NextKey.
	NextValue(seed Seed) error
}

// Marshaler is implemented by types that describe themselves to a Serializer.
type Marshaler interface {
	SerializeTo(s Serializer) error
}

// Unmarshaler is implemented by types that decode themselves from a Deserializer.
type Unmarshaler interface {
	DeserializeFrom(d Deserializer) error
}

// StructTagger is optionally implemented by a Serializer or Deserializer to
// choose the struct tag key the reflection driver reads field options from.
type StructTagger interface {
	StructTag() string
}

// DefaultTagKey is the struct tag key used when a format does not implement
// StructTagger.
const DefaultTagKey = "serde"

func tagKeyOf(x any) string {
	if t, ok := x.(StructTagger); ok {
		if k := t.StructTag(); k != "" {
			return k
		}
	}
	return DefaultTagKey
}
