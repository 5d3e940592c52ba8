package nbt

import "strconv"

// TagID is the one-byte discriminant that identifies a tag's variant on the wire.
type TagID uint8

const (
	TagEnd TagID = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var tagNames = [...]string{
	TagEnd:       "End",
	TagByte:      "Byte",
	TagShort:     "Short",
	TagInt:       "Int",
	TagLong:      "Long",
	TagFloat:     "Float",
	TagDouble:    "Double",
	TagByteArray: "ByteArray",
	TagString:    "String",
	TagList:      "List",
	TagCompound:  "Compound",
	TagIntArray:  "IntArray",
	TagLongArray: "LongArray",
}

func (id TagID) String() string {
	if id.Valid() {
		return tagNames[id]
	}
	return "TagID(" + strconv.Itoa(int(id)) + ")"
}

// Valid reports whether id is one of the 13 known tag ids.
func (id TagID) Valid() bool { return id <= TagLongArray }

// fixedSize returns the payload width of fixed-size scalar tags, or 0.
func (id TagID) fixedSize() int {
	switch id {
	case TagByte:
		return 1
	case TagShort:
		return 2
	case TagInt, TagFloat:
		return 4
	case TagLong, TagDouble:
		return 8
	}
	return 0
}

// Tag is one of the 13 tag variants: End, Byte, Short, Int, Long, Float,
// Double, ByteArray, String, List, *Compound, IntArray and LongArray.
// The set is closed.
type Tag interface {
	// ID returns the variant's fixed type id.
	ID() TagID
	tag()
}

type (
	// End terminates a compound on the wire. It carries no payload.
	End       struct{}
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	// List is an ordered sequence of tags that all share the id of the first
	// element. An empty list has element id TagEnd.
	List      []Tag
	IntArray  []int32
	LongArray []int64
)

func (End) ID() TagID       { return TagEnd }
func (Byte) ID() TagID      { return TagByte }
func (Short) ID() TagID     { return TagShort }
func (Int) ID() TagID       { return TagInt }
func (Long) ID() TagID      { return TagLong }
func (Float) ID() TagID     { return TagFloat }
func (Double) ID() TagID    { return TagDouble }
func (ByteArray) ID() TagID { return TagByteArray }
func (String) ID() TagID    { return TagString }
func (List) ID() TagID      { return TagList }
func (*Compound) ID() TagID { return TagCompound }
func (IntArray) ID() TagID  { return TagIntArray }
func (LongArray) ID() TagID { return TagLongArray }

func (End) tag()       {}
func (Byte) tag()      {}
func (Short) tag()     {}
func (Int) tag()       {}
func (Long) tag()      {}
func (Float) tag()     {}
func (Double) tag()    {}
func (ByteArray) tag() {}
func (String) tag()    {}
func (List) tag()      {}
func (*Compound) tag() {}
func (IntArray) tag()  {}
func (LongArray) tag() {}

// Bool returns Byte(1) for true and Byte(0) for false.
func Bool(v bool) Byte {
	if v {
		return 1
	}
	return 0
}

// ElemID returns the element id of the list: the id of its first element,
// or TagEnd when the list is empty.
func (l List) ElemID() TagID {
	if len(l) == 0 || l[0] == nil {
		return TagEnd
	}
	return l[0].ID()
}

// Validate checks that every element carries the list's element id.
func (l List) Validate() error {
	want := l.ElemID()
	for i, t := range l {
		if t == nil {
			return &ListTypeMismatchError{Want: want, Got: TagEnd, Index: i}
		}
		if got := t.ID(); got != want {
			return &ListTypeMismatchError{Want: want, Got: got, Index: i}
		}
		if want == TagEnd {
			return &UnsupportedTypeError{Kind: "End tag as list element"}
		}
	}
	return nil
}

// NewList builds a List from elems, rejecting mixed element types.
func NewList(elems ...Tag) (List, error) {
	l := List(elems)
	if l == nil {
		l = List{}
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// --- Variant extractors ---

func AsByte(t Tag) (int8, bool) {
	v, ok := t.(Byte)
	return int8(v), ok
}

func AsShort(t Tag) (int16, bool) {
	v, ok := t.(Short)
	return int16(v), ok
}

func AsInt(t Tag) (int32, bool) {
	v, ok := t.(Int)
	return int32(v), ok
}

func AsLong(t Tag) (int64, bool) {
	v, ok := t.(Long)
	return int64(v), ok
}

func AsFloat(t Tag) (float32, bool) {
	v, ok := t.(Float)
	return float32(v), ok
}

func AsDouble(t Tag) (float64, bool) {
	v, ok := t.(Double)
	return float64(v), ok
}

// AsBool reports a Byte as a boolean, nonzero meaning true.
func AsBool(t Tag) (bool, bool) {
	v, ok := t.(Byte)
	return v != 0, ok
}

func AsByteArray(t Tag) ([]byte, bool) {
	v, ok := t.(ByteArray)
	return v, ok
}

func AsString(t Tag) (string, bool) {
	v, ok := t.(String)
	return string(v), ok
}

func AsList(t Tag) (List, bool) {
	v, ok := t.(List)
	return v, ok
}

func AsCompound(t Tag) (*Compound, bool) {
	v, ok := t.(*Compound)
	return v, ok && v != nil
}

func AsIntArray(t Tag) ([]int32, bool) {
	v, ok := t.(IntArray)
	return v, ok
}

func AsLongArray(t Tag) ([]int64, bool) {
	v, ok := t.(LongArray)
	return v, ok
}
