package nbt

import (
	"bytes"
	"io"

	"github.com/oy3o/nbt/serde"
)

// ArrayVariant is the enum name the encoder recognizes in
// SerializeNewtypeVariant. Its variants "byte", "int" and "long" frame the
// wrapped sequence as ByteArray, IntArray or LongArray instead of a List.
const ArrayVariant = "nbt_array"

// encState says what must be written before the next value's payload. NBT
// puts a value's type id in front of its name or list header, so the header
// is only known once the value arrives.
type encState uint8

const (
	// stateRoot: the next aggregate is the root compound.
	stateRoot encState = iota
	// stateNamed: write [id][name] before the payload.
	stateNamed
	// stateMapKey: the next value is a map key and must be a string.
	stateMapKey
	// stateFirstListElement: write [id][i32 len] before the payload.
	stateFirstListElement
	// stateListElement: the header is out; the id must match the list's.
	stateListElement
	// stateArray: the next sequence is a packed array.
	stateArray
	// stateArrayElement: elements of a packed array, payload only.
	stateArrayElement
)

// Encoder writes Go values as NBT documents. It implements serde.Serializer
// and carries the header state between calls. An Encoder is not safe for
// concurrent use.
type Encoder struct {
	w   *Writer
	err error

	state    encState
	root     string // root name
	hasName  bool   // root name is written
	name     string // pending compound entry name
	list     *listSerializer
	array    TagID    // packed array id in stateArray and stateArrayElement
	outer    encState // state that frames the packed array header
	depth    int
	maxDepth int
}

var _ serde.Serializer = (*Encoder)(nil)

// NewEncoder returns an encoder writing named documents with an empty
// root name to w.
func NewEncoder(w io.Writer) *Encoder {
	e := &Encoder{hasName: true}
	e.w, e.err = NewWriter(w)
	return e
}

// NewNetworkEncoder returns an encoder writing unnamed (network) documents to w.
func NewNetworkEncoder(w io.Writer) *Encoder {
	e := NewEncoder(w)
	e.hasName = false
	return e
}

// WithName sets the root name and switches to the named framing.
func (e *Encoder) WithName(name string) *Encoder {
	e.root, e.hasName = name, true
	return e
}

// WithMaxDepth bounds the nesting of compounds and lists.
func (e *Encoder) WithMaxDepth(n int) *Encoder {
	e.maxDepth = n
	return e
}

func (e *Encoder) depthLimit() int {
	if e.maxDepth <= 0 {
		return DefaultMaxDepth
	}
	return e.maxDepth
}

// StructTag makes the reflection driver read `nbt:"..."` struct tags.
func (e *Encoder) StructTag() string { return "nbt" }

// Encode writes v as one document. v must encode as a compound: a struct,
// a map with string keys, a *Compound or a Document. Bytes written before an
// error are not rolled back.
func (e *Encoder) Encode(v any) error {
	if e.err != nil {
		return e.err
	}
	e.state, e.list, e.depth = stateRoot, nil, 0
	if err := serde.Serialize(e, v); err != nil {
		e.err = err
		return err
	}
	if _, err := e.w.Result(); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Marshal encodes v as a named document with an empty root name.
func Marshal(v any) ([]byte, error) {
	return marshal(v, "", true)
}

// MarshalNamed encodes v as a named document with the given root name.
func MarshalNamed(name string, v any) ([]byte, error) {
	return marshal(v, name, true)
}

// MarshalUnnamed encodes v as a network document.
func MarshalUnnamed(v any) ([]byte, error) {
	return marshal(v, "", false)
}

func marshal(v any, name string, named bool) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	e := NewNetworkEncoder(buf)
	if named {
		e.WithName(name)
	}
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// header writes whatever the current state requires in front of a payload
// of type id.
func (e *Encoder) header(id TagID) error {
	switch e.state {
	case stateRoot:
		if id != TagCompound {
			return &NoRootCompoundError{ID: id}
		}
		e.w.WriteTagID(id)
		if e.hasName {
			e.w.WriteNBTString(e.root)
		}
	case stateNamed:
		e.w.WriteTagID(id)
		e.w.WriteNBTString(e.name)
	case stateMapKey:
		return serde.Errorf("map key must be a string, not %s", id)
	case stateFirstListElement:
		e.w.WriteTagID(id)
		e.w.WriteLength(e.list.n)
		e.list.elem = id
		e.state = stateListElement
	case stateListElement:
		if id != e.list.elem {
			return &ListTypeMismatchError{Want: e.list.elem, Got: id, Index: e.list.i}
		}
	case stateArray:
		return serde.Errorf("%s wrapper needs a sequence, got %s", ArrayVariant, id)
	case stateArrayElement:
		if want := arrayElem(e.array); id != want {
			return serde.Errorf("%s element must be %s, got %s", e.array, want, id)
		}
	}
	return e.w.Err()
}

func (e *Encoder) enter() error {
	e.depth++
	if e.depth > e.depthLimit() {
		return &DepthLimitError{Limit: e.depthLimit()}
	}
	return nil
}

// --- Scalars ---

func (e *Encoder) SerializeBool(v bool) error { return e.SerializeInt8(int8(Bool(v))) }

func (e *Encoder) SerializeInt8(v int8) error {
	if err := e.header(TagByte); err != nil {
		return err
	}
	e.w.WriteInt8(v)
	return e.w.Err()
}

func (e *Encoder) SerializeInt16(v int16) error {
	if err := e.header(TagShort); err != nil {
		return err
	}
	e.w.WriteInt16(v)
	return e.w.Err()
}

func (e *Encoder) SerializeInt32(v int32) error {
	if err := e.header(TagInt); err != nil {
		return err
	}
	e.w.WriteInt32(v)
	return e.w.Err()
}

func (e *Encoder) SerializeInt64(v int64) error {
	if err := e.header(TagLong); err != nil {
		return err
	}
	e.w.WriteInt64(v)
	return e.w.Err()
}

// SerializeUint8 writes a Byte with the same bits.
func (e *Encoder) SerializeUint8(v uint8) error { return e.SerializeInt8(int8(v)) }

func (e *Encoder) SerializeUint16(uint16) error { return &UnsupportedTypeError{Kind: "uint16"} }
func (e *Encoder) SerializeUint32(uint32) error { return &UnsupportedTypeError{Kind: "uint32"} }
func (e *Encoder) SerializeUint64(uint64) error { return &UnsupportedTypeError{Kind: "uint64"} }

func (e *Encoder) SerializeFloat32(v float32) error {
	if err := e.header(TagFloat); err != nil {
		return err
	}
	e.w.WriteFloat32(v)
	return e.w.Err()
}

func (e *Encoder) SerializeFloat64(v float64) error {
	if err := e.header(TagDouble); err != nil {
		return err
	}
	e.w.WriteFloat64(v)
	return e.w.Err()
}

func (e *Encoder) SerializeString(v string) error {
	if e.state == stateMapKey {
		e.name, e.state = v, stateNamed
		return nil
	}
	if err := e.header(TagString); err != nil {
		return err
	}
	e.w.WriteNBTString(v)
	return e.w.Err()
}

// SerializeBytes is only valid inside the byte array wrapper; a bare []byte
// has no NBT shape of its own.
func (e *Encoder) SerializeBytes(v []byte) error {
	if e.state != stateArray || e.array != TagByteArray {
		return &UnsupportedTypeError{Kind: "bytes"}
	}
	return e.packed(TagByteArray, len(v), func() { _, _ = e.w.Write(v) })
}

// SerializeNone omits a compound entry. Lists cannot hold absent values and
// the root must be a compound.
func (e *Encoder) SerializeNone() error {
	switch e.state {
	case stateNamed:
		return nil
	case stateRoot:
		return &NoRootCompoundError{ID: TagEnd}
	}
	return &UnsupportedTypeError{Kind: "nil value outside a compound"}
}

// --- Packed arrays ---

func arrayKind(variant string) (TagID, bool) {
	switch variant {
	case "byte":
		return TagByteArray, true
	case "int":
		return TagIntArray, true
	case "long":
		return TagLongArray, true
	}
	return 0, false
}

func arrayElem(id TagID) TagID {
	switch id {
	case TagByteArray:
		return TagByte
	case TagIntArray:
		return TagInt
	}
	return TagLong
}

// SerializeNewtypeVariant accepts only the ArrayVariant wrapper, which frames
// value as a packed array.
func (e *Encoder) SerializeNewtypeVariant(name, variant string, value any) error {
	if name != ArrayVariant {
		return &UnsupportedTypeError{Kind: "newtype variant " + name + "::" + variant}
	}
	id, ok := arrayKind(variant)
	if !ok {
		return serde.Errorf("%s supports only byte, int and long, not %q", ArrayVariant, variant)
	}
	if e.state == stateMapKey {
		return serde.Errorf("map key must be a string, not %s", id)
	}
	e.outer, e.array, e.state = e.state, id, stateArray

	switch s := value.(type) {
	case []byte:
		if id == TagByteArray {
			return e.packed(id, len(s), func() { _, _ = e.w.Write(s) })
		}
	case []int32:
		if id == TagIntArray {
			return e.packed(id, len(s), func() {
				writeArray(e.w, s, 4, func(b []byte, x int32) { Order.PutUint32(b, uint32(x)) })
			})
		}
	case []int64:
		if id == TagLongArray {
			return e.packed(id, len(s), func() {
				writeArray(e.w, s, 8, func(b []byte, x int64) { Order.PutUint64(b, uint64(x)) })
			})
		}
	}
	return serde.Serialize(e, value)
}

// packed writes a whole packed array in one go.
func (e *Encoder) packed(id TagID, n int, body func()) error {
	e.state = e.outer
	if err := e.header(id); err != nil {
		return err
	}
	e.w.WriteLength(n)
	body()
	return e.w.Err()
}

// --- Aggregates ---

func (e *Encoder) SerializeSeq(n int) (serde.SeqSerializer, error) {
	if e.state == stateArray {
		id := e.array
		e.state = e.outer
		if err := e.header(id); err != nil {
			return nil, err
		}
		e.w.WriteLength(n)
		return &arraySerializer{e: e, id: id, n: n}, e.w.Err()
	}

	if err := e.header(TagList); err != nil {
		return nil, err
	}
	if err := e.enter(); err != nil {
		return nil, err
	}
	ls := &listSerializer{e: e, n: n, parent: e.list}
	if n == 0 {
		// no element will arrive to trigger the header
		e.w.WriteTagID(TagEnd)
		e.w.WriteLength(0)
	}
	return ls, e.w.Err()
}

func (e *Encoder) SerializeMap(n int) (serde.MapSerializer, error) {
	return e.compound()
}

func (e *Encoder) SerializeStruct(name string, n int) (serde.StructSerializer, error) {
	return e.compound()
}

func (e *Encoder) compound() (*compoundSerializer, error) {
	if err := e.header(TagCompound); err != nil {
		return nil, err
	}
	if err := e.enter(); err != nil {
		return nil, err
	}
	return &compoundSerializer{e: e}, nil
}

type listSerializer struct {
	e      *Encoder
	n      int   // declared length
	i      int   // elements written
	elem   TagID // element id, set by the first element
	parent *listSerializer
}

func (l *listSerializer) SerializeElement(v any) error {
	if l.i >= l.n {
		return serde.Errorf("sequence declared %d elements but got more", l.n)
	}
	e := l.e
	e.list = l
	if l.i == 0 {
		e.state = stateFirstListElement
	} else {
		e.state = stateListElement
	}
	if err := serde.Serialize(e, v); err != nil {
		return err
	}
	l.i++
	return nil
}

func (l *listSerializer) End() error {
	if l.i != l.n {
		return serde.Errorf("sequence declared %d elements but got %d", l.n, l.i)
	}
	l.e.list = l.parent
	l.e.depth--
	return nil
}

type arraySerializer struct {
	e  *Encoder
	id TagID
	n  int
	i  int
}

func (a *arraySerializer) SerializeElement(v any) error {
	if a.i >= a.n {
		return serde.Errorf("%s declared %d elements but got more", a.id, a.n)
	}
	e := a.e
	e.state, e.array = stateArrayElement, a.id
	if err := serde.Serialize(e, v); err != nil {
		return err
	}
	a.i++
	return nil
}

func (a *arraySerializer) End() error {
	if a.i != a.n {
		return serde.Errorf("%s declared %d elements but got %d", a.id, a.n, a.i)
	}
	return nil
}

type compoundSerializer struct {
	e *Encoder
}

func (c *compoundSerializer) SerializeField(name string, v any) error {
	c.e.state, c.e.name = stateNamed, name
	return serde.Serialize(c.e, v)
}

func (c *compoundSerializer) SerializeKey(k any) error {
	c.e.state = stateMapKey
	if err := serde.Serialize(c.e, k); err != nil {
		return err
	}
	if c.e.state != stateNamed {
		return serde.Errorf("map key did not serialize as a string")
	}
	return nil
}

func (c *compoundSerializer) SerializeValue(v any) error {
	if c.e.state != stateNamed {
		return serde.Errorf("map value without a key")
	}
	return serde.Serialize(c.e, v)
}

func (c *compoundSerializer) End() error {
	c.e.w.WriteTagID(TagEnd)
	c.e.depth--
	return c.e.w.Err()
}
