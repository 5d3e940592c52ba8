package nbt

import (
	"github.com/oy3o/nbt/serde"
)

// Decoder reads NBT documents into Go values. It implements
// serde.Deserializer.
//
// NBT only reveals a value's type through the id byte in front of it, so the
// decoder remembers the last id it read and dispatches on it when the
// destination asks for a value. Inside a compound the id is followed by the
// entry name; key reports that the name has not been produced yet, so both
// the identifier and the string request paths yield it.
type Decoder struct {
	c     *Cursor
	named bool

	tag    TagID // id of the value about to be produced
	hasTag bool  // false until the root header is read
	key    bool  // the next request produces a compound entry name

	depth    int
	maxDepth int
}

var _ serde.Deserializer = (*Decoder)(nil)

// NewDecoder returns a decoder for named documents in data. The root name is
// read and discarded.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{c: NewCursor(data), named: true}
}

// NewNetworkDecoder returns a decoder for unnamed (network) documents in data.
func NewNetworkDecoder(data []byte) *Decoder {
	return &Decoder{c: NewCursor(data)}
}

// WithMaxDepth bounds the nesting of compounds and lists.
func (d *Decoder) WithMaxDepth(n int) *Decoder {
	d.maxDepth = n
	return d
}

func (d *Decoder) depthLimit() int {
	if d.maxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.maxDepth
}

// StructTag makes the reflection driver read `nbt:"..."` struct tags.
func (d *Decoder) StructTag() string { return "nbt" }

// Remaining returns the number of bytes not yet consumed.
func (d *Decoder) Remaining() int { return d.c.Remaining() }

// Decode reads the next document into the value v points to. It can be
// called repeatedly to read back-to-back documents.
func (d *Decoder) Decode(v any) error {
	d.hasTag, d.key, d.depth = false, false, 0
	return serde.Deserialize(d, v)
}

// Unmarshal decodes a named document from data into v.
func Unmarshal(data []byte, v any) error {
	return NewDecoder(data).Decode(v)
}

// UnmarshalUnnamed decodes a network document from data into v.
func UnmarshalUnnamed(data []byte, v any) error {
	return NewNetworkDecoder(data).Decode(v)
}

// readRoot consumes [Compound id] and, in named mode, the root name.
func (d *Decoder) readRoot() error {
	id, err := d.c.TagID()
	if err != nil {
		return err
	}
	if id != TagCompound {
		return &NoRootCompoundError{ID: id}
	}
	if d.named {
		if err := d.c.SkipString(); err != nil {
			return err
		}
	}
	d.tag, d.hasTag = TagCompound, true
	return nil
}

// fieldName produces the pending compound entry name.
func (d *Decoder) fieldName(v serde.Visitor) error {
	d.key = false
	name, err := d.c.String()
	if err != nil {
		return err
	}
	return v.VisitString(name)
}

func (d *Decoder) enter() error {
	d.depth++
	if d.depth > d.depthLimit() {
		return &DepthLimitError{Limit: d.depthLimit()}
	}
	return nil
}

// DeserializeAny dispatches on the remembered tag id.
func (d *Decoder) DeserializeAny(v serde.Visitor) error {
	if d.key {
		return d.fieldName(v)
	}
	if !d.hasTag {
		return d.DeserializeMap(v)
	}
	c := d.c
	switch d.tag {
	case TagByte:
		x, err := c.I8()
		if err != nil {
			return err
		}
		return v.VisitInt8(x)
	case TagShort:
		x, err := c.I16()
		if err != nil {
			return err
		}
		return v.VisitInt16(x)
	case TagInt:
		x, err := c.I32()
		if err != nil {
			return err
		}
		return v.VisitInt32(x)
	case TagLong:
		x, err := c.I64()
		if err != nil {
			return err
		}
		return v.VisitInt64(x)
	case TagFloat:
		x, err := c.F32()
		if err != nil {
			return err
		}
		return v.VisitFloat32(x)
	case TagDouble:
		x, err := c.F64()
		if err != nil {
			return err
		}
		return v.VisitFloat64(x)
	case TagString:
		x, err := c.String()
		if err != nil {
			return err
		}
		return v.VisitString(x)
	case TagList:
		return d.visitList(v)
	case TagCompound:
		return d.visitCompound(v)
	case TagByteArray, TagIntArray, TagLongArray:
		return d.visitArray(v)
	case TagEnd:
		return serde.Errorf("unexpected End tag where a value was expected")
	}
	return &UnknownTagIDError{ID: d.tag}
}

// DeserializeBool reads a Byte as nonzero-is-true. Any other tag at a bool
// site yields false; its payload is skipped so decoding stays aligned.
func (d *Decoder) DeserializeBool(v serde.Visitor) error {
	if d.key || !d.hasTag {
		return d.DeserializeAny(v)
	}
	if d.tag == TagByte {
		x, err := d.c.I8()
		if err != nil {
			return err
		}
		return v.VisitBool(x != 0)
	}
	if err := skipPayload(d.c, d.tag, d.depthLimit(), d.depth); err != nil {
		return err
	}
	return v.VisitBool(false)
}

func (d *Decoder) DeserializeInt8(v serde.Visitor) error    { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeInt16(v serde.Visitor) error   { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeInt32(v serde.Visitor) error   { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeInt64(v serde.Visitor) error   { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeUint8(v serde.Visitor) error   { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeUint16(v serde.Visitor) error  { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeUint32(v serde.Visitor) error  { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeUint64(v serde.Visitor) error  { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeFloat32(v serde.Visitor) error { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeFloat64(v serde.Visitor) error { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeString(v serde.Visitor) error  { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeBytes(v serde.Visitor) error   { return d.DeserializeAny(v) }
func (d *Decoder) DeserializeSeq(v serde.Visitor) error     { return d.DeserializeAny(v) }

// DeserializeIdentifier produces the pending entry name; it is the same
// operation as DeserializeString while a name is pending.
func (d *Decoder) DeserializeIdentifier(v serde.Visitor) error { return d.DeserializeAny(v) }

// DeserializeOption always reports a present value: NBT has no null, an
// absent entry simply does not appear in its compound.
func (d *Decoder) DeserializeOption(v serde.Visitor) error {
	if d.key {
		return d.fieldName(v)
	}
	return v.VisitSome(d)
}

// DeserializeMap reads the root compound header on first use and otherwise
// visits the remembered tag.
func (d *Decoder) DeserializeMap(v serde.Visitor) error {
	if !d.hasTag && !d.key {
		if err := d.readRoot(); err != nil {
			return err
		}
		return d.visitCompound(v)
	}
	return d.DeserializeAny(v)
}

func (d *Decoder) DeserializeStruct(name string, fields []string, v serde.Visitor) error {
	return d.DeserializeMap(v)
}

// DeserializeIgnoredAny skips the next name or payload without decoding it.
func (d *Decoder) DeserializeIgnoredAny(serde.Visitor) error {
	if d.key {
		d.key = false
		return d.c.SkipString()
	}
	if !d.hasTag {
		if err := d.readRoot(); err != nil {
			return err
		}
	}
	return skipPayload(d.c, d.tag, d.depthLimit(), d.depth)
}

// --- Compounds ---

func (d *Decoder) visitCompound(v serde.Visitor) error {
	if err := d.enter(); err != nil {
		return err
	}
	a := &compoundAccess{d: d}
	if err := v.VisitMap(a); err != nil {
		return err
	}
	if err := a.drain(); err != nil {
		return err
	}
	d.depth--
	return nil
}

// compoundAccess walks [id][name][payload] entries until End.
type compoundAccess struct {
	d    *Decoder
	tag  TagID
	done bool
}

func (a *compoundAccess) NextKey(seed serde.Seed) (bool, error) {
	if a.done {
		return false, nil
	}
	d := a.d
	id, err := d.c.TagID()
	if err != nil {
		return false, err
	}
	if id == TagEnd {
		a.done = true
		return false, nil
	}
	if !id.Valid() {
		return false, &UnknownTagIDError{ID: id}
	}
	a.tag = id
	d.tag, d.hasTag, d.key = id, true, true
	if err := seed(d); err != nil {
		return false, err
	}
	if d.key {
		// the seed did not consume the name
		d.key = false
		if err := d.c.SkipString(); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (a *compoundAccess) NextValue(seed serde.Seed) error {
	d := a.d
	d.tag, d.key = a.tag, false
	return seed(d)
}

// drain skips entries the visitor did not ask for.
func (a *compoundAccess) drain() error {
	for !a.done {
		ok, err := a.NextKey(func(d serde.Deserializer) error { return nil })
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := skipPayload(a.d.c, a.tag, a.d.depthLimit(), a.d.depth); err != nil {
			return err
		}
	}
	return nil
}

// --- Lists and packed arrays ---

func (d *Decoder) visitList(v serde.Visitor) error {
	if err := d.enter(); err != nil {
		return err
	}
	elem, n, err := readListHeader(d.c)
	if err != nil {
		return err
	}
	a := &listAccess{d: d, elem: elem, remaining: n}
	if err := v.VisitSeq(a); err != nil {
		return err
	}
	if err := a.drain(); err != nil {
		return err
	}
	d.depth--
	return nil
}

func (d *Decoder) visitArray(v serde.Visitor) error {
	id := d.tag
	n, err := d.c.Length()
	if err != nil {
		return err
	}
	elem := arrayElem(id)
	if width := elem.fixedSize(); n > d.c.Remaining()/width {
		return &NotEnoughBytesError{Requested: n * width, Available: d.c.Remaining()}
	}
	a := &arrayAccess{listAccess{d: d, elem: elem, remaining: n}, id}
	if err := v.VisitSeq(a); err != nil {
		return err
	}
	return a.drain()
}

// listAccess hands out the elements of a list whose header was read up
// front; remaining counts down to zero.
type listAccess struct {
	d         *Decoder
	elem      TagID
	remaining int
}

func (a *listAccess) NextElement(seed serde.Seed) (bool, error) {
	if a.remaining == 0 {
		return false, nil
	}
	a.remaining--
	d := a.d
	d.tag, d.hasTag, d.key = a.elem, true, false
	return true, seed(d)
}

// SizeHint never exceeds the unread byte count, so a hostile length cannot
// force a large allocation.
func (a *listAccess) SizeHint() int {
	return min(a.remaining, a.d.c.Remaining())
}

func (a *listAccess) drain() error {
	for ; a.remaining > 0; a.remaining-- {
		if err := skipPayload(a.d.c, a.elem, a.d.depthLimit(), a.d.depth); err != nil {
			return err
		}
	}
	return nil
}

type arrayAccess struct {
	listAccess
	id TagID
}

var _ serde.PackedSeqAccess = (*arrayAccess)(nil)

// Packed returns "byte", "int" or "long", the variant names the encoder
// accepts for ArrayVariant.
func (a *arrayAccess) Packed() string {
	switch a.id {
	case TagByteArray:
		return "byte"
	case TagIntArray:
		return "int"
	}
	return "long"
}
