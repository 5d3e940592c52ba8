package nbt

import (
	"github.com/oy3o/nbt/serde"
)

// Tags describe themselves to any serde.Serializer, so tag trees can be
// mixed into Go values and re-encoded by the Encoder. Packed arrays use the
// ArrayVariant wrapper and keep their framing.

func init() {
	serde.RegisterDecoder(decodeTag)
}

func (End) SerializeTo(serde.Serializer) error {
	return &UnsupportedTypeError{Kind: "End tag as a value"}
}

func (v Byte) SerializeTo(s serde.Serializer) error    { return s.SerializeInt8(int8(v)) }
func (v Short) SerializeTo(s serde.Serializer) error   { return s.SerializeInt16(int16(v)) }
func (v Int) SerializeTo(s serde.Serializer) error     { return s.SerializeInt32(int32(v)) }
func (v Long) SerializeTo(s serde.Serializer) error    { return s.SerializeInt64(int64(v)) }
func (v Float) SerializeTo(s serde.Serializer) error   { return s.SerializeFloat32(float32(v)) }
func (v Double) SerializeTo(s serde.Serializer) error  { return s.SerializeFloat64(float64(v)) }
func (v String) SerializeTo(s serde.Serializer) error  { return s.SerializeString(string(v)) }

func (v ByteArray) SerializeTo(s serde.Serializer) error {
	return s.SerializeNewtypeVariant(ArrayVariant, "byte", []byte(v))
}

func (v IntArray) SerializeTo(s serde.Serializer) error {
	return s.SerializeNewtypeVariant(ArrayVariant, "int", []int32(v))
}

func (v LongArray) SerializeTo(s serde.Serializer) error {
	return s.SerializeNewtypeVariant(ArrayVariant, "long", []int64(v))
}

func (v List) SerializeTo(s serde.Serializer) error {
	seq, err := s.SerializeSeq(len(v))
	if err != nil {
		return err
	}
	for _, t := range v {
		if err := seq.SerializeElement(t); err != nil {
			return err
		}
	}
	return seq.End()
}

// SerializeTo writes the entries as a map in insertion order.
func (c *Compound) SerializeTo(s serde.Serializer) error {
	m, err := s.SerializeMap(c.Len())
	if err != nil {
		return err
	}
	for name, t := range c.All() {
		if err := m.SerializeKey(name); err != nil {
			return err
		}
		if err := m.SerializeValue(t); err != nil {
			return err
		}
	}
	return m.End()
}

// DeserializeFrom fills c from a map. Duplicate keys keep the first value.
func (c *Compound) DeserializeFrom(d serde.Deserializer) error {
	tv := &tagVisitor{BaseVisitor: serde.BaseVisitor{Expect: "a compound"}}
	if err := d.DeserializeMap(tv); err != nil {
		return err
	}
	comp, ok := tv.t.(*Compound)
	if !ok {
		got := "nothing"
		if tv.t != nil {
			got = tv.t.ID().String()
		}
		return &serde.InvalidTypeError{Got: got, Expected: tv.Expecting()}
	}
	*c = *comp
	return nil
}

// The packed array types accept both their packed form and a list of the
// matching scalar.

func (a *ByteArray) DeserializeFrom(d serde.Deserializer) error {
	return serde.Deserialize(d, (*[]byte)(a))
}

func (a *IntArray) DeserializeFrom(d serde.Deserializer) error {
	return serde.Deserialize(d, (*[]int32)(a))
}

func (a *LongArray) DeserializeFrom(d serde.Deserializer) error {
	return serde.Deserialize(d, (*[]int64)(a))
}

// SerializeTo writes the root compound; the root name belongs to the
// encoder's framing. A nil Root is an empty compound.
func (doc *Document) SerializeTo(s serde.Serializer) error {
	if doc.Root == nil {
		return (&Compound{}).SerializeTo(s)
	}
	return doc.Root.SerializeTo(s)
}

func (doc *Document) DeserializeFrom(d serde.Deserializer) error {
	root := &Compound{}
	if err := root.DeserializeFrom(d); err != nil {
		return err
	}
	doc.Root = root
	return nil
}

func decodeTag(d serde.Deserializer) (Tag, error) {
	tv := &tagVisitor{BaseVisitor: serde.BaseVisitor{Expect: "an NBT tag"}}
	if err := d.DeserializeAny(tv); err != nil {
		return nil, err
	}
	return tv.t, nil
}

// tagVisitor builds the tag matching whatever value the input holds.
type tagVisitor struct {
	serde.BaseVisitor
	t Tag
}

func (v *tagVisitor) set(t Tag) error {
	v.t = t
	return nil
}

func (v *tagVisitor) VisitBool(x bool) error       { return v.set(Bool(x)) }
func (v *tagVisitor) VisitInt8(x int8) error       { return v.set(Byte(x)) }
func (v *tagVisitor) VisitInt16(x int16) error     { return v.set(Short(x)) }
func (v *tagVisitor) VisitInt32(x int32) error     { return v.set(Int(x)) }
func (v *tagVisitor) VisitInt64(x int64) error     { return v.set(Long(x)) }
func (v *tagVisitor) VisitFloat32(x float32) error { return v.set(Float(x)) }
func (v *tagVisitor) VisitFloat64(x float64) error { return v.set(Double(x)) }
func (v *tagVisitor) VisitString(x string) error   { return v.set(String(x)) }

func (v *tagVisitor) VisitBytes(x []byte) error {
	return v.set(ByteArray(append([]byte{}, x...)))
}

func (v *tagVisitor) VisitSome(d serde.Deserializer) error {
	t, err := decodeTag(d)
	if err != nil {
		return err
	}
	return v.set(t)
}

func (v *tagVisitor) VisitSeq(seq serde.SeqAccess) error {
	if p, ok := seq.(serde.PackedSeqAccess); ok {
		switch p.Packed() {
		case "byte":
			b, err := collect[byte](seq)
			return v.setOr(ByteArray(b), err)
		case "int":
			s, err := collect[int32](seq)
			return v.setOr(IntArray(s), err)
		case "long":
			s, err := collect[int64](seq)
			return v.setOr(LongArray(s), err)
		}
	}
	elems, err := collect[Tag](seq)
	if err != nil {
		return err
	}
	l := List(elems)
	if err := l.Validate(); err != nil {
		return err
	}
	return v.set(l)
}

func (v *tagVisitor) setOr(t Tag, err error) error {
	if err != nil {
		return err
	}
	return v.set(t)
}

func (v *tagVisitor) VisitMap(m serde.MapAccess) error {
	comp := &Compound{}
	for {
		var name string
		ok, err := m.NextKey(func(d serde.Deserializer) error {
			return d.DeserializeIdentifier(&nameVisitor{serde.BaseVisitor{Expect: "an entry name"}, &name})
		})
		if err != nil {
			return err
		}
		if !ok {
			return v.set(comp)
		}
		var t Tag
		if err := m.NextValue(func(d serde.Deserializer) error {
			var err error
			t, err = decodeTag(d)
			return err
		}); err != nil {
			return err
		}
		if t != nil {
			comp.Put(name, t)
		}
	}
}

type nameVisitor struct {
	serde.BaseVisitor
	name *string
}

func (v *nameVisitor) VisitString(x string) error {
	*v.name = x
	return nil
}

// collect decodes every remaining element of seq as a T.
func collect[T any](seq serde.SeqAccess) ([]T, error) {
	out := make([]T, 0, max(seq.SizeHint(), 0))
	for {
		var x T
		ok, err := seq.NextElement(func(d serde.Deserializer) error {
			return serde.Deserialize(d, &x)
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, x)
	}
}
