package serde

import (
	"fmt"
	"math"
	"reflect"

	"golang.org/x/exp/constraints"
)

var unmarshalerType = reflect.TypeFor[Unmarshaler]()

// Deserialize decodes from d into the value v points to, the inverse of
// Serialize. Struct fields missing from the input keep their values and
// input fields with no matching struct field are skipped. Empty sequences
// decode to empty, non-nil slices.
func Deserialize(d Deserializer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return Errorf("Deserialize requires a non-nil pointer, got %T", v)
	}
	return deserializeValue(d, rv.Elem())
}

func deserializeValue(d Deserializer, v reflect.Value) error {
	t := v.Type()
	if fn, ok := decoders.Load(t); ok {
		x, err := fn(d)
		if err != nil {
			return err
		}
		if x == nil {
			v.SetZero()
		} else {
			v.Set(reflect.ValueOf(x))
		}
		return nil
	}
	if t.Kind() == reflect.Pointer && t.Implements(unmarshalerType) {
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return v.Interface().(Unmarshaler).DeserializeFrom(d)
	}
	if v.CanAddr() && reflect.PointerTo(t).Implements(unmarshalerType) {
		return v.Addr().Interface().(Unmarshaler).DeserializeFrom(d)
	}

	switch t.Kind() {
	case reflect.Bool:
		return d.DeserializeBool(boolVisitor{BaseVisitor{"a bool"}, v})
	case reflect.Int8:
		return d.DeserializeInt8(numberVisitor{BaseVisitor{"an integer"}, v})
	case reflect.Int16:
		return d.DeserializeInt16(numberVisitor{BaseVisitor{"an integer"}, v})
	case reflect.Int32:
		return d.DeserializeInt32(numberVisitor{BaseVisitor{"an integer"}, v})
	case reflect.Int64, reflect.Int:
		return d.DeserializeInt64(numberVisitor{BaseVisitor{"an integer"}, v})
	case reflect.Uint8:
		return d.DeserializeUint8(numberVisitor{BaseVisitor{"an unsigned integer"}, v})
	case reflect.Uint16:
		return d.DeserializeUint16(numberVisitor{BaseVisitor{"an unsigned integer"}, v})
	case reflect.Uint32:
		return d.DeserializeUint32(numberVisitor{BaseVisitor{"an unsigned integer"}, v})
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return d.DeserializeUint64(numberVisitor{BaseVisitor{"an unsigned integer"}, v})
	case reflect.Float32:
		return d.DeserializeFloat32(numberVisitor{BaseVisitor{"a float"}, v})
	case reflect.Float64:
		return d.DeserializeFloat64(numberVisitor{BaseVisitor{"a float"}, v})
	case reflect.String:
		return d.DeserializeString(stringVisitor{BaseVisitor{"a string"}, v})
	case reflect.Slice:
		return d.DeserializeSeq(sliceVisitor{BaseVisitor{"a sequence"}, v})
	case reflect.Array:
		return d.DeserializeSeq(arrayVisitor{BaseVisitor{fmt.Sprintf("a sequence of %d elements", t.Len())}, v})
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Errorf("map key type %s is not a string", t.Key())
		}
		return d.DeserializeMap(mapVisitor{BaseVisitor{"a map"}, v})
	case reflect.Struct:
		si := cachedStruct(t, tagKeyOf(d))
		return d.DeserializeStruct(t.Name(), si.names, structVisitor{BaseVisitor{"struct " + t.String()}, v, si})
	case reflect.Pointer:
		return d.DeserializeOption(optionVisitor{BaseVisitor{"an optional value"}, v})
	case reflect.Interface:
		if t.NumMethod() > 0 {
			return Errorf("no decoder registered for interface %s", t)
		}
		return d.DeserializeAny(anyVisitor{BaseVisitor{"any value"}, v})
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedKind, t)
}

// --- Scalars ---

type boolVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (b boolVisitor) VisitBool(x bool) error {
	b.v.SetBool(x)
	return nil
}

// VisitInt8 accepts the byte form formats without a bool type use.
func (b boolVisitor) VisitInt8(x int8) error {
	b.v.SetBool(x != 0)
	return nil
}

type numberVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (n numberVisitor) VisitInt8(x int8) error       { return setSigned(n, x) }
func (n numberVisitor) VisitInt16(x int16) error     { return setSigned(n, x) }
func (n numberVisitor) VisitInt32(x int32) error     { return setSigned(n, x) }
func (n numberVisitor) VisitInt64(x int64) error     { return setSigned(n, x) }
func (n numberVisitor) VisitUint64(x uint64) error   { return setUnsigned(n, x) }
func (n numberVisitor) VisitFloat32(x float32) error { return setFloat(n, x) }
func (n numberVisitor) VisitFloat64(x float64) error { return setFloat(n, x) }

func overflow(v reflect.Value, x any) error {
	return Errorf("value %v overflows %s", x, v.Type())
}

func setSigned[T constraints.Signed](n numberVisitor, x T) error {
	v, i := n.v, int64(x)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.OverflowInt(i) {
			return overflow(v, x)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if i < 0 {
			// a signed byte carries a uint8 bit for bit
			if _, isByte := any(x).(int8); isByte && v.Kind() == reflect.Uint8 {
				v.SetUint(uint64(uint8(i)))
				return nil
			}
			return overflow(v, x)
		}
		if v.OverflowUint(uint64(i)) {
			return overflow(v, x)
		}
		v.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(float64(i))
	}
	return nil
}

func setUnsigned[T constraints.Unsigned](n numberVisitor, x T) error {
	v, u := n.v, uint64(x)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if u > math.MaxInt64 || v.OverflowInt(int64(u)) {
			return overflow(v, x)
		}
		v.SetInt(int64(u))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.OverflowUint(u) {
			return overflow(v, x)
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		v.SetFloat(float64(u))
	}
	return nil
}

func setFloat[T constraints.Float](n numberVisitor, x T) error {
	v, f := n.v, float64(x)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		if v.OverflowFloat(f) {
			return overflow(v, x)
		}
		v.SetFloat(f)
		return nil
	}
	return n.fail(fmt.Sprintf("float %v", x))
}

type stringVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (s stringVisitor) VisitString(x string) error {
	s.v.SetString(x)
	return nil
}

func (s stringVisitor) VisitBytes(x []byte) error {
	s.v.SetString(string(x))
	return nil
}

// --- Aggregates ---

type sliceVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (s sliceVisitor) VisitSeq(seq SeqAccess) error {
	t := s.v.Type()
	out := reflect.MakeSlice(t, 0, max(seq.SizeHint(), 0))
	for {
		elem := reflect.New(t.Elem()).Elem()
		ok, err := seq.NextElement(func(d Deserializer) error {
			return deserializeValue(d, elem)
		})
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		out = reflect.Append(out, elem)
	}
	s.v.Set(out)
	return nil
}

func (s sliceVisitor) VisitBytes(x []byte) error {
	if s.v.Type().Elem().Kind() != reflect.Uint8 {
		return s.fail("bytes")
	}
	out := reflect.MakeSlice(s.v.Type(), len(x), len(x))
	for i, b := range x {
		out.Index(i).SetUint(uint64(b))
	}
	s.v.Set(out)
	return nil
}

type arrayVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (a arrayVisitor) VisitSeq(seq SeqAccess) error {
	i := 0
	for ; ; i++ {
		if i >= a.v.Len() {
			ok, err := seq.NextElement(ignore)
			if err != nil {
				return err
			}
			if ok {
				return Errorf("too many elements for %s", a.v.Type())
			}
			return nil
		}
		elem := a.v.Index(i)
		ok, err := seq.NextElement(func(d Deserializer) error {
			return deserializeValue(d, elem)
		})
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	for ; i < a.v.Len(); i++ {
		a.v.Index(i).SetZero()
	}
	return nil
}

type mapVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (mv mapVisitor) VisitMap(m MapAccess) error {
	t := mv.v.Type()
	if mv.v.IsNil() {
		mv.v.Set(reflect.MakeMap(t))
	}
	for {
		key := reflect.New(t.Key()).Elem()
		ok, err := m.NextKey(func(d Deserializer) error {
			return d.DeserializeIdentifier(stringVisitor{BaseVisitor{"a map key"}, key})
		})
		if err != nil || !ok {
			return err
		}
		val := reflect.New(t.Elem()).Elem()
		if err := m.NextValue(func(d Deserializer) error {
			return deserializeValue(d, val)
		}); err != nil {
			return err
		}
		mv.v.SetMapIndex(key, val)
	}
}

type structVisitor struct {
	BaseVisitor
	v  reflect.Value
	si *structInfo
}

func (sv structVisitor) VisitMap(m MapAccess) error {
	// the first occurrence of a name wins, as in a compound
	seen := make([]bool, len(sv.si.fields))
	for {
		var name string
		ok, err := m.NextKey(func(d Deserializer) error {
			return d.DeserializeIdentifier(identVisitor{BaseVisitor{"a field name"}, &name})
		})
		if err != nil || !ok {
			return err
		}
		i, known := sv.si.byName[name]
		if !known || seen[i] {
			if err := m.NextValue(ignore); err != nil {
				return err
			}
			continue
		}
		seen[i] = true
		f := fieldByIndexAlloc(sv.v, sv.si.fields[i].index)
		if err := m.NextValue(func(d Deserializer) error {
			return deserializeValue(d, f)
		}); err != nil {
			return err
		}
	}
}

type identVisitor struct {
	BaseVisitor
	name *string
}

func (iv identVisitor) VisitString(x string) error {
	*iv.name = x
	return nil
}

func (iv identVisitor) VisitBytes(x []byte) error {
	*iv.name = string(x)
	return nil
}

type optionVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (o optionVisitor) VisitNone() error {
	o.v.SetZero()
	return nil
}

func (o optionVisitor) VisitSome(d Deserializer) error {
	if o.v.IsNil() {
		o.v.Set(reflect.New(o.v.Type().Elem()))
	}
	return deserializeValue(d, o.v.Elem())
}

// anyVisitor fills an empty interface with the natural Go form of whatever
// the input holds: sized numbers, string, []byte, []any or map[string]any.
type anyVisitor struct {
	BaseVisitor
	v reflect.Value
}

func (a anyVisitor) set(x any) error {
	a.v.Set(reflect.ValueOf(x))
	return nil
}

func (a anyVisitor) VisitBool(x bool) error       { return a.set(x) }
func (a anyVisitor) VisitInt8(x int8) error       { return a.set(x) }
func (a anyVisitor) VisitInt16(x int16) error     { return a.set(x) }
func (a anyVisitor) VisitInt32(x int32) error     { return a.set(x) }
func (a anyVisitor) VisitInt64(x int64) error     { return a.set(x) }
func (a anyVisitor) VisitUint64(x uint64) error   { return a.set(x) }
func (a anyVisitor) VisitFloat32(x float32) error { return a.set(x) }
func (a anyVisitor) VisitFloat64(x float64) error { return a.set(x) }
func (a anyVisitor) VisitString(x string) error   { return a.set(x) }
func (a anyVisitor) VisitBytes(x []byte) error    { return a.set(append([]byte(nil), x...)) }

func (a anyVisitor) VisitNone() error {
	a.v.SetZero()
	return nil
}

func (a anyVisitor) VisitSome(d Deserializer) error {
	return deserializeValue(d, a.v)
}

func (a anyVisitor) VisitSeq(seq SeqAccess) error {
	var out []any
	if err := (sliceVisitor{a.BaseVisitor, reflect.ValueOf(&out).Elem()}).VisitSeq(seq); err != nil {
		return err
	}
	return a.set(out)
}

func (a anyVisitor) VisitMap(m MapAccess) error {
	out := map[string]any{}
	if err := (mapVisitor{a.BaseVisitor, reflect.ValueOf(&out).Elem()}).VisitMap(m); err != nil {
		return err
	}
	return a.set(out)
}
