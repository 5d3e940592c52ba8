package serde

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

var marshalerType = reflect.TypeFor[Marshaler]()

// Serialize drives v through s. Values implementing Marshaler describe
// themselves; everything else is walked with reflection:
//
//   - bool, sized integers, floats and strings map to the matching method;
//     int and uint map to the 64-bit methods
//   - []byte and [N]byte map to SerializeBytes
//   - other slices and arrays map to SerializeSeq; a nil slice is empty
//   - maps with string keys map to SerializeMap, keys in sorted order
//   - structs map to SerializeStruct with the fields chosen by struct tags
//   - nil pointers and nil interfaces map to SerializeNone
//
// Struct tags are read under the key returned by the format's StructTag
// method, or DefaultTagKey. The tag value is "name,omitempty" or "-".
func Serialize(s Serializer, v any) error {
	return serializeValue(s, reflect.ValueOf(v))
}

func serializeValue(s Serializer, v reflect.Value) error {
	if !v.IsValid() {
		return s.SerializeNone()
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return s.SerializeNone()
		}
	}
	if v.Type().Implements(marshalerType) {
		return v.Interface().(Marshaler).SerializeTo(s)
	}
	if reflect.PointerTo(v.Type()).Implements(marshalerType) {
		if !v.CanAddr() {
			p := reflect.New(v.Type())
			p.Elem().Set(v)
			v = p.Elem()
		}
		return v.Addr().Interface().(Marshaler).SerializeTo(s)
	}

	switch v.Kind() {
	case reflect.Bool:
		return s.SerializeBool(v.Bool())
	case reflect.Int8:
		return s.SerializeInt8(int8(v.Int()))
	case reflect.Int16:
		return s.SerializeInt16(int16(v.Int()))
	case reflect.Int32:
		return s.SerializeInt32(int32(v.Int()))
	case reflect.Int64, reflect.Int:
		return s.SerializeInt64(v.Int())
	case reflect.Uint8:
		return s.SerializeUint8(uint8(v.Uint()))
	case reflect.Uint16:
		return s.SerializeUint16(uint16(v.Uint()))
	case reflect.Uint32:
		return s.SerializeUint32(uint32(v.Uint()))
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return s.SerializeUint64(v.Uint())
	case reflect.Float32:
		return s.SerializeFloat32(float32(v.Float()))
	case reflect.Float64:
		return s.SerializeFloat64(v.Float())
	case reflect.String:
		return s.SerializeString(v.String())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return s.SerializeBytes(v.Bytes())
		}
		return serializeSeq(s, v)
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			return s.SerializeBytes(b)
		}
		return serializeSeq(s, v)
	case reflect.Map:
		return serializeMap(s, v)
	case reflect.Struct:
		return serializeStruct(s, v)
	case reflect.Pointer, reflect.Interface:
		return serializeValue(s, v.Elem())
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedKind, v.Type())
}

func serializeSeq(s Serializer, v reflect.Value) error {
	seq, err := s.SerializeSeq(v.Len())
	if err != nil {
		return err
	}
	for i := range v.Len() {
		if err := seq.SerializeElement(v.Index(i).Interface()); err != nil {
			return err
		}
	}
	return seq.End()
}

func serializeMap(s Serializer, v reflect.Value) error {
	if v.Type().Key().Kind() != reflect.String {
		return Errorf("map key type %s is not a string", v.Type().Key())
	}
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})
	m, err := s.SerializeMap(len(keys))
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := m.SerializeKey(k.String()); err != nil {
			return err
		}
		if err := m.SerializeValue(v.MapIndex(k).Interface()); err != nil {
			return err
		}
	}
	return m.End()
}

func serializeStruct(s Serializer, v reflect.Value) error {
	si := cachedStruct(v.Type(), tagKeyOf(s))
	st, err := s.SerializeStruct(v.Type().Name(), len(si.fields))
	if err != nil {
		return err
	}
	for _, f := range si.fields {
		fv, ok := fieldByIndex(v, f.index)
		if !ok || (f.omitEmpty && isEmptyValue(fv)) {
			continue
		}
		if err := st.SerializeField(f.name, fv.Interface()); err != nil {
			return err
		}
	}
	return st.End()
}
