package serde

import (
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
)

// field describes one serialized struct field.
type field struct {
	name      string
	index     []int
	omitEmpty bool
}

// structInfo is the flattened field list of a struct type under one tag key.
type structInfo struct {
	fields []field
	byName map[string]int
	names  []string
}

type structKey struct {
	t   reflect.Type
	tag string
}

// structCache avoids walking struct types with reflection on every call.
var structCache = xsync.NewMap[structKey, *structInfo]()

func cachedStruct(t reflect.Type, tag string) *structInfo {
	key := structKey{t: t, tag: tag}
	if si, ok := structCache.Load(key); ok {
		return si
	}
	si, _ := structCache.LoadOrStore(key, typeFields(t, tag))
	return si
}

// typeFields lists the fields of t in declaration order. Fields of embedded
// structs without an explicit name are promoted in place; when two fields
// share a name the first one wins.
func typeFields(t reflect.Type, tag string) *structInfo {
	si := &structInfo{byName: make(map[string]int)}
	visited := map[reflect.Type]bool{}

	var walk func(t reflect.Type, index []int)
	walk = func(t reflect.Type, index []int) {
		if visited[t] {
			return
		}
		visited[t] = true
		defer delete(visited, t)

		for i := range t.NumField() {
			sf := t.Field(i)
			name, opts, _ := strings.Cut(sf.Tag.Get(tag), ",")
			if name == "-" && opts == "" {
				continue
			}
			idx := append(index[:len(index):len(index)], i)

			if sf.Anonymous && name == "" {
				ft := sf.Type
				if ft.Kind() == reflect.Pointer {
					if !sf.IsExported() {
						continue
					}
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					walk(ft, idx)
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}
			if name == "" {
				name = sf.Name
			}
			if _, dup := si.byName[name]; dup {
				continue
			}
			si.byName[name] = len(si.fields)
			si.fields = append(si.fields, field{
				name:      name,
				index:     idx,
				omitEmpty: hasOption(opts, "omitempty"),
			})
			si.names = append(si.names, name)
		}
	}
	walk(t, nil)
	return si
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == want {
			return true
		}
	}
	return false
}

// fieldByIndex follows index from v, reporting false when it passes
// through a nil embedded pointer.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// fieldByIndexAlloc is fieldByIndex for decoding: nil embedded pointers on
// the path are allocated.
func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
