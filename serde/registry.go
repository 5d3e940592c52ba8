package serde

import (
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// DecodeFunc decodes one value of a registered type.
type DecodeFunc func(d Deserializer) (any, error)

var decoders = xsync.NewMap[reflect.Type, DecodeFunc]()

// RegisterDecoder makes Deserialize use fn for every destination of type T.
// It is how a format teaches the driver to fill interface types it defines.
// Registering T again replaces the earlier function.
func RegisterDecoder[T any](fn func(d Deserializer) (T, error)) {
	decoders.Store(reflect.TypeFor[T](), func(d Deserializer) (any, error) {
		return fn(d)
	})
}
