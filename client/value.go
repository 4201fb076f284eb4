package client

import (
	"fmt"
	"reflect"

	"github.com/anoideaopen/mbean/core/reflectx"
	"github.com/anoideaopen/mbean/core/resource"
)

// Value is a result as it came over the wire.
type Value struct {
	text string
}

// String returns the text form: strings verbatim, everything else JSON.
func (v Value) String() string {
	return v.text
}

// IsNull reports whether the result was nil or absent.
func (v Value) IsNull() bool {
	return v.text == "null"
}

// Decode stores the value in the variable out points to.
func (v Value) Decode(out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: decode target must be a non-nil pointer, got %T", resource.ErrTypeMismatch, out)
	}

	decoded, err := reflectx.ValueOf(v.text, rv.Type().Elem())
	if err != nil {
		return fmt.Errorf("%w: %w", resource.ErrTypeMismatch, err)
	}

	rv.Elem().Set(decoded)
	return nil
}

// As decodes v into a T.
func As[T any](v Value) (T, error) {
	var out T
	err := v.Decode(&out)
	return out, err
}
