package reflectx

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ErrInvalidArgumentValue is returned when a text value cannot be converted to the requested type.
var ErrInvalidArgumentValue = errors.New("invalid argument value")

// ValueOf converts the text form of a value to a reflect.Value of type t.
//
// JSON null converts to the nil value of nilable types. Otherwise the conversion follows these steps:
//  1. String kinds and pointers to them take the text verbatim.
//  2. Types implementing BytesDecoder decode the raw bytes themselves.
//  3. Valid JSON is unmarshalled, with protojson for proto.Message types. Numbers,
//     booleans and null are valid JSON too.
//  4. encoding.TextUnmarshaler is tried for valid UTF-8 text.
//  5. Binary protobuf is tried for proto.Message types.
//  6. encoding.BinaryUnmarshaler is tried last.
//
// A ValueError wrapping ErrInvalidArgumentValue is returned if every step fails.
func ValueOf(s string, t reflect.Type) (reflect.Value, error) {
	if s == jsonNull && Nilable(t) {
		return reflect.Zero(t), nil
	}

	argRaw := []byte(s)
	argPointer := t.Kind() == reflect.Pointer

	var (
		argValue reflect.Value
		outValue reflect.Value
	)
	if argPointer {
		argValue = reflect.New(t.Elem())
		outValue = argValue
	} else {
		argValue = reflect.New(t)
		outValue = argValue.Elem()
	}

	switch {
	case t.Kind() == reflect.String:
		outValue.SetString(s)
		return outValue, nil
	case argPointer && t.Elem().Kind() == reflect.String:
		argValue.Elem().SetString(s)
		return outValue, nil
	}

	argInterface := argValue.Interface()

	if decoder, ok := argInterface.(BytesDecoder); ok {
		if err := decoder.DecodeFromBytes(argRaw); err != nil {
			return outValue, NewValueError(s, t, err)
		}

		return outValue, nil
	}

	var lastErr error
	if json.Valid(argRaw) {
		if protoMessage, ok := argInterface.(proto.Message); ok {
			lastErr = protojson.Unmarshal(argRaw, protoMessage)
		} else {
			lastErr = json.Unmarshal(argRaw, argInterface)
		}
		if lastErr == nil {
			return outValue, nil
		}
	}

	if unmarshaler, ok := argInterface.(encoding.TextUnmarshaler); ok && utf8.Valid(argRaw) {
		if err := unmarshaler.UnmarshalText(argRaw); err == nil {
			return outValue, nil
		}
	}

	if protoMessage, ok := argInterface.(proto.Message); ok {
		if err := proto.Unmarshal(argRaw, protoMessage); err == nil {
			return outValue, nil
		}
	}

	if unmarshaler, ok := argInterface.(encoding.BinaryUnmarshaler); ok {
		if err := unmarshaler.UnmarshalBinary(argRaw); err == nil {
			return outValue, nil
		}
	}

	return outValue, NewValueError(s, t, lastErr)
}

// ValueError describes a failed text to value conversion. It matches ErrInvalidArgumentValue
// with errors.Is and unwraps to the decoder error, if any.
type ValueError struct {
	external error
	arg, t   string
}

// Error returns a formatted error message indicating the conversion failure.
func (e ValueError) Error() string {
	if e.external == nil {
		return fmt.Sprintf("%v: '%s': for type '%s'", ErrInvalidArgumentValue, e.arg, e.t)
	}

	return fmt.Sprintf("%v: '%s': for type '%s': '%v'", ErrInvalidArgumentValue, e.arg, e.t, e.external)
}

// Is checks if the target error is ErrInvalidArgumentValue.
func (e ValueError) Is(target error) bool {
	return target == ErrInvalidArgumentValue
}

// Unwrap returns the decoder error, if any.
func (e ValueError) Unwrap() error {
	return e.external
}

// NewValueError constructs an error for an invalid argument value conversion.
func NewValueError(arg string, t reflect.Type, errOrNil error) error {
	return ValueError{
		external: errOrNil,
		arg:      arg,
		t:        t.String(),
	}
}
