package reflectx

import (
	"encoding/json"
	"reflect"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const jsonNull = "null"

// Encode renders v in the text form understood by ValueOf.
//
// Strings are passed through verbatim, BytesEncoder and proto.Message values encode themselves
// (the latter with protojson), everything else is JSON. A nil v encodes as "null".
func Encode(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return jsonNull, nil
	case string:
		return val, nil
	case BytesEncoder:
		raw, err := val.EncodeToBytes()
		return string(raw), err
	case proto.Message:
		raw, err := protojson.Marshal(val)
		return string(raw), err
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.String {
		return rv.Elem().String(), nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}
