package reflectx

import (
	"context"
	"fmt"
	"reflect"
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// PanicError reports a panic raised by a reflectively called function.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Call invokes fn with the prepared arguments in and returns its results as plain values.
//
// If the last result of fn is an error it is split off: a non-nil error is returned as err
// and the remaining results are dropped; a nil error is removed from results. A panic inside
// fn is recovered and returned as *PanicError. Variadic functions receive their last argument
// as the slice itself.
//
// Example:
//
//	type Counter struct{ n int }
//
//	func (c *Counter) Add(delta int) (int, error) {
//	    c.n += delta
//	    return c.n, nil
//	}
//
//	results, err := Call(reflect.ValueOf(&Counter{}).MethodByName("Add"), []reflect.Value{reflect.ValueOf(2)})
//	// results == []any{2}, err == nil
func Call(fn reflect.Value, in []reflect.Value) (results []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			results, err = nil, &PanicError{Value: r}
		}
	}()

	fnType := fn.Type()

	var out []reflect.Value
	if fnType.IsVariadic() {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}

	if n := fnType.NumOut(); n > 0 && IsErrorType(fnType.Out(n-1)) {
		if errValue := out[n-1]; !errValue.IsNil() {
			return nil, errValue.Interface().(error) //nolint:forcetypeassert
		}
		out = out[:n-1]
	}

	results = make([]any, len(out))
	for i, res := range out {
		results[i] = res.Interface()
	}

	return results, nil
}
