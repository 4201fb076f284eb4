package reflectx

import (
	"reflect"
)

// Methods returns the exported methods of t in the order reflect reports them, which is
// sorted by name. Unexported methods never appear in a method set obtained through reflection.
func Methods(t reflect.Type) []reflect.Method {
	methods := make([]reflect.Method, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		if !method.IsExported() {
			continue
		}
		methods = append(methods, method)
	}

	return methods
}

// IsErrorType reports whether t is the error interface.
func IsErrorType(t reflect.Type) bool {
	return t == errorType
}

// IsContextType reports whether t is context.Context.
func IsContextType(t reflect.Type) bool {
	return t == contextType
}

// Nilable reports whether the zero value of a t can be nil.
func Nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
