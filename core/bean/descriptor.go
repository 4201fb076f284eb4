package bean

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/anoideaopen/mbean/core/reflectx"
)

// Source tells where an attribute accessor comes from.
type Source int

const (
	SourceField Source = iota
	SourceMethod
)

func (s Source) String() string {
	if s == SourceMethod {
		return "method"
	}
	return "field"
}

var errNilReceiver = errors.New("nil receiver")

// handle is a getter or setter of an attribute.
type handle struct {
	source Source
	index  int   // method index in the method set
	field  []int // field index path
	name   string
	typ    reflect.Type
}

func (h *handle) get(recv reflect.Value) (any, error) {
	if h.source == SourceMethod {
		results, err := reflectx.Call(recv.Method(h.index), nil)
		if err != nil {
			return nil, err
		}
		return results[0], nil
	}

	f, err := fieldOf(recv, h.field)
	if err != nil {
		return nil, err
	}
	return f.Interface(), nil
}

func (h *handle) set(recv reflect.Value, v reflect.Value) error {
	if h.source == SourceMethod {
		_, err := reflectx.Call(recv.Method(h.index), []reflect.Value{v})
		return err
	}

	f, err := fieldOf(recv, h.field)
	if err != nil {
		return err
	}
	if !f.CanSet() {
		return fmt.Errorf("field %s is not settable", h.name)
	}
	f.Set(v)
	return nil
}

func fieldOf(recv reflect.Value, index []int) (reflect.Value, error) {
	if recv.Kind() == reflect.Pointer {
		if recv.IsNil() {
			return reflect.Value{}, errNilReceiver
		}
		recv = recv.Elem()
	}
	return recv.FieldByIndexErr(index)
}

// AttributeDescriptor describes a named attribute with at most one getter and one setter.
// Type is the getter's type when there is a getter, the setter's otherwise.
type AttributeDescriptor struct {
	Name string
	Type reflect.Type

	getter *handle
	setter *handle
}

func (a *AttributeDescriptor) Readable() bool { return a.getter != nil }

func (a *AttributeDescriptor) Writable() bool { return a.setter != nil }

// SetterType returns the parameter type of the setter, nil for read-only attributes.
func (a *AttributeDescriptor) SetterType() reflect.Type {
	if a.setter == nil {
		return nil
	}
	return a.setter.typ
}

// Source reports where the getter comes from, or the setter for write-only attributes.
func (a *AttributeDescriptor) Source() Source {
	if a.getter != nil {
		return a.getter.source
	}
	return a.setter.source
}

// Get reads the attribute from recv, which must be a value of the model's type.
func (a *AttributeDescriptor) Get(recv reflect.Value) (any, error) {
	if a.getter == nil {
		return nil, fmt.Errorf("attribute %s has no getter", a.Name)
	}
	return a.getter.get(recv)
}

// Set writes v, already of SetterType, to the attribute of recv.
func (a *AttributeDescriptor) Set(recv reflect.Value, v reflect.Value) error {
	if a.setter == nil {
		return fmt.Errorf("attribute %s has no setter", a.Name)
	}
	return a.setter.set(recv, v)
}

func (a *AttributeDescriptor) Info() AttributeInfo {
	return AttributeInfo{
		Name:     a.Name,
		Type:     a.Type.String(),
		Readable: a.Readable(),
		Writable: a.Writable(),
	}
}

// OperationDescriptor describes a method published as an operation.
// ParamTypes exclude the injected context, ReturnTypes exclude the trailing error.
type OperationDescriptor struct {
	Name         string
	MethodName   string
	Arity        int
	ParamTypes   []reflect.Type
	ReturnTypes  []reflect.Type
	ReturnsError bool
	TakesContext bool
	Variadic     bool

	index int
}

// Invoke calls the operation on recv. args must already match ParamTypes; for
// variadic operations the last argument is the slice. ctx is passed on only to
// operations that take a context.
func (o *OperationDescriptor) Invoke(ctx context.Context, recv reflect.Value, args []reflect.Value) ([]any, error) {
	in := args
	if o.TakesContext {
		if ctx == nil {
			ctx = context.Background()
		}
		in = make([]reflect.Value, 0, len(args)+1)
		in = append(in, reflect.ValueOf(ctx))
		in = append(in, args...)
	}

	return reflectx.Call(recv.Method(o.index), in)
}

func (o *OperationDescriptor) Info() OperationInfo {
	info := OperationInfo{
		Name:  o.Name,
		Arity: o.Arity,
	}
	for _, p := range o.ParamTypes {
		info.Params = append(info.Params, p.String())
	}

	switch len(o.ReturnTypes) {
	case 0:
	case 1:
		info.Returns = o.ReturnTypes[0].String()
	default:
		names := make([]string, len(o.ReturnTypes))
		for i, r := range o.ReturnTypes {
			names[i] = r.String()
		}
		info.Returns = "(" + strings.Join(names, ", ") + ")"
	}

	return info
}

// AttributeInfo is the summary of an attribute sent to remote clients.
type AttributeInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Readable bool   `json:"readable"`
	Writable bool   `json:"writable"`
}

// OperationInfo is the summary of an operation sent to remote clients.
type OperationInfo struct {
	Name    string   `json:"name"`
	Arity   int      `json:"arity"`
	Params  []string `json:"params,omitempty"`
	Returns string   `json:"returns,omitempty"`
}
