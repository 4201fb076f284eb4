package resource

import (
	"context"
	"fmt"
	"reflect"

	"github.com/anoideaopen/mbean/core/bean"
	"github.com/anoideaopen/mbean/core/reflectx"
	"github.com/anoideaopen/mbean/core/stringsx"
)

// Wrapper publishes every attribute and operation of a target object.
// All calls act on the live target, which is never copied.
type Wrapper struct {
	identity Identity
	target   any
	recv     reflect.Value
	model    *bean.Model
	hidden   []string
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithHidden keeps the named attributes and operations out of the wrapper.
func WithHidden(members ...string) Option {
	return func(w *Wrapper) {
		w.hidden = append(w.hidden, members...)
	}
}

// New wraps target under identity. An empty object name defaults to the
// target's type name. Errors wrapping bean.ErrDescriptorBuild mean the target
// cannot be published at all.
func New(target any, identity Identity, opts ...Option) (*Wrapper, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", ErrInvalidIdentity)
	}
	if identity.Domain == "" {
		return nil, fmt.Errorf("%w: empty domain", ErrInvalidIdentity)
	}
	if identity.ObjectName == "" {
		identity.ObjectName = DefaultObjectName(target)
	}

	recv := reflect.ValueOf(target)
	model, err := bean.ModelOf(recv.Type())
	if err != nil {
		return nil, err
	}

	w := &Wrapper{
		identity: identity,
		target:   target,
		recv:     recv,
		model:    model,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// MustNew is like New but panics on error.
func MustNew(target any, identity Identity, opts ...Option) *Wrapper {
	w, err := New(target, identity, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

func (w *Wrapper) Identity() Identity {
	return w.identity
}

func (w *Wrapper) Target() any {
	return w.target
}

func (w *Wrapper) Model() *bean.Model {
	return w.model
}

func (w *Wrapper) isHidden(name string) bool {
	return len(w.hidden) > 0 && stringsx.OneOf(name, w.hidden...)
}

// Attribute returns the descriptor of a published attribute.
func (w *Wrapper) Attribute(name string) (*bean.AttributeDescriptor, error) {
	attr, ok := w.model.Attribute(name)
	if !ok || w.isHidden(name) {
		return nil, fmt.Errorf("%w: %s in %s", ErrAttributeNotFound, name, w.identity)
	}
	return attr, nil
}

// Operation returns the descriptor of a published operation.
func (w *Wrapper) Operation(name string, arity int) (*bean.OperationDescriptor, error) {
	op, ok := w.model.Operation(name, arity)
	if !ok || w.isHidden(name) {
		if arities := w.model.Arities(name); len(arities) > 0 && !w.isHidden(name) {
			return nil, fmt.Errorf("%w: %s/%d in %s, published with %v arguments",
				ErrOperationNotFound, name, arity, w.identity, arities)
		}
		return nil, fmt.Errorf("%w: %s/%d in %s", ErrOperationNotFound, name, arity, w.identity)
	}
	return op, nil
}

// GetAttribute reads the current value of an attribute.
func (w *Wrapper) GetAttribute(name string) (any, error) {
	attr, err := w.Attribute(name)
	if err != nil {
		return nil, err
	}
	if !attr.Readable() {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotReadable, name, w.identity)
	}

	v, err := attr.Get(w.recv)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrInvocationFailed, name, err)
	}
	return v, nil
}

// SetAttribute writes value, which must be assignable to the setter's parameter type.
func (w *Wrapper) SetAttribute(name string, value any) error {
	attr, err := w.Attribute(name)
	if err != nil {
		return err
	}
	if !attr.Writable() {
		return fmt.Errorf("%w: %s in %s", ErrNotWritable, name, w.identity)
	}

	v, err := assignable(value, attr.SetterType())
	if err != nil {
		return fmt.Errorf("%w: attribute %s: %w", ErrTypeMismatch, name, err)
	}

	if err = attr.Set(w.recv, v); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrInvocationFailed, name, err)
	}
	return nil
}

// InvokeOperation calls the operation name published with len(args) parameters.
// It returns nil for operations without results, the value for a single result
// and []any for several. ctx reaches operations whose first parameter is a context.
func (w *Wrapper) InvokeOperation(ctx context.Context, name string, args ...any) (any, error) {
	op, err := w.Operation(name, len(args))
	if err != nil {
		return nil, err
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if in[i], err = assignable(arg, op.ParamTypes[i]); err != nil {
			return nil, fmt.Errorf("%w: operation %s argument %d: %w", ErrTypeMismatch, name, i, err)
		}
	}

	results, err := op.Invoke(ctx, w.recv, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvocationFailed, name, err)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// ListAttributes returns the attributes sorted by name.
func (w *Wrapper) ListAttributes() []bean.AttributeInfo {
	attrs := w.model.Attributes()
	infos := make([]bean.AttributeInfo, 0, len(attrs))
	for _, attr := range attrs {
		if w.isHidden(attr.Name) {
			continue
		}
		infos = append(infos, attr.Info())
	}
	return infos
}

// ListOperations returns the operations sorted by name, then arity.
func (w *Wrapper) ListOperations() []bean.OperationInfo {
	ops := w.model.Operations()
	infos := make([]bean.OperationInfo, 0, len(ops))
	for _, op := range ops {
		if w.isHidden(op.Name) {
			continue
		}
		infos = append(infos, op.Info())
	}
	return infos
}

func assignable(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		if reflectx.Nilable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a valid %s", t)
	}

	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
	}
	return v, nil
}
