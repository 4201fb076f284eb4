package bean

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/anoideaopen/mbean/core/reflectx"
	"github.com/anoideaopen/mbean/core/stringsx"
	"github.com/sirupsen/logrus"
)

const (
	tagName     = "mbean"
	tagWritable = "writable"
	tagSkip     = "-"

	prefixGet = "Get"
	prefixIs  = "Is"
	prefixSet = "Set"
)

type builder struct {
	t          reflect.Type
	iface      bool
	attributes map[string]*AttributeDescriptor
	operations map[OperationKey]*OperationDescriptor
	log        logrus.FieldLogger
}

func newBuilder(t reflect.Type, log logrus.FieldLogger) *builder {
	return &builder{
		t:          t,
		iface:      t.Kind() == reflect.Interface,
		attributes: make(map[string]*AttributeDescriptor),
		operations: make(map[OperationKey]*OperationDescriptor),
		log:        log,
	}
}

func (b *builder) attribute(name string) *AttributeDescriptor {
	attr, ok := b.attributes[name]
	if !ok {
		attr = &AttributeDescriptor{Name: name}
		b.attributes[name] = attr
	}
	return attr
}

// addFields publishes the visible exported fields of a struct type, or of the
// struct a pointer type points to. Fields are writable only through a pointer.
func (b *builder) addFields() error {
	st, addressable := b.t, false
	if st.Kind() == reflect.Pointer {
		st, addressable = st.Elem(), true
	}
	if st.Kind() != reflect.Struct {
		return nil
	}

	for _, f := range reflect.VisibleFields(st) {
		if f.Anonymous || !f.IsExported() {
			continue
		}

		name, writable, skip := parseTag(f)
		if skip {
			continue
		}

		attr := b.attribute(name)
		if attr.getter != nil {
			return fmt.Errorf("%w: %s: fields %s and %s both publish attribute %s",
				ErrDescriptorBuild, b.t, attr.getter.name, f.Name, name)
		}

		h := &handle{source: SourceField, field: f.Index, name: f.Name, typ: f.Type}
		attr.getter = h
		if writable && addressable {
			attr.setter = h
		}
	}

	return nil
}

func parseTag(f reflect.StructField) (name string, writable bool, skip bool) {
	tag, ok := f.Tag.Lookup(tagName)
	if !ok {
		return stringsx.LowerFirstChar(f.Name), false, false
	}
	if tag == tagSkip {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = stringsx.LowerFirstChar(f.Name)
	}
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == tagWritable {
			writable = true
		}
	}

	return name, writable, false
}

func (b *builder) addMethods() error {
	for _, m := range reflectx.Methods(b.t) {
		if err := b.addMethod(m); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) addMethod(m reflect.Method) error {
	name := stringsx.StripVariant(m.Name)
	in, out := b.signature(m)

	if prop, ok := stringsx.CutAccessor(name, prefixGet); ok && len(in) == 0 && valueResult(out) {
		return b.addGetter(prop, m, out[0])
	}
	if prop, ok := stringsx.CutAccessor(name, prefixIs); ok && len(in) == 0 && valueResult(out) &&
		out[0].Kind() == reflect.Bool {
		return b.addGetter(prop, m, out[0])
	}
	if prop, ok := stringsx.CutAccessor(name, prefixSet); ok && len(in) == 1 && !m.Type.IsVariadic() &&
		voidResult(out) {
		return b.addSetter(prop, m, in[0])
	}

	return b.addOperation(name, m, in, out)
}

// signature returns parameter and result types without the receiver.
func (b *builder) signature(m reflect.Method) ([]reflect.Type, []reflect.Type) {
	offset := 1
	if b.iface {
		offset = 0
	}

	in := make([]reflect.Type, 0, m.Type.NumIn())
	for i := offset; i < m.Type.NumIn(); i++ {
		in = append(in, m.Type.In(i))
	}

	out := make([]reflect.Type, 0, m.Type.NumOut())
	for i := 0; i < m.Type.NumOut(); i++ {
		out = append(out, m.Type.Out(i))
	}

	return in, out
}

// valueResult matches T and (T, error) where T is not an error.
func valueResult(out []reflect.Type) bool {
	switch len(out) {
	case 1:
		return !reflectx.IsErrorType(out[0])
	case 2:
		return !reflectx.IsErrorType(out[0]) && reflectx.IsErrorType(out[1])
	default:
		return false
	}
}

// voidResult matches no results and a single error.
func voidResult(out []reflect.Type) bool {
	return len(out) == 0 || (len(out) == 1 && reflectx.IsErrorType(out[0]))
}

func (b *builder) addGetter(prop string, m reflect.Method, typ reflect.Type) error {
	attr := b.attribute(stringsx.LowerFirstChar(prop))
	if attr.getter != nil && attr.getter.source == SourceMethod {
		return fmt.Errorf("%w: %s: attribute %s has two getters %s and %s",
			ErrDescriptorBuild, b.t, attr.Name, attr.getter.name, m.Name)
	}

	attr.getter = &handle{source: SourceMethod, index: m.Index, name: m.Name, typ: typ}
	return nil
}

func (b *builder) addSetter(prop string, m reflect.Method, typ reflect.Type) error {
	attr := b.attribute(stringsx.LowerFirstChar(prop))
	if attr.setter != nil && attr.setter.source == SourceMethod {
		return fmt.Errorf("%w: %s: attribute %s has two setters %s and %s",
			ErrDescriptorBuild, b.t, attr.Name, attr.setter.name, m.Name)
	}

	attr.setter = &handle{source: SourceMethod, index: m.Index, name: m.Name, typ: typ}
	return nil
}

func (b *builder) addOperation(name string, m reflect.Method, in, out []reflect.Type) error {
	op := &OperationDescriptor{
		Name:       stringsx.LowerFirstChar(name),
		MethodName: m.Name,
		Variadic:   m.Type.IsVariadic(),
		index:      m.Index,
	}

	if len(in) > 0 && reflectx.IsContextType(in[0]) {
		op.TakesContext = true
		in = in[1:]
	}
	op.ParamTypes = in
	op.Arity = len(in)

	if n := len(out); n > 0 && reflectx.IsErrorType(out[n-1]) {
		op.ReturnsError = true
		out = out[:n-1]
	}
	op.ReturnTypes = out

	key := OperationKey{Name: op.Name, Arity: op.Arity}
	if prev, ok := b.operations[key]; ok {
		return fmt.Errorf("%w: %s: methods %s and %s both publish operation %s/%d",
			ErrDescriptorBuild, b.t, prev.MethodName, m.Name, key.Name, key.Arity)
	}

	b.operations[key] = op
	return nil
}

// resolveTypes fixes the type of every attribute. The getter wins over a setter
// of a different type, which keeps working with its own parameter type.
func (b *builder) resolveTypes() {
	for _, attr := range b.attributes {
		switch {
		case attr.getter != nil:
			attr.Type = attr.getter.typ
			if attr.setter != nil && attr.setter.typ != attr.Type {
				b.log.WithFields(logrus.Fields{
					"attribute": attr.Name,
					"getter":    attr.getter.typ.String(),
					"setter":    attr.setter.typ.String(),
				}).Warn("attribute getter and setter types differ")
			}
		case attr.setter != nil:
			attr.Type = attr.setter.typ
		}
	}
}
