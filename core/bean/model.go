package bean

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/anoideaopen/mbean/core/logger"
	"github.com/sirupsen/logrus"
)

// OperationKey identifies an operation: the same name may be published with different arities.
type OperationKey struct {
	Name  string
	Arity int
}

// Model is the immutable set of attributes and operations of a type.
type Model struct {
	typ        reflect.Type
	attributes map[string]*AttributeDescriptor
	operations map[OperationKey]*OperationDescriptor
	attrNames  []string
	opKeys     []OperationKey
}

var models sync.Map // reflect.Type -> *Model

// ModelOf returns the model of t, building it on first use.
// Concurrent first calls may build twice; only one model is kept.
func ModelOf(t reflect.Type) (*Model, error) {
	return modelOf(t, nil)
}

func modelOf(t reflect.Type, path []reflect.Type) (*Model, error) {
	if m, ok := models.Load(t); ok {
		return m.(*Model), nil //nolint:forcetypeassert
	}

	m, err := build(t, path)
	if err != nil {
		return nil, err
	}

	actual, _ := models.LoadOrStore(t, m)
	return actual.(*Model), nil //nolint:forcetypeassert
}

// Build classifies the members of t without consulting the cache for t itself.
// Models of embedded types are taken from the cache.
func Build(t reflect.Type) (*Model, error) {
	return build(t, nil)
}

func build(t reflect.Type, path []reflect.Type) (*Model, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrDescriptorBuild)
	}

	log := logger.Logger().WithField("type", t.String())
	path = append(path, t)

	inherited, err := inheritedMembers(t, path)
	if err != nil {
		return nil, err
	}

	b := newBuilder(t, log)
	if err = b.addFields(); err != nil {
		return nil, err
	}
	if err = b.addMethods(); err != nil {
		return nil, err
	}
	b.resolveTypes()

	m := &Model{
		typ:        t,
		attributes: b.attributes,
		operations: b.operations,
	}
	m.index()

	inherited.report(m, log)

	return m, nil
}

// inherited lists members of embedded types by their origin.
type inherited struct {
	attributes map[string]reflect.Type
	operations map[OperationKey]reflect.Type
}

// report logs inherited members Go could not promote to the outer type:
// they are declared at the same depth by two embedded types, or shadowed by a
// member that is not published.
func (in inherited) report(m *Model, log logrus.FieldLogger) {
	for name, origin := range in.attributes {
		if _, ok := m.attributes[name]; !ok {
			log.WithFields(logrus.Fields{"attribute": name, "embedded": origin.String()}).
				Warn("inherited attribute is ambiguous or shadowed, dropped")
		}
	}
	for key, origin := range in.operations {
		if _, ok := m.operations[key]; !ok {
			log.WithFields(logrus.Fields{"operation": key.Name, "arity": key.Arity, "embedded": origin.String()}).
				Warn("inherited operation is ambiguous or shadowed, dropped")
		}
	}
}

// inheritedMembers builds (or fetches) the models of the types embedded in t.
func inheritedMembers(t reflect.Type, path []reflect.Type) (inherited, error) {
	in := inherited{
		attributes: make(map[string]reflect.Type),
		operations: make(map[OperationKey]reflect.Type),
	}

	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return in, nil
	}

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.Anonymous {
			continue
		}

		et := embeddedMethodSet(t, f.Type)
		if onPath(path, et) {
			continue
		}

		em, err := modelOf(et, path)
		if err != nil {
			return in, fmt.Errorf("embedded %s: %w", f.Type, err)
		}
		for _, name := range em.attrNames {
			in.attributes[name] = f.Type
		}
		for _, key := range em.opKeys {
			in.operations[key] = f.Type
		}
	}

	return in, nil
}

// embeddedMethodSet returns the type whose method set an embedded field of type
// ft contributes to outer. A struct embedded by value contributes its pointer
// methods only when outer is a pointer.
func embeddedMethodSet(outer, ft reflect.Type) reflect.Type {
	if outer.Kind() == reflect.Pointer && ft.Kind() != reflect.Pointer && ft.Kind() != reflect.Interface {
		return reflect.PointerTo(ft)
	}
	return ft
}

func onPath(path []reflect.Type, t reflect.Type) bool {
	for _, p := range path {
		if p == t {
			return true
		}
	}
	return false
}

func (m *Model) index() {
	m.attrNames = make([]string, 0, len(m.attributes))
	for name := range m.attributes {
		m.attrNames = append(m.attrNames, name)
	}
	sort.Strings(m.attrNames)

	m.opKeys = make([]OperationKey, 0, len(m.operations))
	for key := range m.operations {
		m.opKeys = append(m.opKeys, key)
	}
	sort.Slice(m.opKeys, func(i, j int) bool {
		if m.opKeys[i].Name != m.opKeys[j].Name {
			return m.opKeys[i].Name < m.opKeys[j].Name
		}
		return m.opKeys[i].Arity < m.opKeys[j].Arity
	})
}

// Type returns the type the model was built for.
func (m *Model) Type() reflect.Type {
	return m.typ
}

func (m *Model) Attribute(name string) (*AttributeDescriptor, bool) {
	attr, ok := m.attributes[name]
	return attr, ok
}

func (m *Model) Operation(name string, arity int) (*OperationDescriptor, bool) {
	op, ok := m.operations[OperationKey{Name: name, Arity: arity}]
	return op, ok
}

// Arities returns the arities under which name is published, in ascending order.
func (m *Model) Arities(name string) []int {
	var arities []int
	for _, key := range m.opKeys {
		if key.Name == name {
			arities = append(arities, key.Arity)
		}
	}
	return arities
}

// Attributes returns the attributes sorted by name.
func (m *Model) Attributes() []*AttributeDescriptor {
	attrs := make([]*AttributeDescriptor, len(m.attrNames))
	for i, name := range m.attrNames {
		attrs[i] = m.attributes[name]
	}
	return attrs
}

// Operations returns the operations sorted by name, then arity.
func (m *Model) Operations() []*OperationDescriptor {
	ops := make([]*OperationDescriptor, len(m.opKeys))
	for i, key := range m.opKeys {
		ops[i] = m.operations[key]
	}
	return ops
}
