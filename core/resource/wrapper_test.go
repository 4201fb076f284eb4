package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/anoideaopen/mbean/core/bean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	domainName = "j256"
	objectName = "PublishAllBeanWrapperTest"

	fooValue = 1459243
	barValue = 1423459243
	bazValue = 63456352
)

type TestObject struct {
	foo int
	Bar int
	Baz int
}

func newTestObject() *TestObject {
	return &TestObject{foo: fooValue, Bar: barValue, Baz: bazValue}
}

func (o *TestObject) GetFoo() int { return o.foo }

func (o *TestObject) SetFoo(foo int) { o.foo = foo }

func (o *TestObject) ResetFoo() { o.foo = 0 }

func (o *TestObject) ResetFoo_To(newValue int) { o.foo = newValue } //nolint:revive,stylecheck

func (o *TestObject) IsSomething() bool { return true }

func (o *TestObject) Is() bool { return false }

func (o *TestObject) Get() bool { return false }

func (o *TestObject) Set(int) {}

func (o *TestObject) GetBroken() (int, error) { return 0, errors.New("broken") }

func (o *TestObject) SetLimit(v int) error {
	if v < 0 {
		return errors.New("negative limit")
	}
	return nil
}

func (o *TestObject) Describe(ctx context.Context, prefix string) string {
	return prefix + ctx.Value(ctxKey{}).(string) //nolint:forcetypeassert
}

func (o *TestObject) Split() (int, string) { return o.foo, "foo" }

func (o *TestObject) Attach(p *int) bool { return p == nil }

type ctxKey struct{}

type SubClassTestObject struct {
	TestObject
	baz int
}

func (o *SubClassTestObject) GetBaz() int { return o.baz }

func (o *SubClassTestObject) SetBaz(baz int) { o.baz = baz }

func TestWrapper(t *testing.T) {
	obj := newTestObject()
	w, err := New(obj, Identity{Domain: domainName, ObjectName: objectName, Description: "description"})
	require.NoError(t, err)

	v, err := w.GetAttribute("foo")
	require.NoError(t, err)
	assert.Equal(t, fooValue, v)

	v, err = w.GetAttribute("bar")
	require.NoError(t, err)
	assert.Equal(t, barValue, v)

	val := fooValue + 1
	require.NoError(t, w.SetAttribute("foo", val))
	v, err = w.GetAttribute("foo")
	require.NoError(t, err)
	assert.Equal(t, val, v)

	res, err := w.InvokeOperation(context.Background(), "resetFoo")
	require.NoError(t, err)
	assert.Nil(t, res)
	v, _ = w.GetAttribute("foo")
	assert.Equal(t, 0, v)

	val = fooValue + 2
	_, err = w.InvokeOperation(context.Background(), "resetFoo", val)
	require.NoError(t, err)
	v, _ = w.GetAttribute("foo")
	assert.Equal(t, val, v)
	assert.Equal(t, val, obj.foo)

	_, err = w.GetAttribute("unknown")
	require.ErrorIs(t, err, ErrAttributeNotFound)
	err = w.SetAttribute("unknown", fooValue)
	require.ErrorIs(t, err, ErrAttributeNotFound)
	_, err = w.InvokeOperation(context.Background(), "unknown")
	require.ErrorIs(t, err, ErrOperationNotFound)
	_, err = w.InvokeOperation(context.Background(), "getFoo")
	require.ErrorIs(t, err, ErrOperationNotFound)
	_, err = w.InvokeOperation(context.Background(), "resetFoo", 1, 2)
	require.ErrorIs(t, err, ErrOperationNotFound)
}

func TestWrapperFailures(t *testing.T) {
	w := MustNew(newTestObject(), Identity{Domain: domainName})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"set read-only field", func() error { return w.SetAttribute("bar", 1) }, ErrNotWritable},
		{"get write-only", func() error { _, err := w.GetAttribute("limit"); return err }, ErrNotReadable},
		{"set wrong type", func() error { return w.SetAttribute("foo", "1") }, ErrTypeMismatch},
		{"set nil int", func() error { return w.SetAttribute("foo", nil) }, ErrTypeMismatch},
		{"set rejected", func() error { return w.SetAttribute("limit", -1) }, ErrInvocationFailed},
		{"getter error", func() error { _, err := w.GetAttribute("broken"); return err }, ErrInvocationFailed},
		{"argument type", func() error { _, err := w.InvokeOperation(ctx, "resetFoo", int64(1)); return err }, ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.call(), tt.want)
		})
	}

	require.NoError(t, w.SetAttribute("limit", 5))
}

func TestWrapperOperations(t *testing.T) {
	w := MustNew(newTestObject(), Identity{Domain: domainName})

	ctx := context.WithValue(context.Background(), ctxKey{}, "world")
	res, err := w.InvokeOperation(ctx, "describe", "hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", res)

	res, err = w.InvokeOperation(ctx, "split")
	require.NoError(t, err)
	assert.Equal(t, []any{fooValue, "foo"}, res)

	res, err = w.InvokeOperation(ctx, "attach", nil)
	require.NoError(t, err)
	assert.Equal(t, true, res)

	res, err = w.InvokeOperation(ctx, "is")
	require.NoError(t, err)
	assert.Equal(t, false, res)
}

func TestWrapperSubClass(t *testing.T) {
	obj := &SubClassTestObject{TestObject: *newTestObject()}
	w, err := New(obj, Identity{Domain: domainName, Description: "description"})
	require.NoError(t, err)
	assert.Equal(t, "SubClassTestObject", w.Identity().ObjectName)
	assert.Equal(t, "j256:name=SubClassTestObject", w.Identity().String())

	obj.Bar = 37634345
	obj.baz = 678934522

	v, err := w.GetAttribute("bar")
	require.NoError(t, err)
	assert.Equal(t, obj.Bar, v)

	v, err = w.GetAttribute("baz")
	require.NoError(t, err)
	assert.Equal(t, obj.baz, v)

	names := make([]string, 0)
	for _, info := range w.ListAttributes() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"bar", "baz", "broken", "foo", "limit", "something"}, names)
}

func TestWrapperHidden(t *testing.T) {
	w := MustNew(newTestObject(), Identity{Domain: domainName}, WithHidden("bar", "resetFoo"))

	_, err := w.GetAttribute("bar")
	require.ErrorIs(t, err, ErrAttributeNotFound)
	_, err = w.InvokeOperation(context.Background(), "resetFoo")
	require.ErrorIs(t, err, ErrOperationNotFound)

	for _, info := range w.ListAttributes() {
		assert.NotEqual(t, "bar", info.Name)
	}
	for _, info := range w.ListOperations() {
		assert.NotEqual(t, "resetFoo", info.Name)
	}
}

func TestListOperations(t *testing.T) {
	w := MustNew(newTestObject(), Identity{Domain: domainName})

	assert.Equal(t, []bean.OperationInfo{
		{Name: "attach", Arity: 1, Params: []string{"*int"}, Returns: "bool"},
		{Name: "describe", Arity: 1, Params: []string{"string"}, Returns: "string"},
		{Name: "get", Arity: 0, Returns: "bool"},
		{Name: "is", Arity: 0, Returns: "bool"},
		{Name: "resetFoo", Arity: 0},
		{Name: "resetFoo", Arity: 1, Params: []string{"int"}},
		{Name: "set", Arity: 1, Params: []string{"int"}},
		{Name: "split", Arity: 0, Returns: "(int, string)"},
	}, w.ListOperations())
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, Identity{Domain: domainName})
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = New(newTestObject(), Identity{})
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = New(&duplicated{}, Identity{Domain: domainName})
	require.ErrorIs(t, err, bean.ErrDescriptorBuild)
}

type duplicated struct{}

func (*duplicated) Run() {}
func (*duplicated) Run_Fast() {} //nolint:revive,stylecheck

func TestDefaultObjectName(t *testing.T) {
	assert.Equal(t, "TestObject", DefaultObjectName(newTestObject()))
	assert.Equal(t, "TestObject", DefaultObjectName(TestObject{}))
	assert.Equal(t, "", DefaultObjectName(nil))
	assert.Equal(t, "struct {}", DefaultObjectName(&struct{}{}))
}
