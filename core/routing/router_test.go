package routing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/anoideaopen/mbean/core/bean"
	"github.com/anoideaopen/mbean/core/registry"
	"github.com/anoideaopen/mbean/core/resource"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const (
	testDomain = "j256"
	testName   = "TestObject"

	fooValue = 1459243
	barValue = 1423459243
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type TestObject struct {
	foo     int
	Bar     int
	Created time.Time
	Tags    []string `mbean:"tags,writable"`
}

func (o *TestObject) GetFoo() int { return o.foo }

func (o *TestObject) SetFoo(foo int) { o.foo = foo }

func (o *TestObject) ResetFoo() { o.foo = 0 }

func (o *TestObject) ResetFoo_To(newValue int) { o.foo = newValue } //nolint:revive,stylecheck

func (o *TestObject) Move(p Point, dx int) Point { return Point{X: p.X + dx, Y: p.Y} }

func (o *TestObject) Greet(name string) string { return "hello " + name }

func (o *TestObject) Join(sep string, parts ...string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

func (o *TestObject) Fail() error { return errors.New("operation failed") }

func (o *TestObject) Nothing() *Point { return nil }

func newTestRouter(t *testing.T, opts ...RouterOption) (*Router, *TestObject) {
	t.Helper()

	obj := &TestObject{foo: fooValue, Bar: barValue}
	reg := registry.New()
	require.NoError(t, reg.Register(resource.MustNew(obj, resource.Identity{Domain: testDomain})))

	return NewRouter(reg, opts...), obj
}

func get(member string) *Request {
	return &Request{Domain: testDomain, ObjectName: testName, Kind: KindGet, Member: member}
}

func set(member, value string) *Request {
	return &Request{Domain: testDomain, ObjectName: testName, Kind: KindSet, Member: member, Args: []string{value}}
}

func invoke(member string, args ...string) *Request {
	return &Request{Domain: testDomain, ObjectName: testName, Kind: KindInvoke, Member: member, Args: args}
}

func TestRoute(t *testing.T) {
	router, obj := newTestRouter(t)
	ctx := context.Background()

	resp := router.Route(ctx, get("foo"))
	require.True(t, resp.Success, resp.Err())
	assert.Equal(t, "1459243", resp.Value)
	assert.NotEmpty(t, resp.ID)

	resp = router.Route(ctx, set("foo", "1459244"))
	require.True(t, resp.Success, resp.Err())
	assert.Equal(t, fooValue+1, obj.foo)

	resp = router.Route(ctx, invoke("resetFoo"))
	require.True(t, resp.Success, resp.Err())
	assert.Equal(t, "null", resp.Value)
	assert.Equal(t, 0, obj.foo)

	resp = router.Route(ctx, invoke("resetFoo", "1459245"))
	require.True(t, resp.Success, resp.Err())
	assert.Equal(t, fooValue+2, obj.foo)

	resp = router.Route(ctx, get("bar"))
	require.True(t, resp.Success, resp.Err())
	assert.Equal(t, "1423459243", resp.Value)
}

func TestRouteValues(t *testing.T) {
	router, obj := newTestRouter(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *Request
		want string
	}{
		{"struct argument", invoke("move", `{"x":1,"y":2}`, "3"), `{"x":4,"y":2}`},
		{"string verbatim", invoke("greet", "world"), "hello world"},
		{"variadic", invoke("join", "-", `["a","b","c"]`), "a-b-c"},
		{"nil result", invoke("nothing"), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := router.Route(ctx, tt.req)
			require.True(t, resp.Success, resp.Err())
			assert.Equal(t, tt.want, resp.Value)
		})
	}

	resp := router.Route(ctx, set("tags", `["x","y"]`))
	require.True(t, resp.Success, resp.Err())
	assert.Equal(t, []string{"x", "y"}, obj.Tags)

	created := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	obj.Created = created
	resp = router.Route(ctx, get("created"))
	require.True(t, resp.Success, resp.Err())
	assert.Equal(t, `"2026-10-15T12:00:00Z"`, resp.Value)
}

func TestRouteFailures(t *testing.T) {
	router, _ := newTestRouter(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		req      *Request
		code     Code
		sentinel error
	}{
		{"nil request", nil, CodeInvalidRequest, ErrInvalidRequest},
		{"unknown kind", &Request{Domain: testDomain, ObjectName: testName, Kind: "DELETE"}, CodeInvalidRequest, ErrInvalidRequest},
		{"set without value", &Request{Domain: testDomain, ObjectName: testName, Kind: KindSet, Member: "foo"}, CodeInvalidRequest, ErrInvalidRequest},
		{"unknown resource", &Request{Domain: testDomain, ObjectName: "Other", Kind: KindGet, Member: "foo"}, CodeResourceNotFound, registry.ErrResourceNotFound},
		{"unknown attribute", get("unknown"), CodeAttributeNotFound, resource.ErrAttributeNotFound},
		{"set unknown attribute", set("unknown", "1"), CodeAttributeNotFound, resource.ErrAttributeNotFound},
		{"unknown operation", invoke("unknown"), CodeOperationNotFound, resource.ErrOperationNotFound},
		{"getter as operation", invoke("getFoo"), CodeOperationNotFound, resource.ErrOperationNotFound},
		{"wrong arity", invoke("resetFoo", "1", "2"), CodeOperationNotFound, resource.ErrOperationNotFound},
		{"read-only field", set("bar", "1"), CodeNotWritable, resource.ErrNotWritable},
		{"undecodable value", set("foo", "not a number"), CodeTypeMismatch, resource.ErrTypeMismatch},
		{"undecodable argument", invoke("resetFoo", "1.5"), CodeTypeMismatch, resource.ErrTypeMismatch},
		{"operation error", invoke("fail"), CodeInvocationFailed, resource.ErrInvocationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := router.Route(ctx, tt.req)
			require.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Empty(t, resp.Value)

			err := ErrorOf(resp.Error.Code, resp.Error.Message)
			require.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, resp.Error.Message, err.Error())
		})
	}
}

func TestRouteInfo(t *testing.T) {
	router, _ := newTestRouter(t)
	ctx := context.Background()

	resp := router.Route(ctx, &Request{Domain: testDomain, ObjectName: testName, Kind: KindAttributes})
	require.True(t, resp.Success, resp.Err())

	var attrs []bean.AttributeInfo
	require.NoError(t, json.Unmarshal([]byte(resp.Value), &attrs))
	assert.Equal(t, []bean.AttributeInfo{
		{Name: "bar", Type: "int", Readable: true},
		{Name: "created", Type: "time.Time", Readable: true},
		{Name: "foo", Type: "int", Readable: true, Writable: true},
		{Name: "tags", Type: "[]string", Readable: true, Writable: true},
	}, attrs)

	resp = router.Route(ctx, &Request{Domain: testDomain, ObjectName: testName, Kind: KindOperations})
	require.True(t, resp.Success, resp.Err())

	var ops []bean.OperationInfo
	require.NoError(t, json.Unmarshal([]byte(resp.Value), &ops))
	require.Len(t, ops, 7)
	assert.Equal(t, bean.OperationInfo{Name: "join", Arity: 2, Params: []string{"string", "[]string"}, Returns: "string"}, ops[2])
}

func TestRouteTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	router, _ := newTestRouter(t, WithTracerProvider(tp))

	router.Route(context.Background(), get("foo"))
	router.Route(context.Background(), invoke("fail"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "mbean.get", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, "mbean.invoke", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestRouteLogging(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	router, _ := newTestRouter(t, WithLogger(log))

	req := invoke("fail")
	req.ID = "req-1"
	resp := router.Route(context.Background(), req)
	assert.Equal(t, "req-1", resp.ID)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, CodeInvocationFailed, entry.Data["code"])
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, CodeDescriptorBuild, CodeOf(bean.ErrDescriptorBuild))
	assert.Equal(t, CodeNotReadable, CodeOf(ErrorOf(CodeNotReadable, "remote")))

	nested := errors.Join(resource.ErrInvocationFailed, resource.ErrNotWritable)
	assert.Equal(t, CodeInvocationFailed, CodeOf(nested))

	assert.NoError(t, CodeInternal.Sentinel())
	assert.Equal(t, "INTERNAL", ErrorOf(CodeInternal, "").Error())
}

func TestHandlerFunc(t *testing.T) {
	var h Handler = HandlerFunc(func(_ context.Context, req *Request) *Response {
		return Success(req.ID, "pong")
	})
	resp := h.Route(context.Background(), &Request{ID: "1"})
	assert.Equal(t, &Response{ID: "1", Success: true, Value: "pong"}, resp)
	assert.NoError(t, resp.Err())
	assert.Error(t, (&Response{}).Err())
}
