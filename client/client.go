package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/anoideaopen/mbean/core/bean"
	"github.com/anoideaopen/mbean/core/reflectx"
	"github.com/anoideaopen/mbean/core/resource"
	"github.com/anoideaopen/mbean/core/routing"
	"github.com/anoideaopen/mbean/core/telemetry"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Client addresses resources by domain, object name and member name.
// It is safe for concurrent use when its Transport is.
type Client struct {
	transport Transport
	tracing   *telemetry.TracingHandler
	dial      dialSettings
}

type Option func(*Client)

// dialSettings are read by the constructors in transport.go.
type dialSettings struct {
	grpcDial []grpc.DialOption
	grpcCall []grpc.CallOption
	wsDialer *websocket.Dialer
	wsHeader http.Header
}

// WithDialOptions adds options for the connection DialGRPC opens.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dial.grpcDial = append(c.dial.grpcDial, opts...)
	}
}

// WithCallOptions adds options to every call of a client built by NewGRPC or DialGRPC.
func WithCallOptions(opts ...grpc.CallOption) Option {
	return func(c *Client) {
		c.dial.grpcCall = append(c.dial.grpcCall, opts...)
	}
}

// WithWebSocketDialer sets the dialer and handshake header DialWS uses.
func WithWebSocketDialer(dialer *websocket.Dialer, header http.Header) Option {
	return func(c *Client) {
		c.dial.wsDialer = dialer
		c.dial.wsHeader = header
	}
}

// WithTracerProvider replaces the global trace provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracing = telemetry.NewTracingHandler(tp)
	}
}

func New(t Transport, opts ...Option) *Client {
	c := &Client{transport: t}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracing == nil {
		c.tracing = telemetry.NewTracingHandler(nil)
	}
	return c
}

func (c *Client) Close() error {
	return c.transport.Close()
}

// GetAttribute reads attribute attr of resource domain:name=objectName.
func (c *Client) GetAttribute(ctx context.Context, domain, objectName, attr string) (Value, error) {
	return c.do(ctx, &routing.Request{
		Domain:     domain,
		ObjectName: objectName,
		Kind:       routing.KindGet,
		Member:     attr,
	})
}

// SetAttribute writes value to attribute attr. value is sent in text form
// and decoded into the attribute type by the server.
func (c *Client) SetAttribute(ctx context.Context, domain, objectName, attr string, value any) error {
	text, err := reflectx.Encode(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", resource.ErrTypeMismatch, attr, err)
	}

	_, err = c.do(ctx, &routing.Request{
		Domain:     domain,
		ObjectName: objectName,
		Kind:       routing.KindSet,
		Member:     attr,
		Args:       []string{text},
	})
	return err
}

// InvokeOperation calls operation op with args; the operation overload is
// picked by the number of args.
func (c *Client) InvokeOperation(ctx context.Context, domain, objectName, op string, args ...any) (Value, error) {
	texts := make([]string, len(args))
	for i, arg := range args {
		text, err := reflectx.Encode(arg)
		if err != nil {
			return Value{}, fmt.Errorf("%w: encode argument %d of %s: %w", resource.ErrTypeMismatch, i, op, err)
		}
		texts[i] = text
	}

	return c.do(ctx, &routing.Request{
		Domain:     domain,
		ObjectName: objectName,
		Kind:       routing.KindInvoke,
		Member:     op,
		Args:       texts,
	})
}

// GetAttributesInfo describes the attributes of a resource, sorted by name.
func (c *Client) GetAttributesInfo(ctx context.Context, domain, objectName string) ([]bean.AttributeInfo, error) {
	var infos []bean.AttributeInfo
	return infos, c.info(ctx, domain, objectName, routing.KindAttributes, &infos)
}

// GetOperationsInfo describes the operations of a resource, sorted by name and arity.
func (c *Client) GetOperationsInfo(ctx context.Context, domain, objectName string) ([]bean.OperationInfo, error) {
	var infos []bean.OperationInfo
	return infos, c.info(ctx, domain, objectName, routing.KindOperations, &infos)
}

func (c *Client) info(ctx context.Context, domain, objectName string, kind routing.Kind, out any) error {
	v, err := c.do(ctx, &routing.Request{
		Domain:     domain,
		ObjectName: objectName,
		Kind:       kind,
	})
	if err != nil {
		return err
	}

	if err = json.Unmarshal([]byte(v.text), out); err != nil {
		return fmt.Errorf("decode %s info: %w", kind, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req *routing.Request) (Value, error) {
	req.ID = uuid.NewString()
	req.Trace = c.tracing.Carrier(ctx)

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return Value{}, err
	}
	if err = resp.Err(); err != nil {
		return Value{}, err
	}

	return Value{text: resp.Value}, nil
}
