package client

import (
	"context"
	"fmt"

	"github.com/anoideaopen/mbean/core/routing"
	grpcrouting "github.com/anoideaopen/mbean/core/routing/grpc"
	"github.com/anoideaopen/mbean/transport/wshub"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
)

// Transport carries requests to a management server. A server failure comes
// back as an unsuccessful response; the error result is for transport
// problems only.
type Transport interface {
	Do(ctx context.Context, req *routing.Request) (*routing.Response, error)
	Close() error
}

type grpcTransport struct {
	conn  grpc.ClientConnInterface
	owned *grpc.ClientConn // closed by Close when the transport dialed it
	opts  []grpc.CallOption
}

func (t *grpcTransport) Do(ctx context.Context, req *routing.Request) (*routing.Response, error) {
	return grpcrouting.Invoke(ctx, t.conn, req, t.opts...)
}

func (t *grpcTransport) Close() error {
	if t.owned == nil {
		return nil
	}
	return t.owned.Close()
}

// NewGRPC returns a client using conn, which stays owned by the caller.
func NewGRPC(conn grpc.ClientConnInterface, opts ...Option) *Client {
	c := New(nil, opts...)
	c.transport = &grpcTransport{conn: conn, opts: c.dial.grpcCall}
	return c
}

// DialGRPC connects to the gRPC listener at target and waits until the
// connection is ready or ctx ends. Connections are plaintext unless
// WithDialOptions carries transport credentials.
func DialGRPC(ctx context.Context, target string, opts ...Option) (*Client, error) {
	c := New(nil, opts...)
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, c.dial.grpcDial...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", target, err)
	}

	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			break
		}
		if !conn.WaitForStateChange(ctx, state) {
			_ = conn.Close()
			return nil, fmt.Errorf("grpc dial %s: %w", target, ctx.Err())
		}
	}

	c.transport = &grpcTransport{conn: conn, owned: conn, opts: c.dial.grpcCall}
	return c, nil
}

// DialWS connects to the WebSocket endpoint at url, such as "ws://localhost:9491/ws".
func DialWS(ctx context.Context, url string, opts ...Option) (*Client, error) {
	c := New(nil, opts...)

	wc, err := wshub.Dial(ctx, url, c.dial.wsDialer, c.dial.wsHeader)
	if err != nil {
		return nil, err
	}

	c.transport = wc
	return c, nil
}
