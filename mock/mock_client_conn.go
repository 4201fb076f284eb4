// Package mock provides test doubles for management clients.
package mock

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/anoideaopen/mbean/core/routing"
	grpcrouting "github.com/anoideaopen/mbean/core/routing/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ClientConn is a grpc.ClientConnInterface answering management calls in
// process with a routing.Handler. Messages go through protojson as they
// would through the wire, and failures come back as the same statuses a
// real server sends.
type ClientConn struct {
	srv   *grpcrouting.Server
	calls atomic.Int64
}

func NewClientConn(h routing.Handler) *ClientConn {
	return &ClientConn{srv: grpcrouting.NewServer(h)}
}

// Calls returns the number of calls that reached the handler.
func (m *ClientConn) Calls() int {
	return int(m.calls.Load())
}

// Invoke performs a unary RPC and returns after the response is received
// into reply.
func (m *ClientConn) Invoke(ctx context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	if method != grpcrouting.RouteMethod {
		return status.Errorf(codes.Unimplemented, "unknown method %s", method)
	}

	in, ok := args.(*structpb.Struct)
	if !ok {
		return status.Errorf(codes.Internal, "unexpected request type %T", args)
	}
	out, ok := reply.(*structpb.Struct)
	if !ok {
		return status.Errorf(codes.Internal, "unexpected reply type %T", reply)
	}

	rawJSON, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.Internal, "marshal request: %v", err)
	}
	received := &structpb.Struct{}
	if err = protojson.Unmarshal(rawJSON, received); err != nil {
		return status.Errorf(codes.Internal, "unmarshal request: %v", err)
	}

	m.calls.Add(1)
	res, err := m.srv.Route(ctx, received)
	if err != nil {
		return err
	}

	proto.Reset(out)
	proto.Merge(out, res)
	return nil
}

// NewStream begins a streaming RPC.
func (m *ClientConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("streaming methods are not supported")
}
