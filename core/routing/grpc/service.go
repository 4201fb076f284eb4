package grpc

import (
	"context"

	"github.com/anoideaopen/mbean/core/routing"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "mbean.v1.ManagementService"
	RouteMethod = "/" + ServiceName + "/Route"
)

// ManagementService is the server API of the management service.
type ManagementService interface {
	Route(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Server adapts a routing.Handler to ManagementService.
type Server struct {
	handler routing.Handler
}

func NewServer(handler routing.Handler) *Server {
	return &Server{handler: handler}
}

// Register installs the management service backed by handler.
func Register(server grpc.ServiceRegistrar, handler routing.Handler) {
	RegisterService(server, NewServer(handler))
}

// RegisterService installs svc as the management service.
func RegisterService(server grpc.ServiceRegistrar, svc ManagementService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*ManagementService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Route",
				Handler:    routeHandler(svc),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "mbean/v1/management.proto",
	}, svc)
}

func (s *Server) Route(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := RequestFromStruct(in)
	if err != nil {
		return nil, StatusOf(routing.NewError(err)).Err()
	}

	resp := s.handler.Route(ctx, req)
	if !resp.Success {
		return nil, StatusOf(routing.NewError(resp.Err())).Err()
	}

	out, err := ResponseToStruct(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return out, nil
}

func routeHandler(svc ManagementService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.Route(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: RouteMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.Route(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}

// Invoke sends req over conn. A failure reported by the server comes back as
// an unsuccessful response; only transport problems are returned as errors.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, req *routing.Request, opts ...grpc.CallOption) (*routing.Response, error) {
	in, err := RequestToStruct(req)
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err = conn.Invoke(ctx, RouteMethod, in, out, opts...); err != nil {
		if e, ok := ErrorFromStatus(err); ok {
			return &routing.Response{ID: req.ID, Error: e}, nil
		}
		return nil, err
	}

	return ResponseFromStruct(out), nil
}
