package routing

import "context"

// Handler answers management requests. Failures are reported in the
// response, never as a Go error.
type Handler interface {
	Route(ctx context.Context, req *Request) *Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *Request) *Response

func (f HandlerFunc) Route(ctx context.Context, req *Request) *Response {
	return f(ctx, req)
}
