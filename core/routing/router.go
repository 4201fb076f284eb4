package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/anoideaopen/mbean/core/logger"
	"github.com/anoideaopen/mbean/core/reflectx"
	"github.com/anoideaopen/mbean/core/resource"
	"github.com/anoideaopen/mbean/core/telemetry"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Resolver finds the wrapper published under a domain and object name.
type Resolver interface {
	Lookup(domain, name string) (*resource.Wrapper, error)
}

// Router is the Handler dispatching requests to the resources of a Resolver,
// usually a *registry.Registry.
type Router struct {
	resolver Resolver
	log      logrus.FieldLogger
	tracing  *telemetry.TracingHandler
}

// RouterOption configures a Router.
type RouterOption func(*Router)

func WithLogger(log logrus.FieldLogger) RouterOption {
	return func(r *Router) {
		r.log = log
	}
}

// WithTracerProvider replaces the global trace provider.
func WithTracerProvider(tp trace.TracerProvider) RouterOption {
	return func(r *Router) {
		r.tracing = telemetry.NewTracingHandler(tp)
	}
}

func NewRouter(resolver Resolver, opts ...RouterOption) *Router {
	r := &Router{
		resolver: resolver,
		log:      logger.Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracing == nil {
		r.tracing = telemetry.NewTracingHandler(nil)
	}
	return r
}

// Route serves one request. The resolver is consulted once per request and
// the wrapper is called without any lock held.
func (r *Router) Route(ctx context.Context, req *Request) *Response {
	if err := req.Validate(); err != nil {
		id := ""
		if req != nil {
			id = req.ID
		}
		r.log.WithError(err).Debug("invalid request")
		return Failure(id, err)
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	ctx = r.tracing.ContextFromCarrier(ctx, req.Trace)
	ctx, span := r.tracing.StartNewSpan(ctx, "mbean."+strings.ToLower(string(req.Kind)),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(telemetry.Kind(string(req.Kind))),
		trace.WithAttributes(telemetry.RequestAttributes(req.ID, req.Domain, req.ObjectName, req.Member, len(req.Args))...),
	)
	defer span.End()

	log := r.log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"kind":       req.Kind,
		"domain":     req.Domain,
		"name":       req.ObjectName,
		"member":     req.Member,
	})

	value, err := r.dispatch(ctx, req)
	if err != nil {
		resp := Failure(req.ID, err)

		span.SetAttributes(telemetry.ErrorCode(string(resp.Error.Code)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		entry := log.WithError(err).WithField("code", resp.Error.Code)
		if resp.Error.Code == CodeInvocationFailed || resp.Error.Code == CodeInternal {
			entry.Warn("request failed")
		} else {
			entry.Debug("request failed")
		}

		return resp
	}

	span.SetStatus(codes.Ok, "")
	log.Debug("request served")

	return Success(req.ID, value)
}

func (r *Router) dispatch(ctx context.Context, req *Request) (string, error) {
	w, err := r.resolver.Lookup(req.Domain, req.ObjectName)
	if err != nil {
		return "", err
	}

	switch req.Kind {
	case KindGet:
		v, err := w.GetAttribute(req.Member)
		if err != nil {
			return "", err
		}
		return encode(v)

	case KindSet:
		return "", setAttribute(w, req.Member, req.Args[0])

	case KindInvoke:
		return invokeOperation(ctx, w, req.Member, req.Args)

	case KindAttributes:
		return marshal(w.ListAttributes())

	case KindOperations:
		return marshal(w.ListOperations())
	}

	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, req.Kind)
}

func setAttribute(w *resource.Wrapper, name, arg string) error {
	attr, err := w.Attribute(name)
	if err != nil {
		return err
	}

	var value any
	if t := attr.SetterType(); t != nil {
		if value, err = decode(arg, t); err != nil {
			return fmt.Errorf("%w: attribute %s: %w", resource.ErrTypeMismatch, name, err)
		}
	}

	// a read-only attribute is reported by the wrapper
	return w.SetAttribute(name, value)
}

func invokeOperation(ctx context.Context, w *resource.Wrapper, name string, args []string) (string, error) {
	op, err := w.Operation(name, len(args))
	if err != nil {
		return "", err
	}

	values := make([]any, len(args))
	for i, arg := range args {
		if values[i], err = decode(arg, op.ParamTypes[i]); err != nil {
			return "", fmt.Errorf("%w: operation %s argument %d: %w", resource.ErrTypeMismatch, name, i, err)
		}
	}

	result, err := w.InvokeOperation(ctx, name, values...)
	if err != nil {
		return "", err
	}

	return encode(result)
}

func decode(arg string, t reflect.Type) (any, error) {
	v, err := reflectx.ValueOf(arg, t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func encode(v any) (string, error) {
	s, err := reflectx.Encode(v)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return s, nil
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode info: %w", err)
	}
	return string(data), nil
}
