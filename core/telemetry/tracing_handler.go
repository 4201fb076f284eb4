package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/anoideaopen/mbean"

// TracingHandler starts spans and moves trace context in and out of requests.
type TracingHandler struct {
	Tracer      trace.Tracer
	Propagators propagation.TextMapPropagator
}

// NewTracingHandler uses tp, or the global provider when tp is nil. The global propagators are
// used once installed, W3C trace context and baggage otherwise.
func NewTracingHandler(tp trace.TracerProvider) *TracingHandler {
	return &TracingHandler{
		Tracer:      TracerProvider(tp).Tracer(instrumentationName),
		Propagators: textMapPropagator(),
	}
}

func textMapPropagator() propagation.TextMapPropagator {
	if p := otel.GetTextMapPropagator(); len(p.Fields()) > 0 {
		return p
	}
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

// StartNewSpan starts new span
func (th *TracingHandler) StartNewSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return th.Tracer.Start(ctx, spanName, opts...)
}

// ContextFromCarrier returns ctx carrying the remote span found in packed, if any.
// A span already present in ctx takes precedence.
func (th *TracingHandler) ContextFromCarrier(ctx context.Context, packed map[string]string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(packed) == 0 || trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	return th.Propagators.Extract(ctx, UnpackCarrier(packed))
}

// Carrier packs the span context of ctx for sending with a request.
func (th *TracingHandler) Carrier(ctx context.Context) map[string]string {
	traceCarrier := propagation.MapCarrier{}
	th.Propagators.Inject(ctx, traceCarrier)
	return PackCarrier(traceCarrier)
}
