package telemetry

import (
	"go.opentelemetry.io/otel/propagation"
)

// PackCarrier copies a carrier into a plain map that travels inside a request.
func PackCarrier(traceCarrier propagation.MapCarrier) map[string]string {
	if len(traceCarrier) == 0 {
		return nil
	}

	packed := make(map[string]string, len(traceCarrier))
	for _, k := range traceCarrier.Keys() {
		packed[k] = traceCarrier.Get(k)
	}

	return packed
}

// UnpackCarrier turns the trace map of a request back into a carrier.
func UnpackCarrier(packed map[string]string) propagation.MapCarrier {
	traceCarrier := propagation.MapCarrier{}
	for k, v := range packed {
		traceCarrier.Set(k, v)
	}

	return traceCarrier
}
