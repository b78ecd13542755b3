// Package tracing provides OpenTelemetry tracing integration.
//
// It provides:
//   - Middleware: HTTP server spans with W3C trace-context extraction and
//     an X-Trace-Id response header
//   - GetTracer: the shared "newsline" tracer for creating custom spans
//
// The package does not configure a tracer provider or exporter; spans go to
// whatever provider is installed globally via otel.SetTracerProvider.
//
// Example usage:
//
//	import "newsline/internal/observability/tracing"
//
//	handler := tracing.Middleware(mux)
//
//	func processRequest(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "process-request")
//	    defer span.End()
//	    // ... process request ...
//	}
package tracing
