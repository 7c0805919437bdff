package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// HTTPResponseTraceInjection exposes the current trace id on the response so
// the frontend can attach it to support tickets.
func HTTPResponseTraceInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		if sc := span.SpanContext(); sc.HasTraceID() {
			w.Header().Set("X-Trace-Id", sc.TraceID().String())
		}

		next.ServeHTTP(w, r)
	})
}
