package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.9.0"
	"go.opentelemetry.io/otel/trace"
)

// Trace starts a server span per request, continuing any trace context sent
// by the caller. Only 5xx responses mark the span as failed.
func Trace(tracer trace.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipTracing(r) {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			// the route is only known once chi has matched it, so the span
			// is renamed after the handler returns
			ctx, span := tracer.Start(ctx, r.Method, trace.WithAttributes(
				semconv.HTTPTargetKey.String(r.URL.Path),
				semconv.HTTPMethodKey.String(r.Method),
				semconv.HTTPUserAgentKey.String(r.UserAgent()),
				semconv.HTTPClientIPKey.String(r.RemoteAddr),
			), trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			next.ServeHTTP(ww, r.WithContext(ctx))

			route := routePattern(r)
			span.SetName(fmt.Sprintf("%s %s", r.Method, route))

			status := ww.Status()
			span.SetAttributes(
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPStatusCodeKey.Int(status),
				semconv.HTTPResponseContentLengthKey.Int(ww.BytesWritten()),
			)
			if status >= 500 {
				span.SetStatus(codes.Error, fmt.Sprintf("error with HTTP status code %d", status))
			}
		})
	}
}

var skipPaths = map[string]struct{}{
	MetricsPath:         {},
	"/docs":             {},
	"/docs/openapi.yml": {},
	"/api/health":       {},
}

// skipTracing drops operational endpoints and static uploads.
func skipTracing(r *http.Request) bool {
	if _, ok := skipPaths[r.URL.Path]; ok {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/uploads/")
}
