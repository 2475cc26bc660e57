package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/product-catalog/pkg/correlationid"
)

const CorrelationIDHeader = "X-Correlation-ID"

// maxCorrelationIDLen caps client supplied ids before they reach logs.
const maxCorrelationIDLen = 128

// CorrelationID propagates the caller's X-Correlation-ID, or a fresh one, to
// the request context and echoes it on the response.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(CorrelationIDHeader)
			if id == "" || len(id) > maxCorrelationIDLen {
				id = uuid.NewString()
			}

			ctx := correlationid.NewContext(r.Context(), id)
			if span := trace.SpanFromContext(ctx); span.IsRecording() {
				span.SetAttributes(attribute.String("correlation.id", id))
			}

			w.Header().Set(CorrelationIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
