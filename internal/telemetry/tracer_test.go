package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
)

func TestInitTracer_WithoutCollector(t *testing.T) {
	cleanup, err := InitTracer(context.Background(), config.Otel{ServiceName: "product-catalog"})
	require.NoError(t, err)
	require.NoError(t, cleanup(context.Background()))

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(config.Otel{ServiceName: "svc", K8sPodName: "pod-1"})

	got := map[string]string{}
	for _, kv := range attrs {
		got[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, map[string]string{"service.name": "svc", "k8s.pod.name": "pod-1"}, got)
}
