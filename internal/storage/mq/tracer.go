package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var (
	tracer = otel.Tracer("internal/storage/mq")

	// kTracer propagates trace context through record headers on both
	// the produce and the consume path.
	kTracer = kotel.NewTracer()
	kHooks  = kotel.NewKotel(kotel.WithTracer(kTracer)).Hooks()
)
