package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tuanvumaihuynh/product-catalog/pkg/correlationid"
	"github.com/tuanvumaihuynh/product-catalog/pkg/outbox"
)

func TestHeadersRoundTrip(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "abc-123")

	headers := outbox.BuildHeaders(ctx)
	assert.Equal(t, "abc-123", headers[correlationid.Header])

	rec := &kgo.Record{}
	for k, v := range headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	got, ok := correlationid.FromContext(outbox.ContextFromRecord(context.Background(), rec))
	assert.True(t, ok)
	assert.Equal(t, "abc-123", got)
}

func TestExtractWithoutCorrelationID(t *testing.T) {
	ctx := outbox.ExtractContextFromHeaders(context.Background(), map[string]string{})
	_, ok := correlationid.FromContext(ctx)
	assert.False(t, ok)
}
