package mq

import (
	"sort"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is a record as seen by consumer handlers.
type Message struct {
	Topic   string
	Key     string
	Payload []byte
	Headers map[string]string
}

type ProduceMsg struct {
	Topic        string
	Headers      map[string]string
	Payload      []byte
	PartitionKey *string
}

func messageFromRecord(rec *kgo.Record) Message {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}

	return Message{
		Topic:   rec.Topic,
		Key:     string(rec.Key),
		Payload: rec.Value,
		Headers: headers,
	}
}

// buildProduceRecord emits headers in key order so records are reproducible.
func buildProduceRecord(msg ProduceMsg) *kgo.Record {
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kgo.RecordHeader, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kgo.RecordHeader{
			Key:   k,
			Value: []byte(msg.Headers[k]),
		})
	}

	r := &kgo.Record{
		Topic:   msg.Topic,
		Value:   msg.Payload,
		Headers: headers,
	}

	if msg.PartitionKey != nil {
		r.Key = []byte(*msg.PartitionKey)
	}

	return r
}
