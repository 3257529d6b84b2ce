package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"swapstay/pkg/kafka"
	"swapstay/pkg/logger"
)

func TestMetrics_Producer(t *testing.T) {
	m := NewMetrics()
	mw := m.ProducerMiddleware()

	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("broker down") }

	for i := 0; i < 3; i++ {
		if err := mw(context.Background(), kafka.Message{Key: "booking:1"}, ok); err != nil {
			t.Fatalf("middleware error = %v", err)
		}
	}
	if err := mw(context.Background(), kafka.Message{Key: "booking:1"}, fail); err == nil {
		t.Fatal("failure swallowed")
	}

	s := m.Snapshot()
	if s.Published != 3 || s.PublishFailed != 1 {
		t.Errorf("snapshot = %+v", s)
	}
	if s.Consumed != 0 || s.AvgConsumeDuration != 0 {
		t.Errorf("consume side moved: %+v", s)
	}
}

func TestMetrics_Consumer(t *testing.T) {
	m := NewMetrics()
	mw := LoggingConsumerMiddleware(logger.Nop())
	counted := m.ConsumerMiddleware()

	handler := func(ctx context.Context, msg kafka.Message) error {
		if msg.Key == "bad" {
			return errors.New("undecodable")
		}
		return nil
	}
	chain := func(ctx context.Context, msg kafka.Message) error {
		return mw(ctx, msg, func(ctx context.Context, msg kafka.Message) error {
			return counted(ctx, msg, handler)
		})
	}

	for _, key := range []string{"booking:1", "bad", "exchange:2"} {
		_ = chain(context.Background(), kafka.Message{Key: key})
	}

	s := m.Snapshot()
	if s.Consumed != 2 || s.ConsumeFailed != 1 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestSnapshot_LogAttrs(t *testing.T) {
	attrs := MetricsSnapshot{Published: 5, PublishFailed: 1}.LogAttrs()
	if len(attrs)%2 != 0 {
		t.Fatalf("attrs = %v, want key/value pairs", attrs)
	}

	got := map[string]any{}
	for i := 0; i < len(attrs); i += 2 {
		got[attrs[i].(string)] = attrs[i+1]
	}
	if got["published"] != int64(5) || got["publish_failed"] != int64(1) {
		t.Errorf("attrs = %v", got)
	}
}
