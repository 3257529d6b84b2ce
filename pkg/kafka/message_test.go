package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMessageBuilder(t *testing.T) {
	ts := time.Date(2025, 8, 1, 12, 0, 0, 0, time.FixedZone("IDT", 3*60*60))

	msg, err := NewMessage().
		WithKey("booking:42").
		WithValue(struct {
			Status string `json:"status"`
		}{"confirmed"}).
		WithEventID("").
		WithSource("swapstay-api").
		WithSchemaVersion("1").
		WithCorrelationID("").
		WithTimestamp(ts).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if msg.GetEventID() == "" {
		t.Error("event id not generated")
	}
	if _, ok := msg.GetHeader(HeaderCorrelationID); ok {
		t.Error("empty header values should be skipped")
	}
	if msg.Headers[HeaderSource] != "swapstay-api" || msg.Headers[HeaderSchemaVersion] != "1" {
		t.Errorf("headers = %v", msg.Headers)
	}
	if msg.Headers[HeaderTimestamp] != "2025-08-01T09:00:00Z" {
		t.Errorf("timestamp header = %q", msg.Headers[HeaderTimestamp])
	}

	var decoded struct{ Status string }
	if err := msg.DecodeValue(&decoded); err != nil || decoded.Status != "confirmed" {
		t.Errorf("decoded = %+v, err = %v", decoded, err)
	}
}

func TestMessageBuilder_EncodeFailure(t *testing.T) {
	_, err := NewMessage().WithKey("booking:1").WithValue(make(chan int)).Build()
	if err == nil {
		t.Fatal("expected encoding error")
	}
}

func TestMessage_RetryCount(t *testing.T) {
	var msg Message
	if msg.GetRetryCount() != 0 {
		t.Errorf("retry count = %d", msg.GetRetryCount())
	}
	msg.IncrementRetryCount()
	msg.IncrementRetryCount()
	if msg.GetRetryCount() != 2 {
		t.Errorf("retry count = %d, want 2", msg.GetRetryCount())
	}

	msg.Headers[HeaderRetryCount] = "many"
	if msg.GetRetryCount() != 0 {
		t.Errorf("garbage retry count = %d, want 0", msg.GetRetryCount())
	}
}

func TestMessage_KafkaConversion(t *testing.T) {
	msg := testMessage(t, "exchange:3")
	km := toKafkaMessage(msg)
	km.Topic = "swapstay.events"
	km.Partition = 2
	km.Offset = 17

	back := fromKafkaMessage(km)
	if back.Key != msg.Key || string(back.Value) != string(msg.Value) {
		t.Errorf("message = %+v", back)
	}
	if back.Topic != "swapstay.events" || back.Partition != 2 || back.Offset != 17 {
		t.Errorf("position = %s/%d/%d", back.Topic, back.Partition, back.Offset)
	}
	for k, v := range msg.Headers {
		if back.Headers[k] != v {
			t.Errorf("header %s = %q, want %q", k, back.Headers[k], v)
		}
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"tagged transient", NewTransientError("write", errors.New("x")), ErrorTypeTransient},
		{"tagged permanent", NewPermanentError("decode", errors.New("x")), ErrorTypePermanent},
		{"wrapped tag", fmt.Errorf("handler: %w", NewPermanentError("decode", nil)), ErrorTypePermanent},
		{"deadline", fmt.Errorf("save: %w", context.DeadlineExceeded), ErrorTypeTransient},
		{"connection refused", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unknown", errors.New("duplicate key"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("write", errors.New("timeout"))

	if !ShouldRetry(transient, 0, 3) {
		t.Error("transient error under the limit should retry")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("retry limit ignored")
	}
	if ShouldRetry(NewPermanentError("decode", nil), 0, 3) {
		t.Error("permanent error retried")
	}
	if ShouldRetry(nil, 0, 3) {
		t.Error("nil error retried")
	}
}
