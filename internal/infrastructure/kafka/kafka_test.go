package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu       sync.Mutex
	failures int
	written  []kafka.Message
	calls    int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls++
	if w.failures > 0 {
		w.failures--
		return errors.New("broker unavailable")
	}
	w.written = append(w.written, msgs...)

	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func newTestQueue(w *fakeWriter, policy RedeliveryPolicy) (*EventConsumer, *fakeReader) {
	r := &fakeReader{}
	p := &EventProducer{writer: w, maxRetries: 2, topic: "thumbnail_generation"}

	return &EventConsumer{
		reader:   r,
		requeuer: p,
		policy:   policy,
		logger:   logger.New("disabled"),
	}, r
}

func headerValue(msg kafka.Message, key string) (string, bool) {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value), true
		}
	}

	return "", false
}

func TestSendRequest(t *testing.T) {
	w := &fakeWriter{failures: 1}
	p := &EventProducer{writer: w, maxRetries: 2, topic: "thumbnail_generation"}

	req := dto.GenerationRequest{PhotoID: "8a3f2c1e-1111-4a4a-9b9b-000000000001", BusinessID: "b1"}
	if err := p.SendRequest(context.Background(), req); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	if w.calls != 2 {
		t.Fatalf("expected one retry, got %d calls", w.calls)
	}
	if len(w.written) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.written))
	}

	msg := w.written[0]
	if msg.Topic != "thumbnail_generation" || string(msg.Key) != req.PhotoID {
		t.Fatalf("unexpected topic/key: %s/%s", msg.Topic, msg.Key)
	}

	var got dto.GenerationRequest
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("value is not json: %v", err)
	}
	if got != req {
		t.Fatalf("expected %+v, got %+v", req, got)
	}
}

func TestSendRequestGivesUp(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := &EventProducer{writer: w, maxRetries: 2, topic: "thumbnail_generation"}

	err := p.SendRequest(context.Background(), dto.GenerationRequest{PhotoID: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if w.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", w.calls)
	}
}

func TestNackRequeuesWithNextAttempt(t *testing.T) {
	w := &fakeWriter{}
	ec, r := newTestQueue(w, RedeliveryPolicy{Backoff: time.Millisecond})

	msg := kafka.Message{
		Topic:   "thumbnail_generation",
		Key:     []byte("id"),
		Value:   []byte(`{"photoId":"id"}`),
		Headers: []kafka.Header{{Key: HeaderRedeliveryAttempt, Value: []byte("2")}},
	}

	if err := ec.Nack(context.Background(), msg, errors.New("store down")); err != nil {
		t.Fatalf("Nack: %v", err)
	}

	if len(w.written) != 1 {
		t.Fatalf("expected requeued copy, got %d writes", len(w.written))
	}
	if v, _ := headerValue(w.written[0], HeaderRedeliveryAttempt); v != "3" {
		t.Fatalf("expected attempt 3, got %q", v)
	}
	if len(w.written[0].Headers) != 1 {
		t.Fatalf("attempt header duplicated: %+v", w.written[0].Headers)
	}
	if len(r.committed) != 1 {
		t.Fatalf("expected original committed, got %d commits", len(r.committed))
	}
}

func TestNackRetriesRequeueUntilPublished(t *testing.T) {
	w := &fakeWriter{failures: 4}
	ec, r := newTestQueue(w, RedeliveryPolicy{Backoff: time.Millisecond})

	if err := ec.Nack(context.Background(), kafka.Message{Key: []byte("id")}, errors.New("boom")); err != nil {
		t.Fatalf("Nack: %v", err)
	}

	if len(w.written) != 1 {
		t.Fatalf("expected requeued copy, got %d writes", len(w.written))
	}
	if len(r.committed) != 1 {
		t.Fatalf("expected original committed once the copy is out, got %d commits", len(r.committed))
	}
}

func TestNackLeavesOriginalWhenRequeueNeverSucceeds(t *testing.T) {
	w := &fakeWriter{failures: 1_000_000}
	ec, r := newTestQueue(w, RedeliveryPolicy{Backoff: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := ec.Nack(ctx, kafka.Message{Key: []byte("id")}, errors.New("boom"))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(r.committed) != 0 {
		t.Fatalf("original must stay uncommitted, got %d commits", len(r.committed))
	}
	if w.calls < 2 {
		t.Fatalf("expected the requeue to be retried, got %d writes", w.calls)
	}
}

func TestNackCancelledDuringBackoff(t *testing.T) {
	w := &fakeWriter{}
	ec, r := newTestQueue(w, RedeliveryPolicy{Backoff: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ec.Nack(ctx, kafka.Message{Key: []byte("id")}, errors.New("boom")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(w.written) != 0 || len(r.committed) != 0 {
		t.Fatal("cancelled nack must not touch the queue")
	}
}

func TestNackExhaustedGoesToDeadLetter(t *testing.T) {
	w := &fakeWriter{}
	ec, r := newTestQueue(w, RedeliveryPolicy{MaxAttempts: 2, DeadLetterTopic: "thumbnail_generation.dlq"})

	msg := kafka.Message{
		Key:     []byte("id"),
		Headers: []kafka.Header{{Key: HeaderRedeliveryAttempt, Value: []byte("2")}},
	}

	if err := ec.Nack(context.Background(), msg, errors.New("store down")); err != nil {
		t.Fatalf("Nack: %v", err)
	}

	if len(w.written) != 1 || w.written[0].Topic != "thumbnail_generation.dlq" {
		t.Fatalf("expected dead-lettered message, got %+v", w.written)
	}
	if v, ok := headerValue(w.written[0], HeaderFailureReason); !ok || v != "store down" {
		t.Fatalf("expected failure reason header, got %q", v)
	}
	if len(r.committed) != 1 {
		t.Fatal("expected original committed")
	}
}

func TestNackExhaustedWithoutDeadLetterDrops(t *testing.T) {
	w := &fakeWriter{}
	ec, r := newTestQueue(w, RedeliveryPolicy{MaxAttempts: 1})

	msg := kafka.Message{Headers: []kafka.Header{{Key: HeaderRedeliveryAttempt, Value: []byte("1")}}}

	if err := ec.Nack(context.Background(), msg, errors.New("boom")); err != nil {
		t.Fatalf("Nack: %v", err)
	}
	if len(w.written) != 0 {
		t.Fatal("nothing should be published")
	}
	if len(r.committed) != 1 {
		t.Fatal("expected original committed")
	}
}

func TestRedeliveryPolicyDelay(t *testing.T) {
	p := RedeliveryPolicy{Backoff: time.Second, MaxBackoff: 5 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second},
		{60, 5 * time.Second},
	}

	for _, tt := range tests {
		if got := p.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRedeliveryPolicyUnlimited(t *testing.T) {
	p := RedeliveryPolicy{}
	if p.Exhausted(1_000_000) {
		t.Fatal("MaxAttempts 0 must never exhaust")
	}
}

func TestAttempt(t *testing.T) {
	tests := []struct {
		name    string
		headers []kafka.Header
		want    int
	}{
		{"absent", nil, 0},
		{"set", []kafka.Header{{Key: HeaderRedeliveryAttempt, Value: []byte("4")}}, 4},
		{"garbled", []kafka.Header{{Key: HeaderRedeliveryAttempt, Value: []byte("x")}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Attempt(kafka.Message{Headers: tt.headers}); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
