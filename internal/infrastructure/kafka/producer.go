package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/andreyxaxa/Photo-Storage/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
)

const _retryBackoff = 100 * time.Millisecond

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type EventProducer struct {
	writer     messageWriter
	maxRetries uint64
	topic      string
}

func NewEventProducer(producer *producer.Producer, retries int, topic string) *EventProducer {
	if retries < 0 {
		retries = 0
	}

	return &EventProducer{
		writer:     producer.Writer,
		maxRetries: uint64(retries),
		topic:      topic,
	}
}

// SendRequest publishes a generation request keyed by photo id.
func (ep *EventProducer) SendRequest(ctx context.Context, req dto.GenerationRequest) error {
	value, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("EventProducer - SendRequest - json.Marshal: %w", err)
	}

	err = ep.write(ctx, kafka.Message{
		Topic: ep.topic,
		Key:   []byte(req.PhotoID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("EventProducer - SendRequest - ep.write: %w", err)
	}

	return nil
}

// Requeue publishes a copy of msg back to its topic with the redelivery counter set to attempt.
func (ep *EventProducer) Requeue(ctx context.Context, msg kafka.Message, attempt int) error {
	topic := msg.Topic
	if topic == "" {
		topic = ep.topic
	}

	err := ep.write(ctx, kafka.Message{
		Topic:   topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: withHeader(msg.Headers, HeaderRedeliveryAttempt, strconv.Itoa(attempt)),
	})
	if err != nil {
		return fmt.Errorf("EventProducer - Requeue - ep.write: %w", err)
	}

	return nil
}

func (ep *EventProducer) DeadLetter(ctx context.Context, topic string, msg kafka.Message, reason error) error {
	headers := msg.Headers
	if reason != nil {
		headers = withHeader(headers, HeaderFailureReason, reason.Error())
	}

	err := ep.write(ctx, kafka.Message{
		Topic:   topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("EventProducer - DeadLetter - ep.write: %w", err)
	}

	return nil
}

func (ep *EventProducer) write(ctx context.Context, msgs ...kafka.Message) error {
	b := retry.WithMaxRetries(ep.maxRetries, retry.NewExponential(_retryBackoff))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := ep.writer.WriteMessages(ctx, msgs...)
		if err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
}

func (ep *EventProducer) Close() error {
	err := ep.writer.Close()
	if err != nil {
		return fmt.Errorf("EventProducer - Close: %w", err)
	}

	return nil
}
