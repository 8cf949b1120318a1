package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-Storage/pkg/kafka/consumer"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
)

const (
	_republishBackoff    = 100 * time.Millisecond
	_maxRepublishBackoff = time.Minute
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type republisher interface {
	Requeue(ctx context.Context, msg kafka.Message, attempt int) error
	DeadLetter(ctx context.Context, topic string, msg kafka.Message, reason error) error
}

type EventConsumer struct {
	reader   messageReader
	requeuer republisher
	policy   RedeliveryPolicy
	logger   logger.Interface
}

func NewEventConsumer(
	consumer *consumer.Consumer,
	producer *EventProducer,
	policy RedeliveryPolicy,
	l logger.Interface,
) *EventConsumer {
	return &EventConsumer{
		reader:   consumer.Reader,
		requeuer: producer,
		policy:   policy,
		logger:   l,
	}
}

func (ec *EventConsumer) ReadEvent(ctx context.Context) (kafka.Message, error) {
	msg, err := ec.reader.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("EventConsumer - ReadEvent - ec.reader.FetchMessage: %w", err)
	}

	return msg, nil
}

func (ec *EventConsumer) Ack(ctx context.Context, msg kafka.Message) error {
	err := ec.reader.CommitMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("EventConsumer - Ack - ec.reader.CommitMessages: %w", err)
	}

	return nil
}

// Nack puts msg back at the tail of the queue after the policy delay and then
// commits the original. Publishing the copy is retried until it succeeds or ctx
// ends; in the latter case the original stays uncommitted, so the group offset
// never moves past an undelivered request.
func (ec *EventConsumer) Nack(ctx context.Context, msg kafka.Message, cause error) error {
	next := Attempt(msg) + 1

	if ec.policy.Exhausted(next) {
		if ec.policy.DeadLetterTopic != "" {
			err := ec.republish(ctx, msg, func(ctx context.Context) error {
				return ec.requeuer.DeadLetter(ctx, ec.policy.DeadLetterTopic, msg, cause)
			})
			if err != nil {
				return fmt.Errorf("EventConsumer - Nack - ec.requeuer.DeadLetter: %w", err)
			}
		} else {
			ec.logger.Warn("EventConsumer - Nack - redeliveries exhausted, dropping key=%s attempts=%d: %v",
				string(msg.Key), next-1, cause)
		}

		return ec.Ack(ctx, msg)
	}

	err := sleep(ctx, ec.policy.Delay(next-1))
	if err != nil {
		return fmt.Errorf("EventConsumer - Nack - sleep: %w", err)
	}

	err = ec.republish(ctx, msg, func(ctx context.Context) error {
		return ec.requeuer.Requeue(ctx, msg, next)
	})
	if err != nil {
		return fmt.Errorf("EventConsumer - Nack - ec.requeuer.Requeue: %w", err)
	}

	return ec.Ack(ctx, msg)
}

// republish calls publish until it succeeds or ctx ends.
func (ec *EventConsumer) republish(ctx context.Context, msg kafka.Message, publish func(context.Context) error) error {
	base := ec.policy.Backoff
	if base <= 0 {
		base = _republishBackoff
	}

	limit := ec.policy.MaxBackoff
	if limit <= 0 {
		limit = _maxRepublishBackoff
	}

	b := retry.WithCappedDuration(limit, retry.NewExponential(base))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := publish(ctx)
		if err != nil {
			ec.logger.Error(err, "EventConsumer - republish - key=%s, retrying", string(msg.Key))
			return retry.RetryableError(err)
		}

		return nil
	})
}

func (ec *EventConsumer) Close() error {
	err := ec.reader.Close()
	if err != nil {
		return fmt.Errorf("EventConsumer - Close: %w", err)
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
