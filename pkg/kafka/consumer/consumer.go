package consumer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
	_defaultMaxWait      = time.Second
)

type Consumer struct {
	connAttempts int
	connTimeout  time.Duration
	maxWait      time.Duration

	brokers []string
	groupID string
	topic   string

	Reader *kafka.Reader
}

func New(ctx context.Context, brokers []string, groupID, topic string, opts ...Option) (*Consumer, error) {
	c := &Consumer{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		maxWait:      _defaultMaxWait,
		brokers:      brokers,
		groupID:      groupID,
		topic:        topic,
	}

	for _, opt := range opts {
		opt(c)
	}

	// commits are explicit (CommitInterval == 0), a fresh group starts from the oldest message
	c.Reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.brokers,
		GroupID:     c.groupID,
		Topic:       c.topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     c.maxWait,
		StartOffset: kafka.FirstOffset,
	})

	var err error

	for c.connAttempts > 0 {
		err = c.ping(ctx)
		if err == nil {
			break
		}

		log.Printf("Kafka consumer is trying to connect, attempts left: %d", c.connAttempts)

		time.Sleep(c.connTimeout)

		c.connAttempts--
	}

	if err != nil {
		_ = c.Reader.Close()

		return nil, fmt.Errorf("Kafka Consumer - New - connAttempts == 0: %w", err)
	}

	return c, nil
}

// ping succeeds as soon as one of the brokers answers a metadata request.
func (c *Consumer) ping(ctx context.Context) error {
	var pingErrs []error

	for _, broker := range c.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			pingErrs = append(pingErrs, fmt.Errorf("Kafka Consumer - kafka.DialContext(%s): %w", broker, err))
			continue
		}

		_, err = conn.Brokers()
		conn.Close()
		if err == nil {
			return nil
		}

		pingErrs = append(pingErrs, fmt.Errorf("Kafka Consumer - conn.Brokers(%s): %w", broker, err))
	}

	if len(pingErrs) == 0 {
		return errors.New("Kafka Consumer - ping: no brokers configured")
	}

	return errors.Join(pingErrs...)
}

func (c *Consumer) Close() error {
	if c.Reader != nil {
		return c.Reader.Close()
	}

	return nil
}
