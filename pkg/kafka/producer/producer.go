package producer

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
	_defaultWriteTimeout = 10 * time.Second

	_defaultPartitions        = 1
	_defaultReplicationFactor = 1
)

type Producer struct {
	connAttempts      int
	connTimeout       time.Duration
	writeTimeout      time.Duration
	autoTopicCreation bool
	partitions        int
	replicationFactor int

	brokers []string
	Writer  *kafka.Writer
}

func New(ctx context.Context, brokers []string, opts ...Option) (*Producer, error) {
	p := &Producer{
		connAttempts:      _defaultConnAttempts,
		connTimeout:       _defaultConnTimeout,
		writeTimeout:      _defaultWriteTimeout,
		partitions:        _defaultPartitions,
		replicationFactor: _defaultReplicationFactor,
		brokers:           brokers,
	}

	for _, opt := range opts {
		opt(p)
	}

	// RequireAll: a message counts as published only once every in-sync replica has it
	p.Writer = &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           p.writeTimeout,
		AllowAutoTopicCreation: p.autoTopicCreation,
	}

	var err error
	for p.connAttempts > 0 {
		err = p.ping(ctx)
		if err == nil {
			break
		}

		log.Printf("Kafka producer is trying to connect, attempts left: %d", p.connAttempts)

		time.Sleep(p.connTimeout)

		p.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("Kafka Producer - New - connAttempts == 0: %w", err)
	}

	return p, nil
}

// ping succeeds as soon as one of the brokers answers a metadata request.
func (p *Producer) ping(ctx context.Context) error {
	var pingErrs []error

	for _, broker := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			pingErrs = append(pingErrs, fmt.Errorf("Kafka Producer - kafka.DialContext(%s): %w", broker, err))
			continue
		}

		_, err = conn.Brokers()
		conn.Close()
		if err == nil {
			return nil
		}

		pingErrs = append(pingErrs, fmt.Errorf("Kafka Producer - conn.Brokers(%s): %w", broker, err))
	}

	if len(pingErrs) == 0 {
		return errors.New("Kafka Producer - ping: no brokers configured")
	}

	return errors.Join(pingErrs...)
}

func (p *Producer) Close() error {
	if p.Writer != nil {
		return p.Writer.Close()
	}

	return nil
}
