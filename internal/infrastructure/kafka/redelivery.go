package kafka

import (
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	HeaderRedeliveryAttempt = "x-redelivery-attempt"
	HeaderFailureReason     = "x-failure-reason"
)

// RedeliveryPolicy decides when and how often a failed message goes back to the queue.
// MaxAttempts == 0 means redeliver forever.
type RedeliveryPolicy struct {
	Backoff         time.Duration
	MaxBackoff      time.Duration
	MaxAttempts     int
	DeadLetterTopic string
}

// Delay is the wait before redelivering a message that has already been redelivered attempt times.
func (p RedeliveryPolicy) Delay(attempt int) time.Duration {
	d := p.Backoff
	if d <= 0 {
		return 0
	}

	for i := 0; i < attempt; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}

	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}

	return d
}

func (p RedeliveryPolicy) Exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt > p.MaxAttempts
}

// Attempt reads the redelivery counter of a message. Absent or garbled headers count as 0.
func Attempt(msg kafka.Message) int {
	for _, h := range msg.Headers {
		if h.Key != HeaderRedeliveryAttempt {
			continue
		}

		n, err := strconv.Atoi(string(h.Value))
		if err != nil || n < 0 {
			return 0
		}

		return n
	}

	return 0
}

func withHeader(headers []kafka.Header, key, value string) []kafka.Header {
	res := make([]kafka.Header, 0, len(headers)+1)
	for _, h := range headers {
		if h.Key != key {
			res = append(res, h)
		}
	}

	return append(res, kafka.Header{Key: key, Value: []byte(value)})
}
