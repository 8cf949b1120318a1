package producer

import "time"

type Option func(*Producer)

func ConnAttempts(attempts int) Option {
	return func(p *Producer) {
		p.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(p *Producer) {
		p.connTimeout = timeout
	}
}

// AutoTopicCreation lets the writer create missing topics on first publish.
func AutoTopicCreation(allow bool) Option {
	return func(p *Producer) {
		p.autoTopicCreation = allow
	}
}

func WriteTimeout(timeout time.Duration) Option {
	return func(p *Producer) {
		p.writeTimeout = timeout
	}
}

// TopicPartitions is the partition count EnsureTopics creates topics with.
func TopicPartitions(n int) Option {
	return func(p *Producer) {
		p.partitions = n
	}
}

func TopicReplicationFactor(n int) Option {
	return func(p *Producer) {
		p.replicationFactor = n
	}
}
