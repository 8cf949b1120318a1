package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BlobBackendS3    = "s3"
	BlobBackendMinio = "minio"
)

type (
	Config struct {
		HTTP            HTTP
		Log             Log
		PG              PG
		Blob            Blob
		Kafka           Kafka
		Upload          Upload
		ThumbnailWorker ThumbnailWorker
		Reconciler      Reconciler
		Swagger         Swagger
	}

	HTTP struct {
		Port            string        `env:"HTTP_PORT,required"`
		UsePreforkMode  bool          `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	Blob struct {
		Backend        string        `env:"BLOB_BACKEND" envDefault:"s3"`
		Endpoint       string        `env:"BLOB_ENDPOINT,required"`
		AccessKey      string        `env:"BLOB_ACCESS_KEY,required"`
		SecretKey      string        `env:"BLOB_SECRET_KEY,required"`
		Region         string        `env:"BLOB_REGION" envDefault:"garage"`
		UseSSL         bool          `env:"BLOB_USE_SSL" envDefault:"false"`
		PhotosBucket   string        `env:"BLOB_PHOTOS_BUCKET" envDefault:"photos"`
		ThumbsBucket   string        `env:"BLOB_THUMBS_BUCKET" envDefault:"thumbs"`
		CfgLoadTimeout time.Duration `env:"BLOB_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Kafka struct {
		Brokers           []string `env:"KAFKA_BROKERS,required,notEmpty"`
		GroupID           string   `env:"KAFKA_GROUP_ID" envDefault:"thumbnail-workers"`
		Topic             string   `env:"KAFKA_TOPIC" envDefault:"thumbnail_generation"`
		DeadLetterTopic   string   `env:"KAFKA_DEAD_LETTER_TOPIC"`
		AutoCreateTopics  bool     `env:"KAFKA_AUTO_CREATE_TOPICS" envDefault:"true"`
		Partitions        int      `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"1"`
		ReplicationFactor int      `env:"KAFKA_REPLICATION_FACTOR" envDefault:"1"`
		PublishRetries    int      `env:"KAFKA_PUBLISH_RETRIES" envDefault:"3"`
	}

	Upload struct {
		TempDir        string        `env:"UPLOAD_TEMP_DIR" envDefault:"/tmp/photo-uploads"`
		MaxFileSize    int64         `env:"UPLOAD_MAX_FILE_SIZE" envDefault:"10485760"`
		EnqueueTimeout time.Duration `env:"UPLOAD_ENQUEUE_TIMEOUT" envDefault:"5s"`
	}

	ThumbnailWorker struct {
		Workers           int           `env:"THUMBNAIL_WORKERS" envDefault:"1"`
		CommitTimeout     time.Duration `env:"THUMBNAIL_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout    time.Duration `env:"THUMBNAIL_PROCESS_TIMEOUT" envDefault:"30s"` // one message: fetch, decode, resize, store, link
		CPUTimeout        time.Duration `env:"THUMBNAIL_CPU_TIMEOUT" envDefault:"10s"`     // decode and resize
		ShutdownTimeout   time.Duration `env:"THUMBNAIL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
		RedeliveryBackoff time.Duration `env:"THUMBNAIL_REDELIVERY_BACKOFF" envDefault:"1s"`
		MaxBackoff        time.Duration `env:"THUMBNAIL_REDELIVERY_MAX_BACKOFF" envDefault:"1m"`
		MaxRedeliveries   int           `env:"THUMBNAIL_MAX_REDELIVERIES" envDefault:"0"` // 0 - redeliver until it succeeds
	}

	Reconciler struct {
		Enabled         bool          `env:"RECONCILER_ENABLED" envDefault:"false"`
		Interval        time.Duration `env:"RECONCILER_INTERVAL" envDefault:"5m"`
		MinAge          time.Duration `env:"RECONCILER_MIN_AGE" envDefault:"10m"`
		BatchSize       int           `env:"RECONCILER_BATCH_SIZE" envDefault:"100"`
		BatchTimeout    time.Duration `env:"RECONCILER_BATCH_TIMEOUT" envDefault:"30s"`
		ShutdownTimeout time.Duration `env:"RECONCILER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Blob.Backend {
	case BlobBackendS3, BlobBackendMinio:
	default:
		return fmt.Errorf("BLOB_BACKEND must be %q or %q, got %q", BlobBackendS3, BlobBackendMinio, c.Blob.Backend)
	}

	if c.Kafka.Partitions < 1 || c.Kafka.ReplicationFactor < 1 {
		return fmt.Errorf("KAFKA_TOPIC_PARTITIONS and KAFKA_REPLICATION_FACTOR must be positive, got %d and %d",
			c.Kafka.Partitions, c.Kafka.ReplicationFactor)
	}

	if c.ThumbnailWorker.Workers < 1 {
		return fmt.Errorf("THUMBNAIL_WORKERS must be positive, got %d", c.ThumbnailWorker.Workers)
	}

	if c.ThumbnailWorker.MaxRedeliveries < 0 {
		return fmt.Errorf("THUMBNAIL_MAX_REDELIVERIES must not be negative, got %d", c.ThumbnailWorker.MaxRedeliveries)
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE must be positive, got %d", c.Upload.MaxFileSize)
	}

	if c.Reconciler.Enabled && c.Reconciler.BatchSize < 1 {
		return fmt.Errorf("RECONCILER_BATCH_SIZE must be positive, got %d", c.Reconciler.BatchSize)
	}

	return nil
}
