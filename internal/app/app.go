package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Photo-Storage/config"
	kafkactrl "github.com/andreyxaxa/Photo-Storage/internal/controller/kafka"
	"github.com/andreyxaxa/Photo-Storage/internal/controller/restapi"
	"github.com/andreyxaxa/Photo-Storage/internal/controller/worker/reconciler"
	infrakafka "github.com/andreyxaxa/Photo-Storage/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Photo-Storage/internal/infrastructure/processor"
	"github.com/andreyxaxa/Photo-Storage/internal/repo/persistent"
	"github.com/andreyxaxa/Photo-Storage/internal/usecase/imageprocessor"
	"github.com/andreyxaxa/Photo-Storage/internal/usecase/photo"
	"github.com/andreyxaxa/Photo-Storage/internal/usecase/thumbnail"
	"github.com/andreyxaxa/Photo-Storage/migrations"
	"github.com/andreyxaxa/Photo-Storage/pkg/httpserver"
	"github.com/andreyxaxa/Photo-Storage/pkg/kafka/consumer"
	"github.com/andreyxaxa/Photo-Storage/pkg/kafka/producer"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/andreyxaxa/Photo-Storage/pkg/postgres"
)

// запас на поля формы поверх самого файла
const _multipartOverhead = 1 << 20

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// blob store
	originals, thumbs, err := newBlobRepos(ctx, cfg.Blob)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newBlobRepos: %w", err))
	}

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	err = pg.Migrate(migrations.FS, ".")
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - pg.Migrate: %w", err))
	}

	photoRepo := persistent.NewPhotoRepo(pg)

	// upload temp dir
	err = os.MkdirAll(cfg.Upload.TempDir, 0o750)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - os.MkdirAll: %w", err))
	}

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers,
		producer.AutoTopicCreation(cfg.Kafka.AutoCreateTopics),
		producer.TopicPartitions(cfg.Kafka.Partitions),
		producer.TopicReplicationFactor(cfg.Kafka.ReplicationFactor),
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}

	if cfg.Kafka.AutoCreateTopics {
		topics := []string{cfg.Kafka.Topic}
		if cfg.Kafka.DeadLetterTopic != "" {
			topics = append(topics, cfg.Kafka.DeadLetterTopic)
		}

		err = kafkaProducer.EnsureTopics(ctx, topics...)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - kafkaProducer.EnsureTopics: %w", err))
		}
	}
	eventProducer := infrakafka.NewEventProducer(kafkaProducer, cfg.Kafka.PublishRetries, cfg.Kafka.Topic)
	defer func() {
		if err := eventProducer.Close(); err != nil {
			l.Error(fmt.Errorf("app - Run - eventProducer.Close: %w", err))
		}
	}()

	// Use-Case

	// photo use-case
	photoUseCase := photo.New(
		photoRepo,
		originals,
		thumbs,
		eventProducer,
		cfg.Upload.EnqueueTimeout,
		l,
	)

	// thumbnail use-case
	thumbnailUseCase := thumbnail.New(
		photoRepo,
		originals,
		thumbs,
		imageprocessor.New(processor.New(), cfg.ThumbnailWorker.CPUTimeout),
		l,
	)

	// Kafka Consumer
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	// Kafka as Controller
	thumbnailController := kafkactrl.New(
		thumbnailUseCase,
		infrakafka.NewEventConsumer(kafkaConsumer, eventProducer, infrakafka.RedeliveryPolicy{
			Backoff:         cfg.ThumbnailWorker.RedeliveryBackoff,
			MaxBackoff:      cfg.ThumbnailWorker.MaxBackoff,
			MaxAttempts:     cfg.ThumbnailWorker.MaxRedeliveries,
			DeadLetterTopic: cfg.Kafka.DeadLetterTopic,
		}, l),
		l,
		cfg.ThumbnailWorker.CommitTimeout,
		cfg.ThumbnailWorker.ProcessTimeout,
		cfg.ThumbnailWorker.Workers,
	)

	// Reconciler Worker
	reconcilerWorker := reconciler.New(
		photoUseCase,
		l,
		cfg.Reconciler.Interval,
		cfg.Reconciler.MinAge,
		cfg.Reconciler.BatchTimeout,
		cfg.Reconciler.BatchSize,
	)

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.ReadTimeout(cfg.HTTP.ReadTimeout),
		httpserver.WriteTimeout(cfg.HTTP.WriteTimeout),
		httpserver.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		httpserver.BodyLimit(int(cfg.Upload.MaxFileSize)+_multipartOverhead),
	)
	restapi.NewRouter(httpServer.App, cfg, photoUseCase, l)

	// Start Components
	if cfg.Reconciler.Enabled {
		err = reconcilerWorker.Start(ctx)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - reconcilerWorker.Start: %w", err))
		}
	}
	err = thumbnailController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - thumbnailController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	rcShutdownCtx, rcShutdownCancel := context.WithTimeout(ctx, cfg.Reconciler.ShutdownTimeout)
	defer rcShutdownCancel()
	err = reconcilerWorker.Shutdown(rcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - reconcilerWorker.Shutdown: %w", err))
	}

	tcShutdownCtx, tcShutdownCancel := context.WithTimeout(ctx, cfg.ThumbnailWorker.ShutdownTimeout)
	defer tcShutdownCancel()
	err = thumbnailController.Shutdown(tcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - thumbnailController.Shutdown: %w", err))
	}
}
