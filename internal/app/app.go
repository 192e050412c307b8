package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Seed-Manager/config"
	"github.com/andreyxaxa/Seed-Manager/internal/controller/restapi"
	"github.com/andreyxaxa/Seed-Manager/internal/controller/worker/outbox"
	infrakafka "github.com/andreyxaxa/Seed-Manager/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Seed-Manager/internal/repo/persistent"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase/observation"
	"github.com/andreyxaxa/Seed-Manager/migrations"
	"github.com/andreyxaxa/Seed-Manager/pkg/httpserver"
	"github.com/andreyxaxa/Seed-Manager/pkg/kafka/producer"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/andreyxaxa/Seed-Manager/pkg/postgres"
	"github.com/andreyxaxa/Seed-Manager/pkg/s3client"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// postgres
	if cfg.PG.AutoMigrate {
		err := postgres.Migrate(cfg.PG.URL, migrations.FS, ".")
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - postgres.Migrate: %w", err))
		}
	}

	pg, err := postgres.New(cfg.PG.URL, l, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	var ucOpts []observation.Option

	// s3
	if cfg.Pictures.Backend == config.PicturesBackendS3 {
		s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
		s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, l,
			s3client.Region(cfg.S3.Region),
			s3client.UsePathStyle(true),
		)
		if err != nil {
			s3Cancel()
			l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
		}

		err = s3c.EnsureBucket(s3Ctx, cfg.S3.Bucket)
		s3Cancel()
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - s3c.EnsureBucket: %w", err))
		}

		ucOpts = append(ucOpts, observation.WithPictureBlobs(persistent.NewPictureBlobRepo(s3c, cfg.S3.Bucket)))
	}

	// change feed
	if cfg.Kafka.Enabled {
		ucOpts = append(ucOpts, observation.WithOutbox(persistent.NewObservationOutboxRepo(pg)))
	}

	// Use-Case
	observationUseCase := observation.New(
		persistent.NewObservationRepo(pg),
		persistent.NewPictureRepo(pg),
		pg,
		l,
		ucOpts...,
	)

	// Outbox Relay Worker
	var outboxRelayWorker *outbox.OutboxRelay
	if cfg.Kafka.Enabled {
		kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers, l)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
		}

		outboxRelayWorker = outbox.New(
			observationUseCase,
			infrakafka.NewEventProducer(kafkaProducer, cfg.Kafka.Topic),
			l,
			cfg.OutboxRelay.PollInterval,
			cfg.OutboxRelay.CleanupInterval,
			cfg.OutboxRelay.MarkFailedInterval,
			cfg.OutboxRelay.ProcessBatchTimeout,
			cfg.OutboxRelay.BatchSize,
			cfg.OutboxRelay.MaxRetries,
		)
	}

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.BodyLimit(cfg.HTTP.BodyLimit),
		httpserver.ReadTimeout(cfg.HTTP.ReadTimeout),
		httpserver.WriteTimeout(cfg.HTTP.WriteTimeout),
	)
	restapi.NewRouter(httpServer.App, cfg, observationUseCase, l)

	// Start Components
	if outboxRelayWorker != nil {
		err = outboxRelayWorker.Start(ctx)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - outboxRelayWorker.Start: %w", err))
		}
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

	if outboxRelayWorker != nil {
		orlShutdownCtx, orlShutdownCancel := context.WithTimeout(ctx, cfg.OutboxRelay.ShutdownTimeout)
		defer orlShutdownCancel()
		err = outboxRelayWorker.Shutdown(orlShutdownCtx)
		if err != nil {
			l.Error(fmt.Errorf("app - Run - outboxRelayWorker.Shutdown: %w", err))
		}
	}
}
