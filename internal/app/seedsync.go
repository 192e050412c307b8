package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Seed-Manager/config"
	"github.com/andreyxaxa/Seed-Manager/internal/controller/cli"
	connworker "github.com/andreyxaxa/Seed-Manager/internal/controller/worker/connectivity"
	"github.com/andreyxaxa/Seed-Manager/internal/infrastructure/connectivity"
	"github.com/andreyxaxa/Seed-Manager/internal/infrastructure/recordstore"
	"github.com/andreyxaxa/Seed-Manager/internal/repo/slot"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase/submission"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase/syncqueue"
	"github.com/andreyxaxa/Seed-Manager/pkg/badgerdb"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
)

// RunSeedSync runs one client command and returns the process exit code.
func RunSeedSync(cfg *config.SeedSync, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger
	l := logger.NewWithWriter(cfg.Log.Level, os.Stderr)

	// Repository

	// badger, the directory lock keeps a second client off the same queue
	bdb, err := badgerdb.New(cfg.Queue.Dir, l)
	if err != nil {
		l.Error(fmt.Errorf("app - RunSeedSync - badgerdb.New: %w", err))

		return 1
	}
	defer func() {
		if err := bdb.Close(); err != nil {
			l.Error(fmt.Errorf("app - RunSeedSync - bdb.Close: %w", err))
		}
	}()

	// Infrastructure
	client := recordstore.New(cfg.Server.URL, recordstore.Timeout(cfg.Server.Timeout))
	monitor := connectivity.New(client, l,
		connectivity.Interval(cfg.Watch.ProbeInterval),
		connectivity.ProbeTimeout(cfg.Watch.ProbeTimeout),
	)

	// Use-Case
	queue := syncqueue.New(slot.NewQueueSlotRepo(bdb), client, l)
	pipeline := submission.New(client, queue, monitor, l, submission.EncodeWorkers(cfg.Queue.EncodeWorkers))

	// Connectivity Trigger
	watch := func(ctx context.Context) error {
		trigger := connworker.New(queue, monitor, l, cfg.Watch.DrainTimeout)

		if err := trigger.Start(ctx); err != nil {
			return fmt.Errorf("app - RunSeedSync - trigger.Start: %w", err)
		}
		if err := monitor.Start(ctx); err != nil {
			return fmt.Errorf("app - RunSeedSync - monitor.Start: %w", err)
		}

		l.Info("watching %s", cfg.Server.URL)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Watch.DrainTimeout)
		defer cancel()

		if err := trigger.Shutdown(shutdownCtx); err != nil {
			l.Error(fmt.Errorf("app - RunSeedSync - trigger.Shutdown: %w", err))
		}
		if err := monitor.Shutdown(shutdownCtx); err != nil {
			l.Error(fmt.Errorf("app - RunSeedSync - monitor.Shutdown: %w", err))
		}

		return nil
	}

	return cli.New(pipeline, queue, client, watch, os.Stdout, l).Run(ctx, args)
}
