package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"querybot/internal/api"
	"querybot/internal/bootstrap"
	"querybot/internal/config"
)

func main() {
	_ = godotenv.Load(".env")
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, logger)
	stop()
	if err != nil {
		logger.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	clients := bootstrap.Connect(ctx, cfg, logger)
	defer clients.Close()
	if !clients.Ready() {
		logger.Printf("starting degraded: %v", clients.Status())
	}

	if clients.SingleProcess() {
		runner, err := clients.IngestRunner(nil, log.New(logger.Writer(), "[WORKER] ", log.LstdFlags))
		if err != nil {
			logger.Printf("in-process ingestion disabled: %v", err)
		} else {
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})
			go func() {
				defer close(done)
				_ = runner.Run(runCtx)
			}()
			defer func() {
				cancel()
				<-done
			}()
			logger.Printf("memory index: ingesting in process")
		}
	}

	srv := api.NewServer(clients, logger)
	errCh := make(chan error, 1)
	go func() {
		logger.Printf("querybot api listening on %s (queue=%s vector=%s)", cfg.APIAddr, cfg.QueueBackend, cfg.VectorBackend)
		errCh <- srv.Start(cfg.APIAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
