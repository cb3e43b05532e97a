package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/worker"

	"querybot/internal/activities"
	"querybot/internal/bootstrap"
	"querybot/internal/config"
	"querybot/internal/workflows"
)

func main() {
	_ = godotenv.Load(".env")
	logger := log.New(os.Stdout, "[WORKER] ", log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, logger)
	stop()
	if err != nil {
		logger.Printf("fatal: %v", err)
		os.Exit(1)
	}
	logger.Printf("stopped")
}

func run(ctx context.Context, logger *log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.VectorBackend == "memory" {
		return errors.New("vector_backend memory: ingestion runs inside the api process, no separate worker")
	}

	clients := bootstrap.Connect(ctx, cfg, logger)
	defer clients.Close()
	if clients.Store == nil || clients.Index == nil || clients.Embedder == nil {
		return fmt.Errorf("required clients missing: %v", clients.Status())
	}

	if cfg.WorkerMetricsAddr != "" {
		ms := &http.Server{Addr: cfg.WorkerMetricsAddr, Handler: clients.Metrics.Handler()}
		go func() {
			if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = ms.Shutdown(shutdownCtx)
		}()
	}

	switch cfg.QueueBackend {
	case "temporal":
		if clients.Temporal == nil {
			return errors.New("temporal client missing")
		}
		w := worker.New(clients.Temporal, cfg.TemporalTaskQueue, worker.Options{})
		workflows.Register(w)
		activities.Register(w, activities.New(clients.NewPipeline(nil, logger), clients.Store))
		logger.Printf("querybot worker polling %s queue=%s", cfg.TemporalAddress, cfg.TemporalTaskQueue)
		stopCh := make(chan interface{})
		go func() {
			<-ctx.Done()
			close(stopCh)
		}()
		return w.Run(stopCh)
	default:
		runner, err := clients.IngestRunner(nil, logger)
		if err != nil {
			return err
		}
		logger.Printf("querybot worker consuming %s from %s", cfg.QueueKey, cfg.RedisAddr)
		return runner.Run(ctx)
	}
}
