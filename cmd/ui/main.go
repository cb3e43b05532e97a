package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"querybot/internal/client"
	"querybot/internal/config"
	"querybot/internal/ui"
)

func main() {
	_ = godotenv.Load(".env")
	logger := log.New(os.Stdout, "[UI] ", log.LstdFlags)
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

	// Queries wait on the LLM, so the client gets the LLM budget plus slack.
	api := client.New(cfg.APIBaseURL, cfg.LLMTimeout+cfg.EmbedTimeout)
	srv := ui.NewServer(api, logger)
	errCh := make(chan error, 1)
	go func() {
		logger.Printf("querybot ui listening on %s (api %s)", cfg.UIAddr, cfg.APIBaseURL)
		errCh <- srv.Start(cfg.UIAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
