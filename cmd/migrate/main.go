package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"querybot/internal/config"
	"querybot/internal/storage"
)

func migrateCmd(direction, short string) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   direction,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := storage.Migrate(cmd.Context(), cfg.PostgresURL, direction, steps); err != nil {
				return err
			}
			log.Printf("migrate %s: done", direction)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")
	return cmd
}

func main() {
	_ = godotenv.Load(".env")
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply QueryBot database migrations",
		SilenceUsage: true,
	}
	root.AddCommand(
		migrateCmd("up", "Apply pending migrations"),
		migrateCmd("down", "Roll back migrations"),
	)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
