package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"AgencyPulse/internal/app"
	"AgencyPulse/internal/config"
	"AgencyPulse/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agencypulse",
		Short:         "Batch sentiment pipeline over public-agency mentions",
		Long:          "Ingests agency mentions from Reddit, YouTube and GDELT, normalizes them into one canonical dataset, scores sentiment and rolls monthly aggregates for reporting.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		stageCmd("ingest", "Fetch raw mention partitions from all configured sources",
			func(ctx context.Context, a *app.Application) error { return a.Ingest(ctx) }),
		stageCmd("normalize", "Merge raw partitions into the canonical dataset",
			func(ctx context.Context, a *app.Application) error { return a.Normalize(ctx) }),
		stageCmd("score", "Attach sentiment labels and confidence scores",
			func(ctx context.Context, a *app.Application) error { return a.Score(ctx) }),
		stageCmd("aggregate", "Roll scored records into the monthly aggregate table",
			func(ctx context.Context, a *app.Application) error { return a.Aggregate(ctx) }),
		stageCmd("run", "Execute the full pipeline once",
			func(ctx context.Context, a *app.Application) error { return a.Run(ctx) }),
		stageCmd("schedule", "Run the full pipeline on the configured cron expression",
			func(ctx context.Context, a *app.Application) error { return a.Schedule(ctx) }),
	)

	return root
}

// stageCmd wraps one pipeline step as a standalone subcommand; every
// stage reads and writes only the fixed dataset locations from config,
// so steps can run as separate process invocations.
func stageCmd(use, short string, run func(context.Context, *app.Application) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				logger.Error("startup failed", "error", err)
				return err
			}
			defer application.Close()

			if err := run(ctx, application); err != nil {
				logger.Error("stage failed", "stage", use, "error", err)
				return err
			}
			return nil
		},
	}
}
