package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	stride "github.com/zero-day-ai/stride"
	"github.com/zero-day-ai/stride/worker"
)

// WorkerCmd creates the worker command, which runs a pool of analysis
// workers against the Redis job queue.
func WorkerCmd() *cobra.Command {
	var (
		redisURL        string
		concurrency     int
		shutdownTimeout time.Duration
		ruleSrc         ruleFlags
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run analysis workers against the Redis job queue",
		Long: `Worker connects to Redis, blocks on the shared job queue, and runs the
analysis pipeline for each submitted detection batch. Results are
published to the job's result channel.

The process runs until SIGTERM or SIGINT, then drains in-flight jobs
before exiting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := ruleSrc.loadTable(cmd.Context())
			if err != nil {
				return err
			}

			analyzer, err := stride.NewAnalyzer(
				stride.WithRuleTable(table),
				stride.WithLogger(slog.Default()),
			)
			if err != nil {
				return err
			}

			return worker.Run(analyzer, worker.Options{
				RedisURL:        redisURL,
				Concurrency:     concurrency,
				ShutdownTimeout: shutdownTimeout,
				Logger:          slog.Default(),
			})
		},
	}

	cmd.Flags().StringVar(&redisURL, "redis", "redis://localhost:6379", "Redis connection URL")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of worker goroutines")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	ruleSrc.register(cmd)

	return cmd
}
