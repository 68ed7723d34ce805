package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/stride/queue"
)

// SubmitCmd creates the submit command, which pushes a detection batch
// onto the Redis job queue and waits for a worker to return the report.
func SubmitCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		redisURL   string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a detection batch to the worker queue",
		Long: `Submit reads a JSON detection batch, pushes it onto the shared Redis
job queue, and blocks until a worker publishes the report or the timeout
expires.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := readBatch(inputPath)
			if err != nil {
				return err
			}

			client, err := queue.NewRedisClient(queue.RedisOptions{URL: redisURL})
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			job := queue.Job{
				JobID:       uuid.New().String(),
				Image:       batch.Image,
				Dimensions:  batch.Dimensions,
				Detections:  batch.Detections,
				SubmittedAt: time.Now().UnixMilli(),
			}

			// Subscribe before pushing so the result cannot be missed.
			results, err := client.Subscribe(ctx, queue.ResultChannel(job.JobID))
			if err != nil {
				return err
			}

			if err := client.Push(ctx, queue.AnalysisQueue, job); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return fmt.Errorf("timed out waiting for result of job %s", job.JobID)
			case result, ok := <-results:
				if !ok {
					return fmt.Errorf("result stream closed before job %s completed", job.JobID)
				}
				if result.HasError() {
					return fmt.Errorf("analysis failed: %s", result.Error)
				}
				return writeOutput(outputPath, []byte(result.Markdown))
			}
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Detection batch JSON file (default: stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Markdown report output file (default: stdout)")
	cmd.Flags().StringVar(&redisURL, "redis", "redis://localhost:6379", "Redis connection URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Maximum time to wait for the report")

	return cmd
}
