// Package worker runs a pool of analysis workers against the Redis job
// queue.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	stride "github.com/zero-day-ai/stride"
	"github.com/zero-day-ai/stride/queue"
)

// Options configures the worker behavior.
type Options struct {
	// RedisURL is the Redis connection string (e.g., "redis://localhost:6379")
	RedisURL string

	// Concurrency is the number of worker goroutines to start.
	// Defaults to 4.
	Concurrency int

	// ShutdownTimeout is the time to wait for graceful shutdown.
	// Defaults to 30s.
	ShutdownTimeout time.Duration

	// Logger is the structured logger for worker operations.
	// If nil, a JSON logger writing to stdout is created.
	Logger *slog.Logger
}

// Run starts the worker loop for the given analyzer with the specified
// options. It connects to Redis, starts N worker goroutines based on
// Concurrency, maintains a heartbeat, and handles graceful shutdown on
// SIGTERM/SIGINT.
//
// Each worker goroutine:
//  1. Pops a job from the queue
//  2. Runs the analysis pipeline on the job's detections
//  3. Publishes the report back to the job's result channel
//
// The function blocks until a shutdown signal is received or an error
// occurs. On shutdown, it waits for all workers to finish their current
// jobs before returning.
//
// Returns an error if the Redis connection fails.
func Run(analyzer *stride.Analyzer, opts Options) error {
	if opts.RedisURL == "" {
		opts.RedisURL = "redis://localhost:6379"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	workerID := generateWorkerID()
	logger := opts.Logger.With("worker_id", workerID)

	logger.Info("worker starting",
		"concurrency", opts.Concurrency,
		"redis_url", opts.RedisURL,
	)

	client, err := queue.NewRedisClient(queue.RedisOptions{
		URL: opts.RedisURL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go runHeartbeat(heartbeatCtx, client, workerID, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func(workerNum int) {
			defer wg.Done()
			workerLoop(ctx, workerNum, analyzer, client, workerID, logger)
		}(i)
	}

	logger.Info("worker started",
		"workers", opts.Concurrency,
		"queue", queue.AnalysisQueue,
	)

	sig := <-sigChan
	logger.Info("received signal, initiating graceful shutdown", "signal", sig)

	cancel()

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		logger.Info("worker shutdown complete")
	case <-time.After(opts.ShutdownTimeout):
		logger.Warn("worker shutdown timeout exceeded", "timeout", opts.ShutdownTimeout)
	}

	return nil
}

// runHeartbeat sends periodic heartbeats to advertise worker liveness.
// It runs in a goroutine and stops when the context is cancelled.
func runHeartbeat(ctx context.Context, client queue.Client, workerID string, logger *slog.Logger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	logger.Debug("heartbeat goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Debug("heartbeat goroutine stopped")
			return
		case <-ticker.C:
			if err := client.Heartbeat(ctx, workerID); err != nil {
				// Heartbeat failures are transient, keep the noise down
				logger.Debug("heartbeat failed", "error", err)
			}
		}
	}
}

// workerLoop is the main loop for a single worker goroutine. It
// continuously pops jobs from the queue, processes them, and publishes
// results until the context is cancelled.
func workerLoop(ctx context.Context, workerNum int, analyzer *stride.Analyzer, client queue.Client, workerID string, logger *slog.Logger) {
	logger = logger.With("worker_num", workerNum)
	logger.Debug("worker loop started", "queue", queue.AnalysisQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("worker loop stopped", "reason", "context_cancelled")
			return
		default:
		}

		job, err := client.Pop(ctx, queue.AnalysisQueue)
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("worker loop stopped", "reason", "context_error")
				return
			}
			logger.Error("failed to pop job", "error", err)
			continue
		}

		if job == nil {
			continue
		}

		logger.Info("received job",
			"job_id", job.JobID,
			"image", job.Image,
			"detections", len(job.Detections),
			"wait_ms", job.Age().Milliseconds(),
		)

		result := processJob(ctx, analyzer, job, workerID, logger)

		if err := client.Publish(ctx, queue.ResultChannel(job.JobID), result); err != nil {
			logger.Error("failed to publish result", "error", err)
		}
	}
}

// processJob runs the pipeline for a single job and returns a result.
// It handles all errors at each step and ensures a result is always
// returned.
func processJob(ctx context.Context, analyzer *stride.Analyzer, job *queue.Job, workerID string, logger *slog.Logger) queue.Result {
	result := queue.Result{
		JobID:     job.JobID,
		WorkerID:  workerID,
		StartedAt: time.Now().UnixMilli(),
	}

	if err := job.IsValid(); err != nil {
		result.Error = fmt.Sprintf("invalid job: %v", err)
		result.CompletedAt = time.Now().UnixMilli()
		logger.Error("invalid job", "job_id", job.JobID, "error", err)
		return result
	}

	rep, err := analyzer.Run(ctx, job.Batch())
	if err != nil {
		result.Error = err.Error()
		result.CompletedAt = time.Now().UnixMilli()
		logger.Error("analysis failed", "job_id", job.JobID, "error", err)
		return result
	}

	recordJSON, err := json.Marshal(rep.Record)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal record: %v", err)
		result.CompletedAt = time.Now().UnixMilli()
		logger.Error("failed to marshal record", "job_id", job.JobID, "error", err)
		return result
	}

	result.Markdown = rep.Markdown
	result.RecordJSON = string(recordJSON)
	result.CompletedAt = time.Now().UnixMilli()

	logger.Info("job completed",
		"job_id", job.JobID,
		"duration_ms", result.CompletedAt-result.StartedAt,
	)

	return result
}

// generateWorkerID creates a unique identifier for this worker instance.
// Uses hostname + PID + UUID for uniqueness.
func generateWorkerID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	pid := os.Getpid()
	id := uuid.New().String()[:8]

	return fmt.Sprintf("%s-%d-%s", hostname, pid, id)
}
