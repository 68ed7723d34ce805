package queue

import (
	"fmt"
	"time"

	"github.com/zero-day-ai/stride/detection"
)

// Job represents a single analysis request submitted to the work queue.
// It carries everything a worker needs to run the pipeline end to end.
type Job struct {
	// JobID is a UUID that correlates the job with its result.
	JobID string `json:"job_id"`

	// Image is the identifier of the source diagram (path or URL).
	Image string `json:"image"`

	// Dimensions are the pixel dimensions of the source image.
	Dimensions detection.ImageDimensions `json:"dimensions"`

	// Detections are the raw vision-model detections to analyze.
	Detections []detection.RawDetection `json:"detections"`

	// SubmittedAt is the Unix timestamp in milliseconds when the job was
	// submitted.
	SubmittedAt int64 `json:"submitted_at"`
}

// Result represents the outcome of processing a Job. It is published to
// a job-specific pub/sub channel for the submitter to collect.
type Result struct {
	// JobID correlates this result with the original job.
	JobID string `json:"job_id"`

	// Markdown is the rendered report. Empty if Error is set.
	Markdown string `json:"markdown,omitempty"`

	// RecordJSON is the structured report record serialized as JSON.
	// Empty if Error is set.
	RecordJSON string `json:"record_json,omitempty"`

	// Error is the error message if the analysis failed.
	Error string `json:"error,omitempty"`

	// WorkerID is the unique identifier of the worker that processed the
	// job.
	WorkerID string `json:"worker_id"`

	// StartedAt is the Unix timestamp in milliseconds when processing
	// started.
	StartedAt int64 `json:"started_at"`

	// CompletedAt is the Unix timestamp in milliseconds when processing
	// completed.
	CompletedAt int64 `json:"completed_at"`
}

// IsValid checks if the Job has all required fields populated correctly.
// Returns an error describing any validation failures.
func (j *Job) IsValid() error {
	if j.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if j.Image == "" {
		return fmt.Errorf("image is required")
	}
	if err := j.Dimensions.Validate(); err != nil {
		return fmt.Errorf("invalid dimensions: %w", err)
	}
	if j.SubmittedAt <= 0 {
		return fmt.Errorf("submitted_at must be positive, got %d", j.SubmittedAt)
	}
	return nil
}

// Age returns the duration since this job was submitted. Useful for
// detecting stale jobs and computing queue wait time.
func (j *Job) Age() time.Duration {
	if j.SubmittedAt <= 0 {
		return 0
	}
	now := time.Now().UnixMilli()
	return time.Duration(now-j.SubmittedAt) * time.Millisecond
}

// Batch converts the job payload into a detection batch for the pipeline.
func (j *Job) Batch() *detection.Batch {
	return &detection.Batch{
		Image:      j.Image,
		Dimensions: j.Dimensions,
		Detections: j.Detections,
	}
}

// HasError returns true if the result represents a failed analysis.
func (r *Result) HasError() bool {
	return r.Error != ""
}

// Duration returns the wall-clock time the worker spent on the job.
func (r *Result) Duration() time.Duration {
	if r.StartedAt <= 0 || r.CompletedAt <= 0 {
		return 0
	}
	return time.Duration(r.CompletedAt-r.StartedAt) * time.Millisecond
}

// IsValid checks if the Result has all required fields populated correctly.
func (r *Result) IsValid() error {
	if r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if r.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if r.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", r.StartedAt)
	}
	if r.CompletedAt <= 0 {
		return fmt.Errorf("completed_at must be positive, got %d", r.CompletedAt)
	}
	if r.CompletedAt < r.StartedAt {
		return fmt.Errorf("completed_at (%d) cannot be before started_at (%d)", r.CompletedAt, r.StartedAt)
	}
	if !r.HasError() && r.Markdown == "" {
		return fmt.Errorf("markdown is required when error is empty")
	}
	return nil
}
