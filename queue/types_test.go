package queue

import (
	"testing"
	"time"

	"github.com/zero-day-ai/stride/detection"
)

func validJob() Job {
	return Job{
		JobID:      "550e8400-e29b-41d4-a716-446655440000",
		Image:      "diagram.png",
		Dimensions: detection.ImageDimensions{Width: 1920, Height: 1080},
		Detections: []detection.RawDetection{
			{Label: "server", Confidence: 0.9, Box: detection.PixelBox{X: 10, Y: 10, Width: 100, Height: 100}},
		},
		SubmittedAt: time.Now().UnixMilli(),
	}
}

func TestJob_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Job)
		wantErr bool
	}{
		{"valid job", func(*Job) {}, false},
		{"empty detections allowed", func(j *Job) { j.Detections = nil }, false},
		{"missing job ID", func(j *Job) { j.JobID = "" }, true},
		{"missing image", func(j *Job) { j.Image = "" }, true},
		{"zero dimensions", func(j *Job) { j.Dimensions = detection.ImageDimensions{} }, true},
		{"zero submitted_at", func(j *Job) { j.SubmittedAt = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := validJob()
			tt.mutate(&j)
			err := j.IsValid()
			if (err != nil) != tt.wantErr {
				t.Errorf("IsValid() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJob_Age(t *testing.T) {
	j := validJob()
	j.SubmittedAt = time.Now().Add(-time.Second).UnixMilli()
	if age := j.Age(); age < 900*time.Millisecond {
		t.Errorf("Age() = %v, want about a second", age)
	}

	j.SubmittedAt = 0
	if age := j.Age(); age != 0 {
		t.Errorf("Age() with zero submitted_at = %v, want 0", age)
	}
}

func TestJob_Batch(t *testing.T) {
	j := validJob()
	batch := j.Batch()
	if batch.Image != j.Image {
		t.Errorf("Batch().Image = %q, want %q", batch.Image, j.Image)
	}
	if len(batch.Detections) != len(j.Detections) {
		t.Errorf("len(Batch().Detections) = %d, want %d", len(batch.Detections), len(j.Detections))
	}
}

func validResult() Result {
	now := time.Now().UnixMilli()
	return Result{
		JobID:       "550e8400-e29b-41d4-a716-446655440000",
		Markdown:    "# STRIDE Threat Model Report",
		RecordJSON:  "{}",
		WorkerID:    "host-1-abcd1234",
		StartedAt:   now - 100,
		CompletedAt: now,
	}
}

func TestResult_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Result)
		wantErr bool
	}{
		{"valid result", func(*Result) {}, false},
		{
			"error result without markdown",
			func(r *Result) { r.Markdown = ""; r.RecordJSON = ""; r.Error = "boom" },
			false,
		},
		{"missing job ID", func(r *Result) { r.JobID = "" }, true},
		{"missing worker ID", func(r *Result) { r.WorkerID = "" }, true},
		{"zero started_at", func(r *Result) { r.StartedAt = 0 }, true},
		{"completed before started", func(r *Result) { r.CompletedAt = r.StartedAt - 1 }, true},
		{"success without markdown", func(r *Result) { r.Markdown = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResult()
			tt.mutate(&r)
			err := r.IsValid()
			if (err != nil) != tt.wantErr {
				t.Errorf("IsValid() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResult_Duration(t *testing.T) {
	r := validResult()
	if d := r.Duration(); d != 100*time.Millisecond {
		t.Errorf("Duration() = %v, want 100ms", d)
	}

	r.StartedAt = 0
	if d := r.Duration(); d != 0 {
		t.Errorf("Duration() with zero started_at = %v, want 0", d)
	}
}

func TestResult_HasError(t *testing.T) {
	r := validResult()
	if r.HasError() {
		t.Error("HasError() = true for successful result")
	}
	r.Error = "analysis failed"
	if !r.HasError() {
		t.Error("HasError() = false for failed result")
	}
}
