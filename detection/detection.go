// Package detection defines the raw input contract between the external
// vision model and the threat-graph pipeline. Detections are treated as an
// opaque, untrusted sequence: no ordering guarantee, labels are free-form
// strings, and bounding boxes arrive in pixel coordinates.
package detection

import (
	"encoding/json"
	"fmt"
	"io"
)

// RawDetection is a single raw output from the external vision model.
type RawDetection struct {
	// Label is the free-form class label emitted by the model
	// (e.g., "Database", "api-gateway"). Unrecognized labels are not an
	// error; the normalizer maps them to the unknown component type.
	Label string `json:"label"`

	// Confidence is the model's confidence score in [0, 1].
	Confidence float64 `json:"confidence"`

	// Box locates the component in pixel coordinates.
	Box PixelBox `json:"box"`
}

// PixelBox is a bounding box in pixel coordinates, as produced by the
// vision model before normalization.
type PixelBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ImageDimensions carries the pixel dimensions of the analyzed image.
// They are required to normalize pixel boxes into [0,1] image space.
type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate checks that the dimensions describe a real image.
func (d ImageDimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d", d.Width, d.Height)
	}
	return nil
}

// Batch is one image's worth of detections plus the image dimensions,
// the unit of work for a single analysis run.
type Batch struct {
	// Image is an optional caller-supplied identifier (e.g., file name).
	Image string `json:"image,omitempty"`

	Dimensions ImageDimensions `json:"dimensions"`

	Detections []RawDetection `json:"detections"`
}

// Validate checks the batch-level contract. Individual detections are not
// validated here; the normalizer skips malformed ones and records
// diagnostics rather than rejecting the batch.
func (b *Batch) Validate() error {
	if err := b.Dimensions.Validate(); err != nil {
		return err
	}
	return nil
}

// DecodeBatch reads a JSON-encoded Batch from r.
func DecodeBatch(r io.Reader) (*Batch, error) {
	var b Batch
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode detection batch: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection batch: %w", err)
	}
	return &b, nil
}
