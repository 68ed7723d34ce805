package graph

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/zero-day-ai/stride/detection"
)

// DetectedComponent is a normalized, deduplicated architecture component.
// Components are immutable after normalization; the graph they belong to is
// owned exclusively by one analysis run.
type DetectedComponent struct {
	// ID is a stable, content-addressed identifier assigned at
	// normalization time. Identical type and geometry always produce the
	// same ID, so report ordering and cross-run comparisons are stable.
	ID string `json:"id"`

	// Type is the canonical component type.
	Type ComponentType `json:"type"`

	// Box is the bounding box in normalized [0,1] image space.
	Box detection.BoundingBox `json:"box"`

	// Confidence is the detector's confidence in [0,1]. After an IoU
	// merge this is the confidence of the surviving detection.
	Confidence float64 `json:"confidence"`
}

// ComponentID generates the deterministic ID for a component of the given
// type and geometry.
//
// The ID format is {type}:{base64url(sha256(canonical)[:12])}, where the
// canonical string encodes the type and the box coordinates at fixed
// precision. The type prefix keeps IDs human-readable; the hash keeps them
// collision-resistant and stable across runs.
func ComponentID(t ComponentType, box detection.BoundingBox) string {
	canonical := fmt.Sprintf("%s:x=%.6f|y=%.6f|w=%.6f|h=%.6f", t, box.X, box.Y, box.Width, box.Height)
	hash := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("%s:%s", t, base64.RawURLEncoding.EncodeToString(hash[:12]))
}

// Validate checks that the component has all required fields set correctly.
func (c *DetectedComponent) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("component ID is required")
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid component type: %s", c.Type)
	}
	if err := c.Box.Validate(); err != nil {
		return fmt.Errorf("invalid bounding box: %w", err)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %f", c.Confidence)
	}
	return nil
}
