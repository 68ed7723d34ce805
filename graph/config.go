package graph

import "fmt"

// Default thresholds for graph construction.
const (
	// DefaultMinConfidence is the minimum detection confidence retained
	// by the normalizer.
	DefaultMinConfidence = 0.25

	// DefaultIoUMergeThreshold is the Intersection-over-Union above which
	// two detections are considered the same physical component.
	DefaultIoUMergeThreshold = 0.5

	// DefaultProximityThreshold is the minimum proximity score at which
	// two components are assumed to communicate. The proximity score is
	// 1 - dist/sqrt(2) over normalized center distance, so 0.6 connects
	// components occupying roughly adjacent thirds of the diagram while
	// leaving far-apart components unconnected.
	DefaultProximityThreshold = 0.6
)

// Config holds the thresholds used to build a threat graph. The zero value
// is not usable; construct with DefaultConfig and override fields as needed.
type Config struct {
	// MinConfidence drops detections below this confidence.
	MinConfidence float64

	// IoUMergeThreshold merges detections whose boxes overlap above this
	// IoU into a single component.
	IoUMergeThreshold float64

	// ProximityThreshold creates a relationship when the proximity score
	// of a component pair exceeds this value.
	ProximityThreshold float64
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		MinConfidence:      DefaultMinConfidence,
		IoUMergeThreshold:  DefaultIoUMergeThreshold,
		ProximityThreshold: DefaultProximityThreshold,
	}
}

// Validate checks that all thresholds are in range.
func (c Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min confidence must be between 0.0 and 1.0, got %f", c.MinConfidence)
	}
	if c.IoUMergeThreshold <= 0 || c.IoUMergeThreshold > 1 {
		return fmt.Errorf("IoU merge threshold must be in (0.0, 1.0], got %f", c.IoUMergeThreshold)
	}
	if c.ProximityThreshold <= 0 || c.ProximityThreshold >= 1 {
		return fmt.Errorf("proximity threshold must be in (0.0, 1.0), got %f", c.ProximityThreshold)
	}
	return nil
}
