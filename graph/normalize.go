package graph

import (
	"fmt"
	"sort"

	"github.com/zero-day-ai/stride/detection"
)

// candidate is a detection that survived validation and thresholding but
// has not yet been deduplicated.
type candidate struct {
	typ        ComponentType
	box        detection.BoundingBox
	confidence float64
}

// Normalize converts raw detections into canonical, deduplicated
// components.
//
// Detections with malformed bounding boxes or out-of-range confidence are
// skipped and recorded as diagnostics. Detections below cfg.MinConfidence
// are dropped. Labels map to the closed component-type enumeration with
// TypeUnknown as the guaranteed fallback. Surviving detections whose boxes
// overlap above cfg.IoUMergeThreshold merge into one component, keeping the
// higher-confidence detection.
//
// The returned components are ordered ascending by (X, Y) so that report
// ordering is stable regardless of input arrival order. An empty input
// yields an empty component set, not an error.
func Normalize(detections []detection.RawDetection, dims detection.ImageDimensions, cfg Config) ([]DetectedComponent, []Diagnostic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid graph config: %w", err)
	}
	if err := dims.Validate(); err != nil {
		return nil, nil, err
	}

	var candidates []candidate
	var diagnostics []Diagnostic

	for i, d := range detections {
		if d.Confidence < 0 || d.Confidence > 1 {
			diagnostics = append(diagnostics, Diagnostic{
				Index:  i,
				Label:  d.Label,
				Reason: fmt.Sprintf("confidence %g is outside [0, 1]", d.Confidence),
			})
			continue
		}

		box, err := d.Box.Normalize(dims)
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				Index:  i,
				Label:  d.Label,
				Reason: err.Error(),
			})
			continue
		}

		if d.Confidence < cfg.MinConfidence {
			continue
		}

		candidates = append(candidates, candidate{
			typ:        MapLabel(d.Label),
			box:        box,
			confidence: d.Confidence,
		})
	}

	merged := dedupe(candidates, cfg.IoUMergeThreshold)

	components := make([]DetectedComponent, 0, len(merged))
	for _, c := range merged {
		components = append(components, DetectedComponent{
			ID:         ComponentID(c.typ, c.box),
			Type:       c.typ,
			Box:        c.box,
			Confidence: c.confidence,
		})
	}

	sortComponents(components)
	return components, diagnostics, nil
}

// dedupe greedily merges candidates whose boxes overlap above the IoU
// threshold. Candidates are visited in descending confidence order so the
// higher-confidence type and box always survive; already-normalized input
// has no pair above the threshold, making normalization idempotent.
func dedupe(candidates []candidate, iouThreshold float64) []candidate {
	ordered := make([]candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].confidence != ordered[j].confidence {
			return ordered[i].confidence > ordered[j].confidence
		}
		if ordered[i].box.X != ordered[j].box.X {
			return ordered[i].box.X < ordered[j].box.X
		}
		return ordered[i].box.Y < ordered[j].box.Y
	})

	var kept []candidate
	for _, c := range ordered {
		duplicate := false
		for _, k := range kept {
			if c.box.IoU(k.box) > iouThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}

// sortComponents orders components ascending by (X, Y), with the remaining
// box dimensions and type as tie-breaks so the ordering is total.
func sortComponents(components []DetectedComponent) {
	sort.SliceStable(components, func(i, j int) bool {
		a, b := components[i], components[j]
		if a.Box.X != b.Box.X {
			return a.Box.X < b.Box.X
		}
		if a.Box.Y != b.Box.Y {
			return a.Box.Y < b.Box.Y
		}
		if a.Box.Width != b.Box.Width {
			return a.Box.Width < b.Box.Width
		}
		if a.Box.Height != b.Box.Height {
			return a.Box.Height < b.Box.Height
		}
		return a.Type < b.Type
	})
}
