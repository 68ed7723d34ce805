package graph

import (
	"fmt"
	"math"

	"github.com/zero-day-ai/stride/detection"
)

// canonicalFlows records the canonical data-flow direction between
// component types. When a pair of adjacent components matches an entry,
// the inferred edge is oriented source -> target accordingly.
var canonicalFlows = map[ComponentType]map[ComponentType]bool{
	TypeUser: {
		TypeAPI:          true,
		TypeLoadBalancer: true,
		TypeServer:       true,
	},
	TypeAPI: {
		TypeServer:   true,
		TypeDatabase: true,
	},
	TypeLoadBalancer: {
		TypeServer: true,
		TypeAPI:    true,
	},
	TypeServer: {
		TypeDatabase: true,
	},
}

// Proximity computes the adjacency score for two boxes: the inverse of the
// normalized center distance scaled by the image diagonal, clamped to
// [0, 1]. Coincident centers score 1; opposite corners score 0.
func Proximity(a, b detection.BoundingBox) float64 {
	score := 1 - a.CenterDistance(b)/math.Sqrt2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// InferRelationships derives directed communicates_with edges between
// components using spatial adjacency as a proxy for architectural
// adjacency.
//
// For every unordered pair of distinct components whose proximity score
// exceeds cfg.ProximityThreshold, exactly one directed edge is created.
// When the pair's types have a canonical flow direction the edge follows
// it; otherwise the edge runs from the component earlier in the canonical
// (X, Y) ordering to the later one. Materializing a single canonical edge
// per pair keeps edge-keyed findings from double-counting symmetric
// relationships.
//
// Fewer than two components yields an empty edge set. The components slice
// must already be in normalized order (as produced by Normalize).
func InferRelationships(components []DetectedComponent, cfg Config) ([]Relationship, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph config: %w", err)
	}

	var relationships []Relationship
	for i := 0; i < len(components); i++ {
		for j := i + 1; j < len(components); j++ {
			score := Proximity(components[i].Box, components[j].Box)
			if score <= cfg.ProximityThreshold {
				continue
			}

			source, target := orient(&components[i], &components[j])
			relationships = append(relationships, Relationship{
				SourceID:   source.ID,
				TargetID:   target.ID,
				Kind:       KindCommunicatesWith,
				Confidence: score,
			})
		}
	}
	return relationships, nil
}

// orient decides edge direction for a component pair. a precedes b in the
// canonical component ordering.
func orient(a, b *DetectedComponent) (source, target *DetectedComponent) {
	if canonicalFlows[a.Type][b.Type] {
		return a, b
	}
	if canonicalFlows[b.Type][a.Type] {
		return b, a
	}
	return a, b
}

// Build runs normalization and relationship inference, producing the
// complete threat graph for one image.
func Build(detections []detection.RawDetection, dims detection.ImageDimensions, cfg Config) (*ThreatGraph, error) {
	components, diagnostics, err := Normalize(detections, dims, cfg)
	if err != nil {
		return nil, err
	}

	relationships, err := InferRelationships(components, cfg)
	if err != nil {
		return nil, err
	}

	g := &ThreatGraph{
		Components:    components,
		Relationships: relationships,
		Diagnostics:   diagnostics,
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("built graph failed validation: %w", err)
	}
	return g, nil
}
