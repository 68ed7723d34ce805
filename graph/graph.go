// Package graph converts raw vision-model detections into a deduplicated
// threat graph: normalized components plus spatially inferred relationships.
//
// The pipeline is deterministic: identical detections, image dimensions,
// and configuration always produce an identical graph, with component
// ordering derived from explicit sort keys rather than input arrival order.
package graph

import "fmt"

// Diagnostic records a detection that was skipped during normalization.
// Skipping a malformed detection is not an error condition; the diagnostic
// preserves what happened for the report and the caller's logs.
type Diagnostic struct {
	// Index is the detection's position in the raw input sequence.
	Index int `json:"index"`

	// Label is the raw label of the skipped detection.
	Label string `json:"label"`

	// Reason explains why the detection was skipped.
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("detection %d (%q): %s", d.Index, d.Label, d.Reason)
}

// ThreatGraph is the set of components and relationships derived from one
// image. It is not required to be connected or acyclic, is owned
// exclusively by one analysis run, and is never mutated after building.
type ThreatGraph struct {
	// Components are ordered ascending by (Box.X, Box.Y); this ordering
	// is the canonical subject order for reports.
	Components []DetectedComponent `json:"components"`

	// Relationships are the inferred directed edges.
	Relationships []Relationship `json:"relationships"`

	// Diagnostics records detections skipped during normalization.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Component returns the component with the given ID, or nil if absent.
func (g *ThreatGraph) Component(id string) *DetectedComponent {
	for i := range g.Components {
		if g.Components[i].ID == id {
			return &g.Components[i]
		}
	}
	return nil
}

// Validate checks graph-level invariants: valid components, valid edges,
// edges referencing existing components, and no duplicate edge triples.
func (g *ThreatGraph) Validate() error {
	ids := make(map[string]struct{}, len(g.Components))
	for i := range g.Components {
		if err := g.Components[i].Validate(); err != nil {
			return fmt.Errorf("invalid component at index %d: %w", i, err)
		}
		if _, dup := ids[g.Components[i].ID]; dup {
			return fmt.Errorf("duplicate component ID: %s", g.Components[i].ID)
		}
		ids[g.Components[i].ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(g.Relationships))
	for i := range g.Relationships {
		r := &g.Relationships[i]
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid relationship at index %d: %w", i, err)
		}
		if _, ok := ids[r.SourceID]; !ok {
			return fmt.Errorf("relationship at index %d references unknown source %s", i, r.SourceID)
		}
		if _, ok := ids[r.TargetID]; !ok {
			return fmt.Errorf("relationship at index %d references unknown target %s", i, r.TargetID)
		}
		if _, dup := seen[r.Key()]; dup {
			return fmt.Errorf("duplicate relationship: %s", r.Key())
		}
		seen[r.Key()] = struct{}{}
	}
	return nil
}
