package graph

import "fmt"

// RelationKind describes the kind of a relationship between two components.
type RelationKind string

const (
	// KindCommunicatesWith is the only kind inferred purely from spatial
	// adjacency: two components close enough on the diagram are assumed
	// to exchange data.
	KindCommunicatesWith RelationKind = "communicates_with"
)

// IsValid returns true if the relation kind is valid.
func (k RelationKind) IsValid() bool {
	return k == KindCommunicatesWith
}

// String returns the string representation of the relation kind.
func (k RelationKind) String() string {
	return string(k)
}

// Relationship is a directed edge between two components in a threat graph.
// No two relationships in a graph share the same (SourceID, TargetID, Kind)
// triple, and SourceID never equals TargetID.
type Relationship struct {
	// SourceID references the source component's ID.
	SourceID string `json:"source_id"`

	// TargetID references the target component's ID.
	TargetID string `json:"target_id"`

	// Kind describes the relationship.
	Kind RelationKind `json:"kind"`

	// Confidence is the geometric proximity score clamped to [0,1].
	// It is a heuristic, not a probability.
	Confidence float64 `json:"confidence"`
}

// Key returns the (source, target, kind) triple identifying this edge
// within a graph.
func (r *Relationship) Key() string {
	return fmt.Sprintf("%s|%s|%s", r.SourceID, r.TargetID, r.Kind)
}

// Validate checks that the relationship has all required fields populated
// and does not reference itself.
func (r *Relationship) Validate() error {
	if r.SourceID == "" {
		return fmt.Errorf("relationship source ID cannot be empty")
	}
	if r.TargetID == "" {
		return fmt.Errorf("relationship target ID cannot be empty")
	}
	if r.SourceID == r.TargetID {
		return fmt.Errorf("relationship cannot reference itself: %s", r.SourceID)
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("invalid relation kind: %s", r.Kind)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %f", r.Confidence)
	}
	return nil
}
