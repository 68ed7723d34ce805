// Package finding defines STRIDE threat findings: one threat category
// instance attributed to a specific component or relationship, with a
// description, countermeasure, and derived severity score.
package finding

import "fmt"

// SubjectKind identifies what a finding is attributed to.
type SubjectKind string

const (
	// SubjectComponent attributes a finding to a single component.
	SubjectComponent SubjectKind = "component"

	// SubjectRelationship attributes a finding to a directed
	// relationship between two components.
	SubjectRelationship SubjectKind = "relationship"
)

// IsValid returns true if the subject kind is valid.
func (k SubjectKind) IsValid() bool {
	return k == SubjectComponent || k == SubjectRelationship
}

// String returns the string representation of the subject kind.
func (k SubjectKind) String() string {
	return string(k)
}

// Finding is one STRIDE threat attributed to a component or relationship.
// Findings are produced by the reasoner and consumed by the report
// composer; they are value objects and never mutated after creation.
type Finding struct {
	// SubjectKind says whether the finding concerns a component or a
	// relationship.
	SubjectKind SubjectKind `json:"subject_kind"`

	// SubjectID is the component ID for component findings, or the
	// relationship key for relationship findings.
	SubjectID string `json:"subject_id"`

	// SourceID and TargetID are set for relationship findings only.
	SourceID string `json:"source_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`

	// Category is the STRIDE category of the threat.
	Category Category `json:"category"`

	// Description explains the specific threat, rendered from the
	// matched rule's template.
	Description string `json:"description"`

	// Countermeasure is actionable mitigation guidance, rendered from
	// the matched rule's template.
	Countermeasure string `json:"countermeasure"`

	// Confidence is the subject's confidence carried over from the
	// graph.
	Confidence float64 `json:"confidence"`

	// Score is the derived severity: base category weight times the
	// subject's confidence.
	Score float64 `json:"score"`
}

// SeverityLabel returns the report bucket for the finding's score.
func (f *Finding) SeverityLabel() Label {
	return LabelForScore(f.Score)
}

// Validate checks that the finding has all required fields set correctly.
func (f *Finding) Validate() error {
	if !f.SubjectKind.IsValid() {
		return fmt.Errorf("invalid subject kind: %s", f.SubjectKind)
	}
	if f.SubjectID == "" {
		return fmt.Errorf("subject ID is required")
	}
	if f.SubjectKind == SubjectRelationship {
		if f.SourceID == "" || f.TargetID == "" {
			return fmt.Errorf("relationship findings require source and target IDs")
		}
	}
	if !f.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", f.Category)
	}
	if f.Description == "" {
		return fmt.Errorf("description is required")
	}
	if f.Countermeasure == "" {
		return fmt.Errorf("countermeasure is required")
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %f", f.Confidence)
	}
	if f.Score < 0 {
		return fmt.Errorf("score cannot be negative, got %f", f.Score)
	}
	return nil
}
