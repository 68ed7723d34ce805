// Package report composes STRIDE findings into a deterministic report:
// a human-readable markdown document and a structured record that agree
// exactly on content and ordering.
//
// Composition is a pure function of its inputs. The composed output
// contains no wall-clock data, so identical (graph, findings, rule table)
// inputs always produce byte-identical documents.
package report

import "github.com/zero-day-ai/stride/finding"

// Record is the machine-readable representation of a report, for
// programmatic consumers. Field order and slice ordering mirror the
// markdown document exactly.
type Record struct {
	// Image is the caller-supplied identifier of the analyzed diagram,
	// empty when not provided.
	Image string `json:"image,omitempty"`

	// RulePackVersion is the version of the rule table used.
	RulePackVersion string `json:"rule_pack_version"`

	Summary Summary `json:"summary"`

	// Components lists the analyzed components in canonical order.
	Components []ComponentRecord `json:"components"`

	// Flows lists the inferred relationships in canonical order.
	Flows []FlowRecord `json:"flows"`

	// Subjects groups findings per subject: components first, then
	// flows, each in canonical order.
	Subjects []SubjectFindings `json:"subjects"`

	// Diagnostics lists detections skipped during normalization.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Summary is the report's headline block.
type Summary struct {
	TotalComponents    int `json:"total_components"`
	TotalRelationships int `json:"total_relationships"`
	TotalFindings      int `json:"total_findings"`

	// OverallRisk is the severity label of the highest-scoring finding,
	// empty when there are no findings.
	OverallRisk finding.Label `json:"overall_risk,omitempty"`

	// HighestFinding is the single highest-severity finding, nil when
	// there are no findings.
	HighestFinding *FindingRecord `json:"highest_finding,omitempty"`

	// BySeverity counts findings per severity label.
	BySeverity map[string]int `json:"by_severity"`

	// ByCategory counts findings per STRIDE category.
	ByCategory map[string]int `json:"by_category"`
}

// ComponentRecord describes one analyzed component.
type ComponentRecord struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Display    string  `json:"display"`
	Confidence float64 `json:"confidence"`
}

// FlowRecord describes one inferred relationship.
type FlowRecord struct {
	SourceID   string  `json:"source_id"`
	TargetID   string  `json:"target_id"`
	Kind       string  `json:"kind"`
	Confidence float64 `json:"confidence"`
}

// SubjectFindings is one subject's finding group, ordered by descending
// score with category name as tie-break.
type SubjectFindings struct {
	SubjectKind string `json:"subject_kind"`
	SubjectID   string `json:"subject_id"`

	// Display is the heading used in the markdown document.
	Display string `json:"display"`

	SourceID string `json:"source_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`

	Findings []FindingRecord `json:"findings"`
}

// FindingRecord is one finding as it appears in the report.
type FindingRecord struct {
	Category       string        `json:"category"`
	Display        string        `json:"category_display"`
	Severity       finding.Label `json:"severity"`
	Score          float64       `json:"score"`
	Description    string        `json:"description"`
	Countermeasure string        `json:"countermeasure"`
}

// Report bundles the two equivalent representations of one analysis run.
type Report struct {
	// Markdown is the human-readable document.
	Markdown string `json:"markdown"`

	// Record is the structured equivalent of Markdown.
	Record Record `json:"record"`
}
