package report

import (
	"fmt"
	"sort"

	"github.com/zero-day-ai/stride/finding"
	"github.com/zero-day-ai/stride/graph"
	"github.com/zero-day-ai/stride/rules"
)

// Options adjusts report composition.
type Options struct {
	// Image is an optional identifier of the analyzed diagram, echoed in
	// the report header.
	Image string
}

// Compose groups and orders findings into a Report.
//
// Subjects are ordered components-first using the graph's canonical
// component order, then relationships in graph order. Within each subject,
// findings are ordered by descending score with category name as
// tie-break. The markdown document and the structured record are derived
// from the same intermediate form and agree exactly.
func Compose(g *graph.ThreatGraph, findings []finding.Finding, table *rules.Table, opts Options) (*Report, error) {
	for i := range findings {
		if err := findings[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid finding at index %d: %w", i, err)
		}
	}

	record := Record{
		Image:           opts.Image,
		RulePackVersion: table.Version(),
		Summary: Summary{
			TotalComponents:    len(g.Components),
			TotalRelationships: len(g.Relationships),
			TotalFindings:      len(findings),
			BySeverity:         make(map[string]int),
			ByCategory:         make(map[string]int),
		},
	}

	for _, d := range g.Diagnostics {
		record.Diagnostics = append(record.Diagnostics, d.String())
	}

	bySubject := make(map[string][]finding.Finding)
	for _, f := range findings {
		bySubject[f.SubjectID] = append(bySubject[f.SubjectID], f)

		record.Summary.BySeverity[string(f.SeverityLabel())]++
		record.Summary.ByCategory[f.Category.String()]++
	}

	for i := range g.Components {
		c := &g.Components[i]
		record.Components = append(record.Components, ComponentRecord{
			ID:         c.ID,
			Type:       c.Type.String(),
			Display:    c.Type.DisplayName(),
			Confidence: c.Confidence,
		})
		record.Subjects = append(record.Subjects, SubjectFindings{
			SubjectKind: finding.SubjectComponent.String(),
			SubjectID:   c.ID,
			Display:     fmt.Sprintf("%s (`%s`)", c.Type.DisplayName(), c.ID),
			Findings:    toFindingRecords(bySubject[c.ID]),
		})
	}

	for i := range g.Relationships {
		r := &g.Relationships[i]
		record.Flows = append(record.Flows, FlowRecord{
			SourceID:   r.SourceID,
			TargetID:   r.TargetID,
			Kind:       r.Kind.String(),
			Confidence: r.Confidence,
		})
		record.Subjects = append(record.Subjects, SubjectFindings{
			SubjectKind: finding.SubjectRelationship.String(),
			SubjectID:   r.Key(),
			Display:     fmt.Sprintf("Flow `%s` → `%s`", r.SourceID, r.TargetID),
			SourceID:    r.SourceID,
			TargetID:    r.TargetID,
			Findings:    toFindingRecords(bySubject[r.Key()]),
		})
	}

	record.Summary.HighestFinding = highestFinding(record.Subjects)
	if record.Summary.HighestFinding != nil {
		record.Summary.OverallRisk = record.Summary.HighestFinding.Severity
	}

	return &Report{
		Markdown: renderMarkdown(&record),
		Record:   record,
	}, nil
}

// toFindingRecords converts and orders one subject's findings: descending
// score, category name ascending as tie-break.
func toFindingRecords(findings []finding.Finding) []FindingRecord {
	records := make([]FindingRecord, 0, len(findings))
	for _, f := range findings {
		records = append(records, FindingRecord{
			Category:       f.Category.String(),
			Display:        f.Category.DisplayName(),
			Severity:       f.SeverityLabel(),
			Score:          f.Score,
			Description:    f.Description,
			Countermeasure: f.Countermeasure,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].Category < records[j].Category
	})
	return records
}

// highestFinding picks the single highest-severity finding across all
// subjects. Subjects are already ordered canonically and each subject's
// findings descend by score, so the first finding with the maximum score
// wins deterministically.
func highestFinding(subjects []SubjectFindings) *FindingRecord {
	var best *FindingRecord
	for i := range subjects {
		for j := range subjects[i].Findings {
			f := &subjects[i].Findings[j]
			if best == nil || f.Score > best.Score {
				best = f
			}
		}
	}
	if best == nil {
		return nil
	}
	copied := *best
	return &copied
}
