package report

import (
	"fmt"
	"strings"

	"github.com/zero-day-ai/stride/finding"
)

// renderMarkdown renders the structured record as a markdown document.
// Rendering is purely a projection of the record: every line is derived
// from record fields in record order, so the two representations cannot
// drift apart.
func renderMarkdown(record *Record) string {
	var b strings.Builder

	b.WriteString("# STRIDE Threat Model Report\n\n")
	if record.Image != "" {
		fmt.Fprintf(&b, "**Source diagram:** `%s`  \n", record.Image)
	}
	fmt.Fprintf(&b, "**Rule pack:** %s  \n", record.RulePackVersion)
	if record.Summary.OverallRisk != "" {
		fmt.Fprintf(&b, "**Overall risk:** %s\n", record.Summary.OverallRisk)
	} else {
		b.WriteString("**Overall risk:** None\n")
	}
	b.WriteString("\n---\n\n")

	renderSummary(&b, record)

	if len(record.Components) == 0 {
		b.WriteString("No components were found in the diagram.\n")
		return b.String()
	}

	renderComponents(&b, record)
	renderFlows(&b, record)
	renderSubjects(&b, record)
	renderRiskMatrix(&b, record)

	if len(record.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range record.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("*This report was generated automatically from an architecture diagram. Findings should be reviewed and validated by a qualified security professional.*\n")
	return b.String()
}

func renderSummary(b *strings.Builder, record *Record) {
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- Components: %d\n", record.Summary.TotalComponents)
	fmt.Fprintf(b, "- Relationships: %d\n", record.Summary.TotalRelationships)
	fmt.Fprintf(b, "- Findings: %d\n", record.Summary.TotalFindings)
	if hf := record.Summary.HighestFinding; hf != nil {
		fmt.Fprintf(b, "- Highest severity: %s (%s, score %.2f) — %s\n",
			hf.Severity, hf.Display, hf.Score, hf.Description)
	}
	b.WriteString("\n")
}

func renderComponents(b *strings.Builder, record *Record) {
	b.WriteString("## Components\n\n")
	b.WriteString("| # | ID | Type | Confidence |\n")
	b.WriteString("|---|----|------|------------|\n")
	for i, c := range record.Components {
		fmt.Fprintf(b, "| %d | `%s` | %s | %.2f |\n", i+1, c.ID, c.Display, c.Confidence)
	}
	b.WriteString("\n")
}

func renderFlows(b *strings.Builder, record *Record) {
	b.WriteString("## Data Flows\n\n")
	if len(record.Flows) == 0 {
		b.WriteString("No data flows were inferred.\n\n")
		return
	}
	for _, f := range record.Flows {
		fmt.Fprintf(b, "- `%s` → `%s` (%s, confidence %.2f)\n", f.SourceID, f.TargetID, f.Kind, f.Confidence)
	}
	b.WriteString("\n")
}

func renderSubjects(b *strings.Builder, record *Record) {
	b.WriteString("---\n\n## Findings\n\n")
	for _, s := range record.Subjects {
		fmt.Fprintf(b, "### %s\n\n", s.Display)
		if len(s.Findings) == 0 {
			b.WriteString("_No findings for this subject._\n\n")
			continue
		}
		b.WriteString("| Category | Severity | Score | Threat | Countermeasure |\n")
		b.WriteString("|----------|----------|-------|--------|----------------|\n")
		for _, f := range s.Findings {
			fmt.Fprintf(b, "| **%s** | %s | %.2f | %s | %s |\n",
				f.Display, f.Severity, f.Score, f.Description, f.Countermeasure)
		}
		b.WriteString("\n")
	}
}

func renderRiskMatrix(b *strings.Builder, record *Record) {
	b.WriteString("---\n\n## Risk Matrix\n\n")

	b.WriteString("### By Severity\n\n")
	b.WriteString("| Severity | Count |\n")
	b.WriteString("|----------|-------|\n")
	for _, label := range finding.AllLabels() {
		fmt.Fprintf(b, "| %s | %d |\n", label, record.Summary.BySeverity[string(label)])
	}
	b.WriteString("\n")

	b.WriteString("### By STRIDE Category\n\n")
	b.WriteString("| Category | Count |\n")
	b.WriteString("|----------|-------|\n")
	for _, c := range finding.AllCategories() {
		fmt.Fprintf(b, "| %s | %d |\n", c.DisplayName(), record.Summary.ByCategory[c.String()])
	}
	b.WriteString("\n")
}
