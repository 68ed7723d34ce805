// Package stride turns architecture-diagram component detections into a
// structured STRIDE threat report.
//
// The pipeline is a single synchronous pass per image:
//
//	detections → graph.Build → Analyze → report.Compose
//
// BuildThreatGraph normalizes raw detections into a deduplicated component
// set and infers communicates_with relationships from spatial adjacency.
// Analyze resolves the applicable threat findings for every node and edge
// by consulting a data-driven rule table. ComposeReport renders the
// findings into a deterministic markdown document and an equivalent
// structured record.
//
// All three operations are pure: given identical inputs and thresholds
// they produce identical outputs, and no shared mutable state exists
// between runs. The rule table is loaded once and read-only afterwards,
// so any number of analyses may run concurrently against it.
//
// Basic usage:
//
//	table := rules.Default()
//	analyzer, err := stride.NewAnalyzer(stride.WithRuleTable(table))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rep, err := analyzer.Run(ctx, batch)
package stride
