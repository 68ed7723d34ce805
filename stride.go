package stride

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zero-day-ai/stride/detection"
	"github.com/zero-day-ai/stride/finding"
	"github.com/zero-day-ai/stride/graph"
	"github.com/zero-day-ai/stride/report"
	"github.com/zero-day-ai/stride/rules"
	"github.com/zero-day-ai/stride/telemetry"
)

// BuildThreatGraph converts raw detections into a threat graph. It is
// pure and deterministic given identical inputs and thresholds.
func BuildThreatGraph(detections []detection.RawDetection, dims detection.ImageDimensions, cfg Config) (*graph.ThreatGraph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewConfigurationError("BuildThreatGraph", err)
	}
	g, err := graph.Build(detections, dims, cfg.graphConfig())
	if err != nil {
		return nil, NewValidationError("BuildThreatGraph", err)
	}
	return g, nil
}

// Analyze resolves the applicable threat findings for every node and edge
// in the graph by consulting the rule table. It is a pure function: no
// I/O, no side effects, and a deterministic finding order (components in
// canonical graph order, then relationships, each expanded in rule-table
// order).
//
// Severity weights come from the table. A rule template referencing a
// missing field or a guard failing to evaluate is a programmer or pack
// authoring error and aborts the analysis loudly.
func Analyze(g *graph.ThreatGraph, table *rules.Table) ([]finding.Finding, error) {
	return analyze(g, table, table.Weights())
}

// analyze is the reasoner core, parameterized on severity weights so the
// engine configuration can override the table's defaults.
func analyze(g *graph.ThreatGraph, table *rules.Table, weights finding.Weights) ([]finding.Finding, error) {
	var findings []finding.Finding

	for i := range g.Components {
		c := &g.Components[i]
		subject := rules.Subject{
			Type:       c.Type.String(),
			Confidence: c.Confidence,
		}
		data := rules.TemplateData{
			Component:  c.Type.DisplayName(),
			ID:         c.ID,
			Type:       c.Type.String(),
			Confidence: c.Confidence,
		}

		for _, entry := range table.NodeEntries(c.Type) {
			applies, err := entry.Applies(subject)
			if err != nil {
				return nil, NewInternalError("Analyze", err)
			}
			if !applies {
				continue
			}

			description, countermeasure, err := entry.Render(data)
			if err != nil {
				return nil, NewInternalError("Analyze", err)
			}

			findings = append(findings, finding.Finding{
				SubjectKind:    finding.SubjectComponent,
				SubjectID:      c.ID,
				Category:       entry.Category,
				Description:    description,
				Countermeasure: countermeasure,
				Confidence:     c.Confidence,
				Score:          weights.Score(entry.Category, c.Confidence),
			})
		}
	}

	for i := range g.Relationships {
		r := &g.Relationships[i]
		source := g.Component(r.SourceID)
		target := g.Component(r.TargetID)
		if source == nil || target == nil {
			return nil, NewInternalError("Analyze",
				fmt.Errorf("relationship %s references a component missing from the graph", r.Key()))
		}

		subject := rules.Subject{
			SourceType: source.Type.String(),
			TargetType: target.Type.String(),
			Confidence: r.Confidence,
		}
		data := rules.TemplateData{
			ID:         r.Key(),
			Source:     source.Type.DisplayName(),
			Target:     target.Type.DisplayName(),
			Confidence: r.Confidence,
		}

		// Union of source-keyed and target-keyed matches, deduplicated
		// per category so an edge never carries the same category twice.
		seen := make(map[finding.Category]bool)
		entries := append([]*rules.Entry{}, table.EdgeSourceEntries(source.Type)...)
		entries = append(entries, table.EdgeTargetEntries(target.Type)...)

		for _, entry := range entries {
			if seen[entry.Category] {
				continue
			}

			applies, err := entry.Applies(subject)
			if err != nil {
				return nil, NewInternalError("Analyze", err)
			}
			if !applies {
				continue
			}
			seen[entry.Category] = true

			description, countermeasure, err := entry.Render(data)
			if err != nil {
				return nil, NewInternalError("Analyze", err)
			}

			findings = append(findings, finding.Finding{
				SubjectKind:    finding.SubjectRelationship,
				SubjectID:      r.Key(),
				SourceID:       r.SourceID,
				TargetID:       r.TargetID,
				Category:       entry.Category,
				Description:    description,
				Countermeasure: countermeasure,
				Confidence:     r.Confidence,
				Score:          weights.Score(entry.Category, r.Confidence),
			})
		}
	}

	return findings, nil
}

// ComposeReport renders findings into a markdown document and an
// equivalent structured record. Pure and deterministic.
func ComposeReport(g *graph.ThreatGraph, findings []finding.Finding, table *rules.Table, opts report.Options) (*report.Report, error) {
	rep, err := report.Compose(g, findings, table, opts)
	if err != nil {
		return nil, NewInternalError("ComposeReport", err)
	}
	return rep, nil
}

// Analyzer ties the pipeline stages together with shared configuration,
// logging, and telemetry. An Analyzer is immutable after construction and
// safe for concurrent use: each Run owns its graph and findings
// exclusively.
type Analyzer struct {
	cfg     Config
	table   *rules.Table
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.PipelineMetrics
}

// NewAnalyzer constructs an Analyzer. A rule table is required; the
// configuration defaults to DefaultConfig().
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		cfg:    DefaultConfig(),
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("stride"),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.table == nil {
		return nil, NewConfigurationError("NewAnalyzer", ErrNoRuleTable)
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, NewConfigurationError("NewAnalyzer", err)
	}
	return a, nil
}

// Run executes the full pipeline for one detection batch and returns the
// composed report. The run is bounded by input size; callers may impose
// an external timeout through ctx without the pipeline needing to
// cooperate.
func (a *Analyzer) Run(ctx context.Context, batch *detection.Batch) (*report.Report, error) {
	ctx, span := a.tracer.Start(ctx, "stride.Run",
		trace.WithAttributes(attribute.Int("detections", len(batch.Detections))))
	defer span.End()

	g, err := a.buildGraph(ctx, batch)
	if err != nil {
		return nil, err
	}

	findings, err := a.analyzeGraph(ctx, g)
	if err != nil {
		return nil, err
	}

	_, composeSpan := a.tracer.Start(ctx, "stride.Compose")
	rep, err := ComposeReport(g, findings, a.table, report.Options{Image: batch.Image})
	composeSpan.End()
	if err != nil {
		return nil, err
	}

	a.logger.Info("analysis complete",
		"image", batch.Image,
		"components", len(g.Components),
		"relationships", len(g.Relationships),
		"findings", len(findings),
	)
	return rep, nil
}

func (a *Analyzer) buildGraph(ctx context.Context, batch *detection.Batch) (*graph.ThreatGraph, error) {
	ctx, span := a.tracer.Start(ctx, "stride.BuildThreatGraph")
	defer span.End()

	g, err := BuildThreatGraph(batch.Detections, batch.Dimensions, a.cfg)
	if err != nil {
		return nil, err
	}

	for _, d := range g.Diagnostics {
		a.logger.Warn("detection skipped", "index", d.Index, "label", d.Label, "reason", d.Reason)
	}
	if a.metrics != nil {
		a.metrics.RecordGraph(ctx, len(g.Components), len(g.Relationships))
	}
	return g, nil
}

func (a *Analyzer) analyzeGraph(ctx context.Context, g *graph.ThreatGraph) ([]finding.Finding, error) {
	ctx, span := a.tracer.Start(ctx, "stride.Analyze")
	defer span.End()

	weights := a.table.Weights()
	if a.cfg.SeverityWeights != nil {
		weights = a.cfg.SeverityWeights
	}

	findings, err := analyze(g, a.table, weights)
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		a.metrics.RecordFindings(ctx, len(findings))
	}
	return findings, nil
}
