package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the OpenTelemetry metric instruments for the
// analysis pipeline. All instruments are counters keyed per run.
type PipelineMetrics struct {
	// componentsCounter counts components that survived normalization.
	componentsCounter metric.Int64Counter

	// relationshipsCounter counts inferred relationships.
	relationshipsCounter metric.Int64Counter

	// findingsCounter counts emitted findings.
	findingsCounter metric.Int64Counter
}

// NewPipelineMetrics creates and initializes all pipeline metric
// instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	m.componentsCounter, err = meter.Int64Counter(
		"stride.components",
		metric.WithDescription("Number of components produced by normalization"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create components counter: %w", err)
	}

	m.relationshipsCounter, err = meter.Int64Counter(
		"stride.relationships",
		metric.WithDescription("Number of inferred relationships"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create relationships counter: %w", err)
	}

	m.findingsCounter, err = meter.Int64Counter(
		"stride.findings",
		metric.WithDescription("Number of findings emitted"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create findings counter: %w", err)
	}

	return m, nil
}

// RecordGraph records the component and relationship counts for one run.
func (m *PipelineMetrics) RecordGraph(ctx context.Context, components, relationships int) {
	m.componentsCounter.Add(ctx, int64(components))
	m.relationshipsCounter.Add(ctx, int64(relationships))
}

// RecordFindings records the finding count for one run.
func (m *PipelineMetrics) RecordFindings(ctx context.Context, findings int) {
	m.findingsCounter.Add(ctx, int64(findings))
}
