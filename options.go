package stride

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/stride/finding"
	"github.com/zero-day-ai/stride/graph"
	"github.com/zero-day-ai/stride/rules"
	"github.com/zero-day-ai/stride/telemetry"
)

// Config is the explicit configuration surface of the engine. All
// thresholds have documented defaults; there are no hidden globals.
type Config struct {
	// MinConfidence drops detections below this confidence during
	// normalization. Default 0.25.
	MinConfidence float64

	// IoUMergeThreshold merges detections whose boxes overlap above this
	// IoU into one component. Default 0.5.
	IoUMergeThreshold float64

	// ProximityThreshold creates a relationship when a component pair's
	// proximity score exceeds this value. Default 0.6.
	ProximityThreshold float64

	// SeverityWeights optionally overrides the rule table's per-category
	// base severities. Nil keeps the table's weights.
	SeverityWeights finding.Weights
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		MinConfidence:      graph.DefaultMinConfidence,
		IoUMergeThreshold:  graph.DefaultIoUMergeThreshold,
		ProximityThreshold: graph.DefaultProximityThreshold,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if err := c.graphConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.SeverityWeights != nil {
		if err := c.SeverityWeights.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// graphConfig projects the engine configuration onto the graph-building
// thresholds.
func (c Config) graphConfig() graph.Config {
	return graph.Config{
		MinConfidence:      c.MinConfidence,
		IoUMergeThreshold:  c.IoUMergeThreshold,
		ProximityThreshold: c.ProximityThreshold,
	}
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfig sets the engine configuration. If not provided,
// DefaultConfig() is used.
func WithConfig(cfg Config) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithRuleTable sets the rule table for the analyzer. The table must be
// loaded and validated before analysis; an analyzer without a table
// refuses to run.
func WithRuleTable(table *rules.Table) Option {
	return func(a *Analyzer) {
		a.table = table
	}
}

// WithLogger sets a custom logger. If not provided, slog.Default() is
// used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for the pipeline stages.
// If not provided, spans are not recorded.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Analyzer) {
		a.tracer = tracer
	}
}

// WithMetrics sets pipeline metrics instruments. If not provided, no
// measurements are recorded.
func WithMetrics(metrics *telemetry.PipelineMetrics) Option {
	return func(a *Analyzer) {
		a.metrics = metrics
	}
}
