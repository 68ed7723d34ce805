package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	stride "github.com/zero-day-ai/stride"
	"github.com/zero-day-ai/stride/detection"
)

// AnalyzeCmd creates the analyze command, which runs the full pipeline on
// a detection batch and writes the report.
func AnalyzeCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		jsonPath   string
		ruleSrc    ruleFlags

		minConfidence float64
		iouThreshold  float64
		proximity     float64
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a detection batch and write a STRIDE report",
		Long: `Analyze reads a JSON detection batch (as produced by the vision stage),
runs the threat-graph pipeline, and writes the markdown report.

The batch format:

  {
    "image": "diagram.png",
    "dimensions": {"width": 1920, "height": 1080},
    "detections": [
      {"label": "Database", "confidence": 0.92,
       "box": {"x": 100, "y": 200, "width": 300, "height": 150}}
    ]
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := readBatch(inputPath)
			if err != nil {
				return err
			}

			table, err := ruleSrc.loadTable(cmd.Context())
			if err != nil {
				return err
			}

			cfg := stride.DefaultConfig()
			if cmd.Flags().Changed("min-confidence") {
				cfg.MinConfidence = minConfidence
			}
			if cmd.Flags().Changed("iou-threshold") {
				cfg.IoUMergeThreshold = iouThreshold
			}
			if cmd.Flags().Changed("proximity-threshold") {
				cfg.ProximityThreshold = proximity
			}

			analyzer, err := stride.NewAnalyzer(
				stride.WithRuleTable(table),
				stride.WithConfig(cfg),
				stride.WithLogger(slog.Default()),
			)
			if err != nil {
				return err
			}

			rep, err := analyzer.Run(cmd.Context(), batch)
			if err != nil {
				return err
			}

			if err := writeOutput(outputPath, []byte(rep.Markdown)); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			if jsonPath != "" {
				data, err := json.MarshalIndent(rep.Record, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal record: %w", err)
				}
				if err := writeOutput(jsonPath, append(data, '\n')); err != nil {
					return fmt.Errorf("failed to write record: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Detection batch JSON file (default: stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Markdown report output file (default: stdout)")
	cmd.Flags().StringVar(&jsonPath, "json-output", "", "Also write the structured record as JSON to this file")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.25, "Drop detections below this confidence")
	cmd.Flags().Float64Var(&iouThreshold, "iou-threshold", 0.5, "Merge detections overlapping above this IoU")
	cmd.Flags().Float64Var(&proximity, "proximity-threshold", 0.6, "Relate components closer than this proximity score")
	ruleSrc.register(cmd)

	return cmd
}

// readBatch decodes a detection batch from the given path, or stdin when
// the path is empty.
func readBatch(path string) (*detection.Batch, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	batch, err := detection.DecodeBatch(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode detection batch: %w", err)
	}
	return batch, nil
}

// writeOutput writes data to the given path, or stdout when the path is
// empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
