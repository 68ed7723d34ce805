// Package commands implements the stride CLI.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/stride/rules"
)

// Version is the CLI version, overridable at build time.
var Version = "0.1.0"

// RootCmd creates and returns the root command for the stride CLI.
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "stride",
		Short: "STRIDE threat analysis for architecture diagrams",
		Long: `stride turns vision-model detections of architecture diagrams into
deterministic STRIDE threat reports.

Detections go through a three-stage pipeline: normalization into a
deduplicated component set, spatial relationship inference, and
data-driven rule resolution into per-subject findings.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}

// ruleFlags is the shared rule-pack source selection: an explicit YAML
// file, an etcd endpoint, or the embedded defaults.
type ruleFlags struct {
	rulesFile      string
	rulesEndpoints []string
	rulesKey       string
}

func (f *ruleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.rulesFile, "rules", "", "Path to a rule pack YAML file (default: embedded pack)")
	cmd.Flags().StringSliceVar(&f.rulesEndpoints, "rules-endpoint", nil, "etcd endpoints to fetch the rule pack from")
	cmd.Flags().StringVar(&f.rulesKey, "rules-key", "", "etcd key holding the rule pack (default: stride/rulepack)")
}

// loadTable resolves the rule table from the configured source. File and
// endpoint sources are mutually exclusive; neither means the embedded
// defaults.
func (f *ruleFlags) loadTable(ctx context.Context) (*rules.Table, error) {
	if f.rulesFile != "" && len(f.rulesEndpoints) > 0 {
		return nil, fmt.Errorf("--rules and --rules-endpoint are mutually exclusive")
	}

	switch {
	case f.rulesFile != "":
		table, err := rules.LoadFile(f.rulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule pack %s: %w", f.rulesFile, err)
		}
		return table, nil

	case len(f.rulesEndpoints) > 0:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		table, err := rules.LoadRemote(ctx, rules.RemoteConfig{
			Endpoints: f.rulesEndpoints,
			Key:       f.rulesKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load remote rule pack: %w", err)
		}
		return table, nil

	default:
		return rules.Default(), nil
	}
}
