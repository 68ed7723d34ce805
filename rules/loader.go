package rules

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/stride/finding"
	"github.com/zero-day-ai/stride/graph"
)

//go:embed defaults.yaml
var defaultPack []byte

// packDocument is the YAML shape of a rule pack.
type packDocument struct {
	// Version identifies the rule pack revision.
	Version string `yaml:"version"`

	// SeverityWeights optionally overrides the default per-category base
	// severities. Omitted categories keep their defaults.
	SeverityWeights map[string]float64 `yaml:"severity_weights,omitempty"`

	Rules []packRule `yaml:"rules"`
}

// packRule is one YAML rule entry.
type packRule struct {
	ComponentType  string `yaml:"component_type"`
	Role           string `yaml:"role"`
	Category       string `yaml:"category"`
	Description    string `yaml:"description"`
	Countermeasure string `yaml:"countermeasure"`
	When           string `yaml:"when,omitempty"`
}

// Load parses and compiles a rule pack from YAML bytes.
//
// Loading fails if the pack is malformed, a template or guard does not
// compile, or the completeness invariant is violated (any component type
// without a node-role entry). A failed load must abort the caller: the
// engine refuses to run rather than produce partial analyses.
func Load(data []byte) (*Table, error) {
	var doc packDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule pack: %w", err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("rule pack contains no rules")
	}

	weights := finding.DefaultWeights()
	for name, weight := range doc.SeverityWeights {
		category, err := finding.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("invalid severity weight key: %w", err)
		}
		weights[category] = weight
	}

	env, err := newGuardEnv()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(doc.Rules))
	for i, r := range doc.Rules {
		componentType, err := graph.ParseComponentType(r.ComponentType)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		category, err := finding.ParseCategory(r.Category)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}

		entry := &Entry{
			ComponentType:  componentType,
			Role:           Role(r.Role),
			Category:       category,
			Description:    r.Description,
			Countermeasure: r.Countermeasure,
			When:           r.When,
		}
		if err := entry.compile(i, env); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return newTable(doc.Version, weights, entries)
}

// LoadFile reads and loads a rule pack from a YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule pack %s: %w", path, err)
	}
	return Load(data)
}

// Default loads the embedded default rule pack. The embedded pack is part
// of the binary and always satisfies the completeness invariant; a failure
// here indicates a broken build and panics.
func Default() *Table {
	table, err := Load(defaultPack)
	if err != nil {
		panic(fmt.Sprintf("embedded rule pack is invalid: %v", err))
	}
	return table
}
