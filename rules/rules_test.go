package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/stride/finding"
	"github.com/zero-day-ai/stride/graph"
)

// completePack is a minimal pack satisfying the completeness invariant:
// one node rule per component type.
const completePack = `
version: "test"
rules:
  - component_type: server
    role: node
    category: tampering
    description: "Server {{.ID}} may be tampered with."
    countermeasure: "Harden it."
  - component_type: database
    role: node
    category: information_disclosure
    description: "Database data may leak."
    countermeasure: "Encrypt it."
  - component_type: user
    role: node
    category: spoofing
    description: "User may be impersonated."
    countermeasure: "Require MFA."
  - component_type: load_balancer
    role: node
    category: denial_of_service
    description: "LB may be saturated."
    countermeasure: "Add redundancy."
  - component_type: api
    role: node
    category: spoofing
    description: "API callers may be forged."
    countermeasure: "Validate tokens."
  - component_type: unknown
    role: node
    category: information_disclosure
    description: "Unclassified component."
    countermeasure: "Classify it."
`

func TestLoad_CompletePack(t *testing.T) {
	table, err := Load([]byte(completePack))
	require.NoError(t, err)
	assert.Equal(t, "test", table.Version())
	assert.Equal(t, 6, table.Len())
	require.NoError(t, table.Weights().Validate())
}

func TestLoad_IncompletePack(t *testing.T) {
	// Drop the unknown rule; the pack must be rejected.
	pack := strings.Replace(completePack, `  - component_type: unknown
    role: node
    category: information_disclosure
    description: "Unclassified component."
    countermeasure: "Classify it."
`, "", 1)

	_, err := Load([]byte(pack))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
	assert.Contains(t, err.Error(), "unknown")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		pack string
	}{
		{"empty pack", `version: "v"` + "\nrules: []"},
		{"missing version", strings.Replace(completePack, `version: "test"`, "", 1)},
		{
			"bad component type",
			strings.Replace(completePack, "component_type: server", "component_type: mainframe", 1),
		},
		{
			"bad category",
			strings.Replace(completePack, "category: tampering", "category: sabotage", 1),
		},
		{
			"bad template",
			strings.Replace(completePack, "Server {{.ID}} may be tampered with.", "Server {{.ID may be tampered with.", 1),
		},
		{
			"bad severity weight key",
			"severity_weights:\n  sabotage: 5\n" + completePack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.pack))
			assert.Error(t, err)
		})
	}
}

func TestLoad_SeverityWeightOverlay(t *testing.T) {
	pack := "severity_weights:\n  repudiation: 9.0\n" + completePack

	table, err := Load([]byte(pack))
	require.NoError(t, err)

	weights := table.Weights()
	assert.Equal(t, 9.0, weights[finding.CategoryRepudiation])
	// Unmentioned categories keep their defaults.
	assert.Equal(t, finding.DefaultWeights()[finding.CategoryTampering], weights[finding.CategoryTampering])
}

func TestLoad_GuardExpression(t *testing.T) {
	pack := strings.Replace(completePack, `    description: "Server {{.ID}} may be tampered with."`,
		`    when: "confidence > 0.5"
    description: "Server {{.ID}} may be tampered with."`, 1)

	table, err := Load([]byte(pack))
	require.NoError(t, err)

	entries := table.NodeEntries(graph.TypeServer)
	require.Len(t, entries, 1)

	applies, err := entries[0].Applies(Subject{Type: "server", Confidence: 0.9})
	require.NoError(t, err)
	assert.True(t, applies)

	applies, err = entries[0].Applies(Subject{Type: "server", Confidence: 0.3})
	require.NoError(t, err)
	assert.False(t, applies)
}

func TestLoad_GuardMustBeBool(t *testing.T) {
	pack := strings.Replace(completePack, `    description: "Server {{.ID}} may be tampered with."`,
		`    when: "confidence + 1.0"
    description: "Server {{.ID}} may be tampered with."`, 1)

	_, err := Load([]byte(pack))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bool")
}

func TestEntry_Render(t *testing.T) {
	table, err := Load([]byte(completePack))
	require.NoError(t, err)

	entries := table.NodeEntries(graph.TypeServer)
	require.Len(t, entries, 1)

	desc, counter, err := entries[0].Render(TemplateData{
		Component:  "Server",
		ID:         "server:abc",
		Type:       "server",
		Confidence: 0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, "Server server:abc may be tampered with.", desc)
	assert.Equal(t, "Harden it.", counter)
}

func TestEntry_RenderMissingFieldFails(t *testing.T) {
	pack := strings.Replace(completePack, "Server {{.ID}} may be tampered with.",
		"Server {{.Hostname}} may be tampered with.", 1)

	table, err := Load([]byte(pack))
	require.NoError(t, err)

	entries := table.NodeEntries(graph.TypeServer)
	require.Len(t, entries, 1)

	_, _, err = entries[0].Render(TemplateData{ID: "server:abc"})
	assert.Error(t, err, "referencing a field absent from TemplateData must fail loudly")
}

func TestTable_EntryOrdering(t *testing.T) {
	table := Default()

	for _, ct := range graph.AllComponentTypes() {
		entries := table.NodeEntries(ct)
		require.NotEmpty(t, entries, "completeness invariant: %s needs node entries", ct)
		for i := 1; i < len(entries); i++ {
			assert.LessOrEqual(t, string(entries[i-1].Category), string(entries[i].Category),
				"node entries for %s must be ordered by category", ct)
		}
	}
}

func TestDefault_EmbeddedPack(t *testing.T) {
	table := Default()
	assert.NotEmpty(t, table.Version())
	assert.NoError(t, table.Weights().Validate())

	// The default pack carries edge rules for the canonical user -> api flow.
	assert.NotEmpty(t, table.EdgeSourceEntries(graph.TypeUser))
	assert.NotEmpty(t, table.EdgeTargetEntries(graph.TypeAPI))
}
