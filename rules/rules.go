// Package rules provides the STRIDE rule table: a fixed, versioned,
// read-only mapping from component types and relationship roles to threat
// templates.
//
// The table is data, not code. It is loaded once (from the embedded
// default pack, a YAML file, or a remote source), validated for
// completeness, and never mutated afterwards, which makes it safely
// shareable across any number of concurrent analysis runs. Adding a new
// component type or threat is an addition to the pack, never a change to
// the resolution algorithm.
package rules

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/zero-day-ai/stride/finding"
	"github.com/zero-day-ai/stride/graph"
)

// Role says which part of the graph a rule applies to.
type Role string

const (
	// RoleNode matches a component by its type.
	RoleNode Role = "node"

	// RoleEdgeSource matches a relationship by its source component's
	// type.
	RoleEdgeSource Role = "edge_source"

	// RoleEdgeTarget matches a relationship by its target component's
	// type.
	RoleEdgeTarget Role = "edge_target"
)

// IsValid returns true if the role is valid.
func (r Role) IsValid() bool {
	switch r {
	case RoleNode, RoleEdgeSource, RoleEdgeTarget:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// TemplateData is the rendering context for rule templates. Node rules see
// Component, ID, Type, and Confidence; edge rules additionally see Source
// and Target. Referencing any other field fails the render loudly, which
// is the intended behavior for a malformed pack.
type TemplateData struct {
	// Component is the display name of the subject component's type.
	Component string

	// ID is the subject component's ID (node rules) or the relationship
	// key (edge rules).
	ID string

	// Type is the canonical type string of the matched component.
	Type string

	// Source and Target are the display names of the endpoint types for
	// edge rules; empty for node rules.
	Source string
	Target string

	// Confidence is the subject's confidence.
	Confidence float64
}

// Entry is one row of the rule table: a (component type, role) key mapped
// to a threat category with description and countermeasure templates and
// an optional CEL guard.
type Entry struct {
	ComponentType graph.ComponentType
	Role          Role
	Category      finding.Category

	// Description and Countermeasure are the raw template sources.
	Description    string
	Countermeasure string

	// When is an optional CEL expression guarding applicability,
	// evaluated against the subject's attributes. Empty means always
	// applicable.
	When string

	descTmpl    *template.Template
	counterTmpl *template.Template
	guard       *guard
}

// compile parses the entry's templates and guard expression. Called once
// at table load time.
func (e *Entry) compile(idx int, env *guardEnv) error {
	if !e.ComponentType.IsValid() {
		return fmt.Errorf("rule %d: invalid component type %q", idx, e.ComponentType)
	}
	if !e.Role.IsValid() {
		return fmt.Errorf("rule %d: invalid role %q", idx, e.Role)
	}
	if !e.Category.IsValid() {
		return fmt.Errorf("rule %d: invalid category %q", idx, e.Category)
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("rule %d: description is required", idx)
	}
	if strings.TrimSpace(e.Countermeasure) == "" {
		return fmt.Errorf("rule %d: countermeasure is required", idx)
	}

	name := fmt.Sprintf("rule-%d", idx)
	descTmpl, err := template.New(name + "-description").Parse(e.Description)
	if err != nil {
		return fmt.Errorf("rule %d: invalid description template: %w", idx, err)
	}
	counterTmpl, err := template.New(name + "-countermeasure").Parse(e.Countermeasure)
	if err != nil {
		return fmt.Errorf("rule %d: invalid countermeasure template: %w", idx, err)
	}
	e.descTmpl = descTmpl
	e.counterTmpl = counterTmpl

	if e.When != "" {
		g, err := env.compile(e.When)
		if err != nil {
			return fmt.Errorf("rule %d: invalid when expression: %w", idx, err)
		}
		e.guard = g
	}
	return nil
}

// Applies evaluates the entry's guard against the subject attributes.
// Entries without a guard always apply.
func (e *Entry) Applies(subject Subject) (bool, error) {
	if e.guard == nil {
		return true, nil
	}
	return e.guard.eval(subject)
}

// Render renders the entry's description and countermeasure templates.
// A template referencing a field absent from TemplateData is a pack
// authoring error and fails the render.
func (e *Entry) Render(data TemplateData) (description, countermeasure string, err error) {
	var desc strings.Builder
	if err := e.descTmpl.Execute(&desc, data); err != nil {
		return "", "", fmt.Errorf("failed to render description for %s/%s/%s: %w", e.ComponentType, e.Role, e.Category, err)
	}
	var counter strings.Builder
	if err := e.counterTmpl.Execute(&counter, data); err != nil {
		return "", "", fmt.Errorf("failed to render countermeasure for %s/%s/%s: %w", e.ComponentType, e.Role, e.Category, err)
	}
	return desc.String(), counter.String(), nil
}

// Table is the loaded, immutable rule table. All lookup methods return
// entries in a deterministic order (category, then pack order).
type Table struct {
	version string
	weights finding.Weights
	entries []*Entry

	byNode   map[graph.ComponentType][]*Entry
	bySource map[graph.ComponentType][]*Entry
	byTarget map[graph.ComponentType][]*Entry
}

// Version returns the rule pack version string.
func (t *Table) Version() string {
	return t.version
}

// Weights returns the per-category base severity weights of this table.
func (t *Table) Weights() finding.Weights {
	return t.weights
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// NodeEntries returns the node-role entries for a component type.
func (t *Table) NodeEntries(ct graph.ComponentType) []*Entry {
	return t.byNode[ct]
}

// EdgeSourceEntries returns the edge_source entries keyed on the given
// source component type.
func (t *Table) EdgeSourceEntries(ct graph.ComponentType) []*Entry {
	return t.bySource[ct]
}

// EdgeTargetEntries returns the edge_target entries keyed on the given
// target component type.
func (t *Table) EdgeTargetEntries(ct graph.ComponentType) []*Entry {
	return t.byTarget[ct]
}

// newTable indexes and validates a compiled entry set.
//
// The completeness invariant is enforced here: every enumerated component
// type must have at least one node-role entry, so even unknown components
// yield findings instead of silently vanishing from the report. A table
// that fails the invariant is a fatal configuration error.
func newTable(version string, weights finding.Weights, entries []*Entry) (*Table, error) {
	if version == "" {
		return nil, fmt.Errorf("rule pack version is required")
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid severity weights: %w", err)
	}

	t := &Table{
		version:  version,
		weights:  weights,
		entries:  entries,
		byNode:   make(map[graph.ComponentType][]*Entry),
		bySource: make(map[graph.ComponentType][]*Entry),
		byTarget: make(map[graph.ComponentType][]*Entry),
	}

	for _, e := range entries {
		switch e.Role {
		case RoleNode:
			t.byNode[e.ComponentType] = append(t.byNode[e.ComponentType], e)
		case RoleEdgeSource:
			t.bySource[e.ComponentType] = append(t.bySource[e.ComponentType], e)
		case RoleEdgeTarget:
			t.byTarget[e.ComponentType] = append(t.byTarget[e.ComponentType], e)
		}
	}

	for _, index := range []map[graph.ComponentType][]*Entry{t.byNode, t.bySource, t.byTarget} {
		for _, bucket := range index {
			sort.SliceStable(bucket, func(i, j int) bool {
				return bucket[i].Category < bucket[j].Category
			})
		}
	}

	var missing []string
	for _, ct := range graph.AllComponentTypes() {
		if len(t.byNode[ct]) == 0 {
			missing = append(missing, ct.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("rule table is incomplete: no node-role entries for component types: %s", strings.Join(missing, ", "))
	}

	return t, nil
}
