package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Subject carries the attributes a rule guard may reference. Node subjects
// set Type; edge subjects set SourceType and TargetType.
type Subject struct {
	Type       string
	SourceType string
	TargetType string
	Confidence float64
}

// guardEnv is the shared CEL environment for rule guard expressions.
// Guards see the subject's type attributes and confidence and must
// evaluate to a boolean.
type guardEnv struct {
	env *cel.Env
}

// newGuardEnv declares the guard variables. The environment is built once
// per table load; individual guards are compiled against it.
func newGuardEnv() (*guardEnv, error) {
	env, err := cel.NewEnv(
		cel.Variable("type", cel.StringType),
		cel.Variable("source_type", cel.StringType),
		cel.Variable("target_type", cel.StringType),
		cel.Variable("confidence", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule guard environment: %w", err)
	}
	return &guardEnv{env: env}, nil
}

// guard is a compiled CEL guard expression.
type guard struct {
	source  string
	program cel.Program
}

// compile parses, checks, and plans a guard expression. Any failure here
// is a pack authoring error surfaced at load time.
func (e *guardEnv) compile(source string) (*guard, error) {
	ast, issues := e.env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile %q: %w", source, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q must evaluate to bool, got %s", source, ast.OutputType())
	}
	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to plan %q: %w", source, err)
	}
	return &guard{source: source, program: program}, nil
}

// eval evaluates the guard against a subject.
func (g *guard) eval(subject Subject) (bool, error) {
	out, _, err := g.program.Eval(map[string]any{
		"type":        subject.Type,
		"source_type": subject.SourceType,
		"target_type": subject.TargetType,
		"confidence":  subject.Confidence,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate guard %q: %w", g.source, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("guard %q returned non-boolean value %v", g.source, out.Value())
	}
	return result, nil
}
