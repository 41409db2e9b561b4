package main

import (
	"fmt"
	"os"
	"strings"

	formstate "github.com/goliatone/go-formstate"
	"gopkg.in/yaml.v3"
)

// Scenario describes a form and the interactions to replay against it.
type Scenario struct {
	ID            string         `yaml:"id"`
	Engine        string         `yaml:"engine"`
	HistoryLength *int           `yaml:"history_length"`
	Baseline      map[string]any `yaml:"baseline"`
	Fields        []FieldSpec    `yaml:"fields"`
	ContextRules  []ContextRule  `yaml:"context_rules"`
	Steps         []Step         `yaml:"steps"`
}

// FieldSpec declares the rules of one field and whether it is exported.
type FieldSpec struct {
	Name    string `yaml:"name"`
	Exclude bool   `yaml:"exclude"`
	Rules   []Rule `yaml:"rules"`
}

// Rule is an expression validator. The expression sees the field's display
// value as value.
type Rule struct {
	Name    string `yaml:"name"`
	Expr    string `yaml:"expr"`
	Message string `yaml:"message"`
}

// ContextRule is a cross-field expression validator reporting on Field.
type ContextRule struct {
	Name     string   `yaml:"name"`
	Field    string   `yaml:"field"`
	Triggers []string `yaml:"triggers"`
	Expr     string   `yaml:"expr"`
	Message  string   `yaml:"message"`
}

// Step is one interaction. Exactly one of its members must be set.
type Step struct {
	Update       *UpdateStep    `yaml:"update"`
	Blur         string         `yaml:"blur"`
	Rewind       int            `yaml:"rewind"`
	Advance      int            `yaml:"advance"`
	Reset        bool           `yaml:"reset"`
	ResetHistory bool           `yaml:"reset_history"`
	Snapshot     bool           `yaml:"snapshot"`
	Load         map[string]any `yaml:"load"`
	RemoveRule   string         `yaml:"remove_rule"`
}

// UpdateStep assigns Value to Field.
type UpdateStep struct {
	Field string `yaml:"field"`
	Value any    `yaml:"value"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %q: %w", path, err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes a YAML scenario.
func ParseScenario(raw []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(raw, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if strings.TrimSpace(scenario.ID) == "" {
		scenario.ID = "formreplay"
	}
	for i, field := range scenario.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return nil, fmt.Errorf("field %d: name is required", i)
		}
	}
	for i, rule := range scenario.ContextRules {
		if strings.TrimSpace(rule.Field) == "" {
			return nil, fmt.Errorf("context rule %d: field is required", i)
		}
	}
	return &scenario, nil
}

// newEvaluator returns the evaluator for engine, falling back to the
// scenario's engine and then to expr.
func (s *Scenario) newEvaluator(engine string) (formstate.Evaluator, error) {
	if engine == "" {
		engine = s.Engine
	}
	registry := formstate.NewFormFunctionRegistry()
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", "expr":
		return formstate.NewExprEvaluator(
			formstate.ExprWithFunctionRegistry(registry),
			formstate.ExprWithProgramCache(formstate.NewMemoryProgramCache()),
		), nil
	case "cel":
		return formstate.NewCELEvaluator(
			formstate.CELWithFunctionRegistry(registry),
			formstate.CELWithProgramCache(formstate.NewMemoryProgramCache()),
		), nil
	case "js":
		evaluator := formstate.NewJSEvaluator(formstate.JSWithFunctionRegistry(registry))
		if evaluator == nil {
			return nil, fmt.Errorf("js engine: %w (build with -tags js_eval)", formstate.ErrEvaluatorRequired)
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}

func (s Step) actions() int {
	count := 0
	for _, set := range []bool{
		s.Update != nil,
		s.Blur != "",
		s.Rewind != 0,
		s.Advance != 0,
		s.Reset,
		s.ResetHistory,
		s.Snapshot,
		s.Load != nil,
		s.RemoveRule != "",
	} {
		if set {
			count++
		}
	}
	return count
}
