package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	formstate "github.com/goliatone/go-formstate"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func replayYAML(t *testing.T, doc string) *Report {
	t.Helper()
	scenario, err := ParseScenario([]byte(doc))
	if err != nil {
		t.Fatalf("parse scenario: %v", err)
	}
	report, err := Replay(scenario, ReplayOptions{})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	return report
}

func TestRunCommandReplaysSignupScenario(t *testing.T) {
	for _, engine := range []string{"expr", "cel"} {
		t.Run(engine, func(t *testing.T) {
			out, err := execute(t, "run", "--engine", engine, "testdata/signup.yaml")
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			var report Report
			if err := json.Unmarshal([]byte(out), &report); err != nil {
				t.Fatalf("decode report: %v\n%s", err, out)
			}
			if report.FormID != "signup" {
				t.Fatalf("expected form id signup, got %q", report.FormID)
			}
			want := formstate.Record{"email": "ada@example.com", "password": "secret", "confirm": "secret"}
			if !reflect.DeepEqual(report.Data, want) {
				t.Fatalf("expected data %v, got %v", want, report.Data)
			}
			if !report.Valid || !report.Changed {
				t.Fatalf("expected valid changed form, got valid=%v changed=%v errors=%v", report.Valid, report.Changed, report.Errors)
			}
			if !reflect.DeepEqual(report.ChangedFields, []string{"confirm", "email", "password"}) {
				t.Fatalf("unexpected changed fields %v", report.ChangedFields)
			}
			if report.UndoCount != 3 || report.RedoCount != 0 || report.HistoryCount != 4 {
				t.Fatalf("unexpected counts undo=%d redo=%d history=%d", report.UndoCount, report.RedoCount, report.HistoryCount)
			}
			if len(report.Commits) != 3 {
				t.Fatalf("expected 3 commits, got %d", len(report.Commits))
			}
		})
	}
}

func TestRunCommandHistoryOverride(t *testing.T) {
	out, err := execute(t, "run", "--history", "0", "testdata/signup.yaml")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var report Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.HistoryCount != formstate.HistoryDisabled || report.UndoCount != formstate.HistoryDisabled {
		t.Fatalf("expected disabled history, got undo=%d history=%d", report.UndoCount, report.HistoryCount)
	}
	if len(report.Commits) != 3 {
		t.Fatalf("expected commits without history, got %d", len(report.Commits))
	}
}

func TestCheckCommandCountsRules(t *testing.T) {
	out, err := execute(t, "check", "testdata/signup.yaml")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out != "ok: 2 field rules, 1 context rules, 6 steps\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunCommandRejectsUnknownEngine(t *testing.T) {
	_, err := execute(t, "run", "--engine", "lua", "testdata/signup.yaml")
	if err == nil || !strings.Contains(err.Error(), `unknown engine "lua"`) {
		t.Fatalf("expected unknown engine error, got %v", err)
	}
}

func TestReplayRewindRestoresBaseline(t *testing.T) {
	report := replayYAML(t, `
baseline: {name: Ada}
steps:
  - update: {field: name, value: Grace}
  - blur: name
  - rewind: 1
`)
	if report.FormID != "formreplay" {
		t.Fatalf("expected default form id, got %q", report.FormID)
	}
	if !reflect.DeepEqual(report.Data, formstate.Record{"name": "Ada"}) {
		t.Fatalf("expected baseline data, got %v", report.Data)
	}
	if report.UndoCount != 0 || report.RedoCount != 1 {
		t.Fatalf("expected undo=0 redo=1, got undo=%d redo=%d", report.UndoCount, report.RedoCount)
	}
	want := []formstate.Record{{"name": "Grace"}, {"name": "Ada"}}
	if !reflect.DeepEqual(report.Commits, want) {
		t.Fatalf("expected commits %v, got %v", want, report.Commits)
	}
	if report.Changed {
		t.Fatalf("expected unchanged form after rewind")
	}
}

func TestReplayContextRules(t *testing.T) {
	const base = `
baseline: {password: a, confirm: a}
context_rules:
  - name: match
    field: confirm
    expr: "password == confirm"
    message: Passwords differ.
steps:
  - update: {field: password, value: b}
`
	report := replayYAML(t, base)
	if report.Valid || report.Errors["confirm"] != "Passwords differ." {
		t.Fatalf("expected mismatch on confirm, got valid=%v errors=%v", report.Valid, report.Errors)
	}

	report = replayYAML(t, base+"  - remove_rule: match\n")
	if !report.Valid || len(report.Errors) != 0 {
		t.Fatalf("expected valid form after removing rule, got %v", report.Errors)
	}
}

func TestReplayRejectsAmbiguousStep(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
steps:
  - blur: name
    reset: true
`))
	if err != nil {
		t.Fatalf("parse scenario: %v", err)
	}
	_, err = Replay(scenario, ReplayOptions{})
	if err == nil || !strings.Contains(err.Error(), "step 1: expected exactly one action, got 2") {
		t.Fatalf("expected ambiguous step error, got %v", err)
	}
}

func TestReplayUnknownRule(t *testing.T) {
	scenario, err := ParseScenario([]byte("steps:\n  - remove_rule: nope\n"))
	if err != nil {
		t.Fatalf("parse scenario: %v", err)
	}
	if _, err := Replay(scenario, ReplayOptions{}); err == nil || !strings.Contains(err.Error(), `unknown context rule "nope"`) {
		t.Fatalf("expected unknown rule error, got %v", err)
	}
}

func TestParseScenarioValidatesNames(t *testing.T) {
	if _, err := ParseScenario([]byte("fields:\n  - rules: []\n")); err == nil {
		t.Fatalf("expected missing field name error")
	}
	if _, err := ParseScenario([]byte("context_rules:\n  - name: x\n    expr: 'true'\n")); err == nil {
		t.Fatalf("expected missing context field error")
	}
}

func TestJSEngineWithoutBuildTag(t *testing.T) {
	scenario := &Scenario{}
	evaluator, err := scenario.newEvaluator("js")
	if evaluator != nil {
		t.Skip("built with js_eval")
	}
	if !errors.Is(err, formstate.ErrEvaluatorRequired) {
		t.Fatalf("expected ErrEvaluatorRequired, got %v", err)
	}
}
