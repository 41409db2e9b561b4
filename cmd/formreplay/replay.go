package main

import (
	"fmt"
	"log/slog"
	"sort"

	formstate "github.com/goliatone/go-formstate"
)

// ReplayOptions tunes a replay.
type ReplayOptions struct {
	Engine        string
	HistoryLength *int
	Logger        *slog.Logger
}

// Report is the outcome of a replay.
type Report struct {
	FormID        string             `json:"form_id"`
	Data          formstate.Record   `json:"data"`
	Valid         bool               `json:"valid"`
	Changed       bool               `json:"changed"`
	ChangedFields []string           `json:"changed_fields"`
	UndoCount     int                `json:"undo_count"`
	RedoCount     int                `json:"redo_count"`
	HistoryCount  int                `json:"history_count"`
	Errors        map[string]string  `json:"errors,omitempty"`
	Commits       []formstate.Record `json:"commits,omitempty"`
}

type replayer struct {
	form    *formstate.Form
	rules   map[string]*formstate.ContextValidator
	commits []formstate.Record
	logger  *slog.Logger
}

// Replay builds the scenario's form and applies its steps in order.
func Replay(scenario *Scenario, opts ReplayOptions) (*Report, error) {
	r, err := build(scenario, opts)
	if err != nil {
		return nil, err
	}
	if scenario.Baseline != nil {
		if err := r.form.SetData(scenario.Baseline); err != nil {
			return nil, fmt.Errorf("load baseline: %w", err)
		}
	}
	for i, step := range scenario.Steps {
		if err := r.apply(step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return r.report(), nil
}

// Check compiles every rule of the scenario and reports how many there are.
func Check(scenario *Scenario, opts ReplayOptions) (fieldRules, contextRules int, err error) {
	r, err := build(scenario, opts)
	if err != nil {
		return 0, 0, err
	}
	for _, field := range scenario.Fields {
		fieldRules += len(field.Rules)
	}
	return fieldRules, len(r.rules), nil
}

func build(scenario *Scenario, opts ReplayOptions) (*replayer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	evaluator, err := scenario.newEvaluator(opts.Engine)
	if err != nil {
		return nil, err
	}

	r := &replayer{
		rules:  map[string]*formstate.ContextValidator{},
		logger: logger,
	}
	formOpts := []formstate.Option{
		formstate.WithFormID(scenario.ID),
		formstate.WithLogger(logger),
		formstate.WithUpdateCallback(func(data formstate.Record) {
			r.commits = append(r.commits, data)
		}),
	}
	historyLength := scenario.HistoryLength
	if opts.HistoryLength != nil {
		historyLength = opts.HistoryLength
	}
	if historyLength != nil {
		formOpts = append(formOpts, formstate.WithHistoryLength(*historyLength))
	}
	r.form = formstate.New(formOpts...)

	evalLogger := formstate.EvaluatorLoggerFunc(func(event formstate.EvaluatorLogEvent) {
		logger.Debug("rule evaluated",
			"engine", event.Engine,
			"validator", event.Validator,
			"duration", event.Duration,
			"error", event.Err,
		)
	})

	for _, field := range scenario.Fields {
		validators := make([]*formstate.Validator, 0, len(field.Rules))
		for _, rule := range field.Rules {
			validator, err := formstate.ExpressionValidator(evaluator, rule.Name, rule.Expr, rule.Message,
				formstate.WithRuleField(field.Name),
				formstate.WithEvaluatorLogger(evalLogger),
			)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Name, err)
			}
			validators = append(validators, validator)
		}
		if len(validators) > 0 {
			if err := r.form.UpdateFieldValidators(field.Name, validators...); err != nil {
				return nil, err
			}
		}
		if field.Exclude {
			if err := r.form.ExcludeFieldFromExport(field.Name); err != nil {
				return nil, err
			}
		}
	}

	for _, rule := range scenario.ContextRules {
		validator, err := formstate.ExpressionContextValidator(evaluator, rule.Name, rule.Expr, rule.Message,
			formstate.WithRuleField(rule.Field),
			formstate.WithEvaluatorLogger(evalLogger),
		)
		if err != nil {
			return nil, fmt.Errorf("context rule %q: %w", rule.Name, err)
		}
		if _, err := r.form.AddContextValidator(rule.Field, validator, rule.Triggers...); err != nil {
			return nil, err
		}
		r.rules[rule.Name] = validator
	}
	return r, nil
}

func (r *replayer) apply(step Step) error {
	if n := step.actions(); n != 1 {
		return fmt.Errorf("expected exactly one action, got %d", n)
	}
	form := r.form
	switch {
	case step.Update != nil:
		return form.UpdateFieldValue(step.Update.Field, step.Update.Value)
	case step.Blur != "":
		return form.BlurField(step.Blur)
	case step.Rewind != 0:
		return form.RewindData(step.Rewind)
	case step.Advance != 0:
		return form.AdvanceData(step.Advance)
	case step.Reset:
		return form.ResetData()
	case step.ResetHistory:
		return form.ResetHistory()
	case step.Snapshot:
		return form.InitialSnapshot()
	case step.Load != nil:
		return form.SetData(step.Load)
	default:
		validator, ok := r.rules[step.RemoveRule]
		if !ok {
			return fmt.Errorf("unknown context rule %q", step.RemoveRule)
		}
		delete(r.rules, step.RemoveRule)
		return form.RemoveContextValidator(validator)
	}
}

func (r *replayer) report() *Report {
	form := r.form
	report := &Report{
		FormID:        form.ID(),
		Data:          form.Data(),
		Valid:         form.IsValid(),
		Changed:       form.IsChanged(),
		ChangedFields: form.ChangedFields(),
		UndoCount:     form.UndoCount(),
		RedoCount:     form.RedoCount(),
		HistoryCount:  form.HistoryCount(),
		Commits:       r.commits,
	}
	if report.ChangedFields == nil {
		report.ChangedFields = []string{}
	}
	fields := form.State().Fields
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if msg := fields[name].ErrorMsg; msg != "" {
			if report.Errors == nil {
				report.Errors = map[string]string{}
			}
			report.Errors[name] = msg
		}
	}
	r.logger.Info("replay finished",
		"form_id", report.FormID,
		"valid", report.Valid,
		"commits", len(report.Commits),
	)
	return report
}
