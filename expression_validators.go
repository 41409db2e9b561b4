package formstate

import (
	"fmt"
	"time"
)

// ExpressionOption configures an expression-backed validator.
type ExpressionOption func(*expressionConfig)

type expressionConfig struct {
	logger   EvaluatorLogger
	args     map[string]any
	metadata map[string]any
	field    string
	now      func() time.Time
}

// WithEvaluatorLogger reports every evaluation to logger.
func WithEvaluatorLogger(logger EvaluatorLogger) ExpressionOption {
	return func(cfg *expressionConfig) {
		if logger == nil {
			cfg.logger = noopEvaluatorLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithRuleArgs exposes args to the expression as the args variable.
func WithRuleArgs(args map[string]any) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.args = args
	}
}

// WithRuleMetadata exposes metadata to the expression as the metadata
// variable.
func WithRuleMetadata(metadata map[string]any) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.metadata = metadata
	}
}

// WithRuleField sets the field variable and labels evaluation errors.
func WithRuleField(field string) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.field = field
	}
}

// WithRuleClock overrides the clock behind the now variable.
func WithRuleClock(now func() time.Time) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.now = now
	}
}

func applyExpressionOptions(opts []ExpressionOption) expressionConfig {
	cfg := expressionConfig{logger: noopEvaluatorLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

type expressionRule struct {
	cfg       expressionConfig
	engine    string
	expr      string
	validator string
	message   string
	rule      CompiledRule
}

// ExpressionValidator compiles expr once and returns a field validator that
// evaluates it with the display form of the value bound to value. A true,
// nil or empty result passes; false fails with message; any other string is
// used as the message itself. Evaluation failures fail the field with an
// "invalid rule" message.
func ExpressionValidator(evaluator Evaluator, name, expr, message string, opts ...ExpressionOption) (*Validator, error) {
	rule, err := compileExpressionRule(evaluator, name, expr, message, opts)
	if err != nil {
		return nil, err
	}
	return NewValidator(name, func(value string) string {
		return rule.check(map[string]any{"value": value})
	}), nil
}

// ExpressionContextValidator compiles expr once and returns a context
// validator. Every exported field is a variable; the whole record is also
// bound to data unless a field already uses that name. Results are read as
// for ExpressionValidator.
func ExpressionContextValidator(evaluator Evaluator, name, expr, message string, opts ...ExpressionOption) (*ContextValidator, error) {
	rule, err := compileExpressionRule(evaluator, name, expr, message, opts)
	if err != nil {
		return nil, err
	}
	return NewContextValidator(name, func(data Record) string {
		snapshot := make(map[string]any, len(data)+1)
		for key, value := range data {
			snapshot[key] = value
		}
		if _, taken := snapshot["data"]; !taken {
			snapshot["data"] = map[string]any(cloneRecord(data))
		}
		return rule.check(snapshot)
	}), nil
}

func compileExpressionRule(evaluator Evaluator, name, expr, message string, opts []ExpressionOption) (*expressionRule, error) {
	if evaluator == nil {
		return nil, ErrEvaluatorRequired
	}
	if expr == "" {
		return nil, fmt.Errorf("formstate: validator %q: expression must not be empty", name)
	}
	compiled, err := evaluator.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("formstate: validator %q: %w", name, err)
	}
	return &expressionRule{
		cfg:       applyExpressionOptions(opts),
		engine:    evaluatorEngineName(evaluator),
		expr:      expr,
		validator: name,
		message:   message,
		rule:      compiled,
	}, nil
}

func (r *expressionRule) check(snapshot map[string]any) string {
	ctx := RuleContext{
		Snapshot: snapshot,
		Args:     r.cfg.args,
		Metadata: r.cfg.metadata,
		Field:    r.cfg.field,
	}
	if r.cfg.now != nil {
		now := r.cfg.now()
		ctx.Now = &now
	}
	start := time.Now()
	result, err := r.rule.Evaluate(ctx)
	err = wrapEvaluationError(r.engine, r.expr, ctx.fieldLabel(), err)
	r.cfg.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:    r.engine,
		Expr:      r.expr,
		Validator: r.validator,
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		return "invalid rule: " + err.Error()
	}
	return r.interpret(result)
}

func (r *expressionRule) interpret(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return ""
		}
		return r.failure()
	case string:
		return v
	default:
		return fmt.Sprintf("invalid rule: %s returned %T", r.validator, result)
	}
}

func (r *expressionRule) failure() string {
	if r.message != "" {
		return r.message
	}
	return fmt.Sprintf("%s failed", r.validator)
}
