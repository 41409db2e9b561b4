//go:build !js_eval

package formstate

// NewJSEvaluator returns nil without the js_eval build tag. Expression
// validators built from a nil evaluator fail with ErrEvaluatorRequired.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyJSEvaluatorOptions(opts)
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
