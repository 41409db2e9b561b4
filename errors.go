package formstate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAction is returned for an action kind the reducer does not handle.
	ErrUnknownAction = errors.New("formstate: unrecognized action")
	// ErrAbsentValue is returned when a field value update carries Absent.
	ErrAbsentValue = errors.New("formstate: value cannot be absent")
	// ErrHistoryDisabled is returned when offsetting a form configured without history.
	ErrHistoryDisabled = errors.New("formstate: history is disabled")
	// ErrHistoryEmpty is returned when offsetting before anything was committed.
	ErrHistoryEmpty = errors.New("formstate: history is empty")
	// ErrReentrantDispatch is returned when an action is dispatched from inside
	// the update callback.
	ErrReentrantDispatch = errors.New("formstate: re-entrant dispatch")
	// ErrEvaluatorRequired is returned when an expression validator is built
	// without an evaluator.
	ErrEvaluatorRequired = errors.New("formstate: evaluator not configured")
)

// TransitionError records the action and field that caused a fatal reducer
// error.
type TransitionError struct {
	Action string
	Field  string
	Err    error
}

func (e *TransitionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field != "" {
		return fmt.Sprintf("formstate: %s field=%q: %v", e.Action, e.Field, e.Err)
	}
	return fmt.Sprintf("formstate: %s: %v", e.Action, e.Err)
}

func (e *TransitionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func transitionError(action Action, field string, err error) error {
	if err == nil {
		return nil
	}
	return &TransitionError{
		Action: actionName(action),
		Field:  field,
		Err:    err,
	}
}
