package formstate

import "fmt"

// Action is a state transition request. The set of implementations is closed;
// Reducer.Reduce rejects anything else with ErrUnknownAction.
type Action interface {
	actionName() string
}

// LoadData replaces the baseline with Data and reseeds history.
type LoadData struct {
	Data Record
}

// ResetData reverts the fields to the baseline and commits the result to
// history.
type ResetData struct{}

// OffsetData moves the history cursor by Delta (negative to undo) and loads the
// snapshot found there.
type OffsetData struct {
	Delta int
}

// UpdateFieldValue assigns Value to Field.
type UpdateFieldValue struct {
	Field string
	Value any
}

// BlurField marks Field as touched and commits the data to history.
type BlurField struct {
	Field string
}

// UpdateFieldValidators replaces the validators of Field.
type UpdateFieldValidators struct {
	Field      string
	Validators []*Validator
}

// ExcludeFieldFromExport keeps Field out of exported records.
type ExcludeFieldFromExport struct {
	Field string
}

// AddContextValidator binds Validator to Field. It runs whenever one of
// Triggers changes, or on any change when Triggers is empty.
type AddContextValidator struct {
	Field     string
	Validator *ContextValidator
	Triggers  []string
}

// RemoveContextValidator drops every binding of Validator.
type RemoveContextValidator struct {
	Validator *ContextValidator
}

// ResetHistory forgets every snapshot except the current one.
type ResetHistory struct{}

// InitialSnapshot captures the current data as the baseline when none exists.
type InitialSnapshot struct{}

func (LoadData) actionName() string               { return "LOAD_DATA" }
func (ResetData) actionName() string              { return "RESET_DATA" }
func (OffsetData) actionName() string             { return "OFFSET_DATA" }
func (UpdateFieldValue) actionName() string       { return "UPDATE_FIELD_VALUE" }
func (BlurField) actionName() string              { return "BLUR_FIELD" }
func (UpdateFieldValidators) actionName() string  { return "UPDATE_FIELD_VALIDATORS" }
func (ExcludeFieldFromExport) actionName() string { return "EXCLUDE_FIELD_FROM_EXPORT" }
func (AddContextValidator) actionName() string    { return "ADD_CONTEXT_VALIDATOR" }
func (RemoveContextValidator) actionName() string { return "REMOVE_CONTEXT_VALIDATOR" }
func (ResetHistory) actionName() string           { return "RESET_HISTORY" }
func (InitialSnapshot) actionName() string        { return "INITIAL_SNAPSHOT" }

// Rewind returns the action that undoes count committed snapshots.
func Rewind(count int) OffsetData {
	return OffsetData{Delta: -count}
}

// Advance returns the action that redoes count committed snapshots.
func Advance(count int) OffsetData {
	return OffsetData{Delta: count}
}

func actionName(action Action) string {
	if action == nil {
		return "<nil>"
	}
	return action.actionName()
}

func describeAction(action Action) string {
	if action == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", action)
}
