package formstate

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Form is the facade a set of input widgets shares. Every write method turns
// into an Action applied by the form's Reducer; read methods derive their
// answer from the current State without changing it.
//
// Form serializes writers by refusing overlapping dispatches: an action
// dispatched while another is being applied, including from inside the
// update callback, fails with ErrReentrantDispatch. Readers may run at any
// time and always observe a complete State.
type Form struct {
	cfg         formConfig
	id          string
	reducer     *Reducer
	activity    *formActivity
	state       atomic.Pointer[State]
	dispatching atomic.Bool
}

// New constructs a Form with no baseline.
func New(opts ...Option) *Form {
	cfg := applyOptions(opts)
	id := strings.TrimSpace(cfg.formID)
	if id == "" {
		id = uuid.NewString()
	}
	f := &Form{
		cfg: cfg,
		id:  id,
		reducer: NewReducer(Config{
			HistoryLength:  cfg.historyLength,
			UpdateCallback: cfg.updateCallback,
			Warnings:       cfg.warnings,
		}),
	}
	f.activity = newFormActivity(f)
	f.state.Store(f.reducer.Initial())
	return f
}

// ID returns the form identifier used in activity events.
func (f *Form) ID() string {
	return f.id
}

// State returns the current immutable state.
func (f *Form) State() *State {
	return f.state.Load()
}

// Dispatch applies action to the current state.
func (f *Form) Dispatch(action Action) error {
	if !f.dispatching.CompareAndSwap(false, true) {
		return &TransitionError{Action: actionName(action), Err: ErrReentrantDispatch}
	}
	defer f.dispatching.Store(false)

	prev := f.state.Load()
	next, err := f.reducer.Reduce(prev, action)
	if err != nil {
		return err
	}
	if next == prev {
		return nil
	}
	f.state.Store(next)
	f.activity.record(action, prev, next)
	return nil
}

// Data returns the exported record.
func (f *Form) Data() Record {
	return ExportData(f.State())
}

// OrigData returns a copy of the baseline, or nil before the first load.
func (f *Form) OrigData() Record {
	return cloneRecord(f.State().OriginalData)
}

// IsChanged reports whether the exported record differs from the baseline.
// Baseline keys of excluded fields are ignored.
func (f *Form) IsChanged() bool {
	state := f.State()
	return !RecordsEqual(ExportData(state), exportedView(state.OriginalData, state.Fields))
}

// ChangedFields lists, sorted, the fields whose exported value differs from
// the baseline.
func (f *Form) ChangedFields() []string {
	state := f.State()
	current := ExportData(state)
	original := exportedView(state.OriginalData, state.Fields)
	var changed []string
	for name, value := range current {
		if prior, ok := original[name]; !ok || !valuesEqual(prior, value) {
			changed = append(changed, name)
		}
	}
	for name := range original {
		if _, ok := current[name]; !ok {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}

// IsValid reports whether no field carries an error.
func (f *Form) IsValid() bool {
	for _, entry := range f.State().Fields {
		if entry.ErrorMsg != "" {
			return false
		}
	}
	return true
}

// IsValidAndChanged reports whether the form holds a valid edit worth saving.
func (f *Form) IsValidAndChanged() bool {
	return f.IsValid() && f.IsChanged()
}

// IsFieldTouched reports whether field was blurred since the last load or
// reset.
func (f *Form) IsFieldTouched(field string) bool {
	entry, _ := f.State().Field(field)
	return entry.Touched
}

// FieldErrorMessage returns the error of field once it has been touched, and
// "" otherwise.
func (f *Form) FieldErrorMessage(field string) string {
	entry, ok := f.State().Field(field)
	if !ok || !entry.Touched {
		return ""
	}
	return entry.ErrorMsg
}

// FieldInputValue returns the display form of the value of field.
func (f *Form) FieldInputValue(field string) string {
	entry, ok := f.State().Field(field)
	if !ok {
		return ""
	}
	return InputValue(entry.Value)
}

// HasFieldValue reports whether field was ever assigned a value.
func (f *Form) HasFieldValue(field string) bool {
	entry, ok := f.State().Field(field)
	return ok && entry.HasValue()
}

// UndoCount returns how many snapshots can be rewound, or HistoryDisabled.
func (f *Form) UndoCount() int {
	if !f.reducer.cfg.HistoryEnabled() {
		return HistoryDisabled
	}
	state := f.State()
	if len(state.History) == 0 {
		return 0
	}
	return clampIndex(state.HistoryIndex, len(state.History))
}

// RedoCount returns how many snapshots can be advanced, or HistoryDisabled.
func (f *Form) RedoCount() int {
	if !f.reducer.cfg.HistoryEnabled() {
		return HistoryDisabled
	}
	state := f.State()
	if len(state.History) == 0 {
		return 0
	}
	return len(state.History) - 1 - clampIndex(state.HistoryIndex, len(state.History))
}

// HistoryCount returns the number of committed snapshots, or HistoryDisabled.
func (f *Form) HistoryCount() int {
	if !f.reducer.cfg.HistoryEnabled() {
		return HistoryDisabled
	}
	return len(f.State().History)
}

// SetData hands the form a baseline from outside. Data deep-equal to the
// record last loaded or handed to the update callback is ignored, so a
// caller may feed the callback's output straight back. Anything else is
// loaded, with a warning when that throws away undoable edits unless the form
// was built WithResetHistoryOnLoad.
func (f *Form) SetData(data Record) error {
	state := f.State()
	if state.OriginalData != nil &&
		RecordsEqual(exportedView(data, state.Fields), exportedView(state.LastCommittedExport, state.Fields)) {
		return nil
	}
	if discarded := len(state.History); discarded > 1 && !f.cfg.resetHistoryOnLoad {
		f.cfg.warnings.LogWarning(Warning{
			Code:    WarnProgrammaticReload,
			Message: "baseline replaced while undo history was pending; reset history before loading new data",
			Attrs: map[string]any{
				"form_id":   f.id,
				"discarded": discarded,
			},
		})
	}
	return f.Dispatch(LoadData{Data: data})
}

// UpdateFieldValue assigns value to field without committing it.
func (f *Form) UpdateFieldValue(field string, value any) error {
	return f.Dispatch(UpdateFieldValue{Field: field, Value: value})
}

// BlurField marks field as touched and commits pending edits.
func (f *Form) BlurField(field string) error {
	return f.Dispatch(BlurField{Field: field})
}

// UpdateFieldValidators replaces the validators of field.
func (f *Form) UpdateFieldValidators(field string, validators ...*Validator) error {
	return f.Dispatch(UpdateFieldValidators{Field: field, Validators: validators})
}

// ExcludeFieldFromExport keeps field out of Data and the update callback.
func (f *Form) ExcludeFieldFromExport(field string) error {
	return f.Dispatch(ExcludeFieldFromExport{Field: field})
}

// AddContextValidator binds validator to field and returns it so the caller
// can remove it later. With no triggers it runs on every change.
func (f *Form) AddContextValidator(field string, validator *ContextValidator, triggers ...string) (*ContextValidator, error) {
	if err := f.Dispatch(AddContextValidator{Field: field, Validator: validator, Triggers: triggers}); err != nil {
		return nil, err
	}
	return validator, nil
}

// RemoveContextValidator drops every binding of validator.
func (f *Form) RemoveContextValidator(validator *ContextValidator) error {
	return f.Dispatch(RemoveContextValidator{Validator: validator})
}

// RewindData undoes count committed snapshots.
func (f *Form) RewindData(count int) error {
	return f.Dispatch(Rewind(count))
}

// AdvanceData redoes count committed snapshots.
func (f *Form) AdvanceData(count int) error {
	return f.Dispatch(Advance(count))
}

// Undo rewinds one snapshot.
func (f *Form) Undo() error {
	return f.RewindData(1)
}

// Redo advances one snapshot.
func (f *Form) Redo() error {
	return f.AdvanceData(1)
}

// ResetData reverts every field to the baseline.
func (f *Form) ResetData() error {
	return f.Dispatch(ResetData{})
}

// ResetHistory keeps only the current snapshot.
func (f *Form) ResetHistory() error {
	return f.Dispatch(ResetHistory{})
}

// InitialSnapshot adopts the current data as the baseline of a form that was
// filled in before any data was loaded.
func (f *Form) InitialSnapshot() error {
	return f.Dispatch(InitialSnapshot{})
}
