package formstate

import "errors"

// Config is the per-session configuration threaded into a Reducer.
type Config struct {
	// HistoryLength bounds the number of committed snapshots. Zero or a
	// negative value disables undo/redo.
	HistoryLength int
	// UpdateCallback receives the exported record after a blur, reset or
	// history offset changes the committed data.
	UpdateCallback func(Record)
	// Warnings receives recoverable usage warnings.
	Warnings WarningLogger
}

// DefaultConfig returns a Config with DefaultHistoryLength.
func DefaultConfig() Config {
	return Config{HistoryLength: DefaultHistoryLength}
}

// HistoryEnabled reports whether undo/redo is available.
func (c Config) HistoryEnabled() bool {
	return c.HistoryLength > 0
}

// Reducer computes state transitions. It holds no state of its own.
type Reducer struct {
	cfg Config
}

// NewReducer constructs a Reducer for cfg.
func NewReducer(cfg Config) *Reducer {
	if cfg.Warnings == nil {
		cfg.Warnings = noopWarningLogger{}
	}
	return &Reducer{cfg: cfg}
}

// Config returns the configuration the reducer was built with.
func (r *Reducer) Config() Config {
	return r.cfg
}

// Initial returns the starting state for this reducer's configuration.
func (r *Reducer) Initial() *State {
	return NewState(r.cfg.HistoryLength)
}

// Reduce applies action to state and returns the next state. When the action
// changes nothing the same pointer is returned. state is never modified.
func (r *Reducer) Reduce(state *State, action Action) (*State, error) {
	if state == nil {
		state = r.Initial()
	}
	switch a := action.(type) {
	case LoadData:
		return r.loadData(state, a), nil
	case ResetData:
		return r.resetData(state), nil
	case OffsetData:
		next, err := r.offsetData(state, a)
		return next, transitionError(a, "", err)
	case UpdateFieldValue:
		next, err := r.updateFieldValue(state, a)
		return next, transitionError(a, a.Field, err)
	case BlurField:
		return r.blurField(state, a), nil
	case UpdateFieldValidators:
		return r.updateFieldValidators(state, a), nil
	case ExcludeFieldFromExport:
		return r.excludeFieldFromExport(state, a), nil
	case AddContextValidator:
		return r.addContextValidator(state, a), nil
	case RemoveContextValidator:
		return r.removeContextValidator(state, a), nil
	case ResetHistory:
		return r.resetHistory(state), nil
	case InitialSnapshot:
		return r.initialSnapshot(state), nil
	default:
		return state, &TransitionError{
			Action: describeAction(action),
			Err:    ErrUnknownAction,
		}
	}
}

func (r *Reducer) loadData(state *State, a LoadData) *State {
	data := cloneRecord(a.Data)
	if data == nil {
		data = Record{}
	}
	next := state.clone()
	next.Fields = rebuildFields(state.Fields, state.ContextValidators, data, true)
	next.OriginalData = data
	next.LastCommittedExport = cloneRecord(data)
	next.HistoryIndex = 0
	if r.cfg.HistoryEnabled() {
		next.History = []Record{ExportData(next)}
	} else {
		next.History = nil
	}
	return next
}

func (r *Reducer) resetData(state *State) *State {
	data := state.OriginalData
	if data == nil {
		return state
	}
	next := state.clone()
	next.Fields = rebuildFields(state.Fields, state.ContextValidators, data, true)
	if r.cfg.HistoryEnabled() {
		next.History = CommitHistory(state.History, ExportData(next), r.cfg.HistoryLength)
		next.HistoryIndex = tailIndex(next.History)
	}
	r.notify(next)
	return next
}

func (r *Reducer) offsetData(state *State, a OffsetData) (*State, error) {
	if !r.cfg.HistoryEnabled() {
		return state, ErrHistoryDisabled
	}
	snapshot, index, err := OffsetHistory(state.History, state.HistoryIndex, a.Delta)
	if err != nil {
		if errors.Is(err, ErrHistoryEmpty) {
			return state, nil
		}
		return state, err
	}
	if index == state.HistoryIndex && RecordsEqual(snapshot, ExportData(state)) {
		return state, nil
	}
	next := state.clone()
	next.Fields = rebuildFields(state.Fields, state.ContextValidators, snapshot, false)
	next.HistoryIndex = index
	r.notify(next)
	return next, nil
}

func (r *Reducer) updateFieldValue(state *State, a UpdateFieldValue) (*State, error) {
	if IsAbsent(a.Value) {
		return state, ErrAbsentValue
	}
	entry, exists := state.Fields[a.Field]
	if exists && entry.HasValue() && valuesEqual(entry.Value, a.Value) {
		return state, nil
	}
	if !exists {
		entry = newFieldEntry()
	}
	entry.Value = cloneValue(a.Value)
	entry.ErrorMsg = ValidateValue(a.Value, entry.Validators)
	entry.BlurredAfterChange = false

	fields := copyFields(state.Fields)
	fields[a.Field] = entry

	// Fields bound under the changed field's trigger or the wildcard are
	// affected. The changed field is affected whenever any binding targets it,
	// whatever its trigger, and revalidate then runs every binding of each
	// affected field so its message is rebuilt from scratch.
	affected := triggeredFields(state.ContextValidators, a.Field, Wildcard)
	delete(affected, a.Field)
	if bindings := bindingsFor(state.ContextValidators, map[string]struct{}{a.Field: {}}); len(bindings) > 0 {
		affected[a.Field] = struct{}{}
	}

	next := state.clone()
	next.Fields = revalidate(fields, state.ContextValidators, affected)
	return next, nil
}

func (r *Reducer) blurField(state *State, a BlurField) *State {
	entry := state.fieldOrTemplate(a.Field)
	if entry.Touched && entry.BlurredAfterChange {
		return state
	}
	entry.Touched = true
	entry.BlurredAfterChange = true

	next := state.clone()
	next.Fields = copyFields(state.Fields)
	next.Fields[a.Field] = entry
	if r.cfg.HistoryEnabled() {
		next.History = CommitHistory(state.History, ExportData(state), r.cfg.HistoryLength)
		next.HistoryIndex = tailIndex(next.History)
	}
	r.notify(next)
	return next
}

func (r *Reducer) updateFieldValidators(state *State, a UpdateFieldValidators) *State {
	entry, exists := state.Fields[a.Field]
	if exists && sameValidators(entry.Validators, a.Validators) {
		return state
	}
	if !exists {
		entry = newFieldEntry()
	}
	entry.Validators = append([]*Validator(nil), a.Validators...)

	fields := copyFields(state.Fields)
	fields[a.Field] = entry

	next := state.clone()
	next.Fields = revalidate(fields, state.ContextValidators, map[string]struct{}{a.Field: {}})
	return next
}

func (r *Reducer) excludeFieldFromExport(state *State, a ExcludeFieldFromExport) *State {
	entry, exists := state.Fields[a.Field]
	if exists && entry.ExcludeFromExport {
		return state
	}
	if !exists {
		entry = newFieldEntry()
	}
	entry.ExcludeFromExport = true

	next := state.clone()
	next.Fields = copyFields(state.Fields)
	next.Fields[a.Field] = entry
	return next
}

func (r *Reducer) addContextValidator(state *State, a AddContextValidator) *State {
	if a.Validator == nil {
		return state
	}
	binding := ContextBinding{
		Field:     a.Field,
		Validator: a.Validator,
		seq:       state.nextSeq,
	}
	triggers := a.Triggers
	if len(triggers) == 0 {
		triggers = []string{Wildcard}
	}

	contexts := copyContexts(state.ContextValidators)
	for _, trigger := range uniqueStrings(triggers) {
		contexts[trigger] = append(append([]ContextBinding(nil), contexts[trigger]...), binding)
	}

	fields := state.Fields
	if _, ok := fields[a.Field]; !ok {
		fields = copyFields(fields)
		fields[a.Field] = newFieldEntry()
	}

	next := state.clone()
	next.nextSeq = state.nextSeq + 1
	next.ContextValidators = contexts
	next.Fields = ValidateContext(fields, ExportData(state), []ContextBinding{binding})
	return next
}

func (r *Reducer) removeContextValidator(state *State, a RemoveContextValidator) *State {
	affected := map[string]struct{}{}
	contexts := make(map[string][]ContextBinding, len(state.ContextValidators))
	for trigger, bindings := range state.ContextValidators {
		kept := make([]ContextBinding, 0, len(bindings))
		for _, binding := range bindings {
			if binding.Validator == a.Validator {
				affected[binding.Field] = struct{}{}
				continue
			}
			kept = append(kept, binding)
		}
		if len(kept) > 0 {
			contexts[trigger] = kept
		}
	}
	if len(affected) == 0 {
		return state
	}
	next := state.clone()
	next.ContextValidators = contexts
	next.Fields = revalidate(state.Fields, contexts, affected)
	return next
}

func (r *Reducer) resetHistory(state *State) *State {
	if !r.cfg.HistoryEnabled() || len(state.History) <= 1 {
		return state
	}
	next := state.clone()
	next.History = CollapseHistory(state.History, state.HistoryIndex)
	next.HistoryIndex = 0
	return next
}

func (r *Reducer) initialSnapshot(state *State) *State {
	if state.OriginalData != nil {
		r.cfg.Warnings.LogWarning(Warning{
			Code:    WarnRedundantSnapshot,
			Message: "initial snapshot requested while original data is in place",
		})
		return state
	}
	data := ExportData(state)
	next := state.clone()
	next.OriginalData = data
	next.LastCommittedExport = cloneRecord(data)
	if r.cfg.HistoryEnabled() {
		next.History = []Record{cloneRecord(data)}
		next.HistoryIndex = 0
	}
	return next
}

// notify hands the exported data to the update callback when it differs from
// the last record handed out, and records it as the new committed export.
func (r *Reducer) notify(next *State) {
	data := ExportData(next)
	if next.LastCommittedExport != nil && RecordsEqual(exportedView(next.LastCommittedExport, next.Fields), data) {
		return
	}
	next.LastCommittedExport = data
	if r.cfg.UpdateCallback != nil {
		r.cfg.UpdateCallback(cloneRecord(data))
	}
}

// exportedView drops the keys of data that belong to excluded fields.
func exportedView(data Record, fields map[string]FieldEntry) Record {
	out := make(Record, len(data))
	for name, value := range data {
		if entry, ok := fields[name]; ok && entry.ExcludeFromExport {
			continue
		}
		out[name] = value
	}
	return out
}

// rebuildFields assigns the values of data to a copy of fields. Keys missing
// from data keep their value when excluded from export and become Absent
// otherwise. Validators are kept and re-run; touch tracking is cleared when
// clearTouched is set. Context validators then run for every trigger once.
func rebuildFields(fields map[string]FieldEntry, contexts map[string][]ContextBinding, data Record, clearTouched bool) map[string]FieldEntry {
	out := make(map[string]FieldEntry, len(fields)+len(data))
	for name, entry := range fields {
		if value, ok := data[name]; ok {
			entry.Value = value
		} else if !entry.ExcludeFromExport {
			entry.Value = Absent
		}
		out[name] = entry
	}
	for name, value := range data {
		if _, ok := out[name]; ok {
			continue
		}
		entry := newFieldEntry()
		entry.Value = value
		out[name] = entry
	}
	for name, entry := range out {
		entry.ErrorMsg = ValidateValue(entry.Value, entry.Validators)
		if clearTouched {
			entry.Touched = false
			entry.BlurredAfterChange = true
		}
		out[name] = entry
	}
	all := make(map[string]struct{}, len(out))
	for name := range out {
		all[name] = struct{}{}
	}
	bindings := bindingsFor(contexts, all)
	if len(bindings) == 0 {
		return out
	}
	return ValidateContext(out, exportFields(out), bindings)
}

func copyContexts(contexts map[string][]ContextBinding) map[string][]ContextBinding {
	out := make(map[string][]ContextBinding, len(contexts)+1)
	for trigger, bindings := range contexts {
		out[trigger] = bindings
	}
	return out
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
