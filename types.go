package formstate

// Record maps field names to values. It is the shape of the baseline handed in
// by callers, of every history snapshot, and of the exported data.
type Record map[string]any

// Wildcard is the trigger key for context validators that run on any field
// change.
const Wildcard = "*"

// HistoryDisabled is reported by the undo/redo/history counters when the form
// was configured without history.
const HistoryDisabled = -1

// DefaultHistoryLength is used when no history length is configured.
const DefaultHistoryLength = 10

type absent struct{}

func (absent) String() string { return "<absent>" }

// Absent marks a field entry that has never been assigned a value. It is
// distinct from nil: nil is a legal value, Absent can never be assigned.
var Absent any = absent{}

// IsAbsent reports whether value is the Absent sentinel.
func IsAbsent(value any) bool {
	_, ok := value.(absent)
	return ok
}

// FieldEntry tracks the value and validation metadata for a single field.
// ErrorMsg is empty when the field is valid.
type FieldEntry struct {
	Value              any
	Validators         []*Validator
	ErrorMsg           string
	Touched            bool
	BlurredAfterChange bool
	ExcludeFromExport  bool
}

func newFieldEntry() FieldEntry {
	return FieldEntry{
		Value:              Absent,
		BlurredAfterChange: true,
	}
}

// HasValue reports whether the entry was ever assigned a value.
func (e FieldEntry) HasValue() bool {
	return !IsAbsent(e.Value)
}

// ContextBinding pairs a context validator with the field that receives its
// message.
type ContextBinding struct {
	Field     string
	Validator *ContextValidator

	seq uint64
}

// State is one immutable version of a form. Reducer transitions never modify
// a State in place; they return a new one that shares untouched maps and
// slices with its predecessor.
type State struct {
	OriginalData        Record
	Fields              map[string]FieldEntry
	History             []Record
	HistoryIndex        int
	ContextValidators   map[string][]ContextBinding
	LastCommittedExport Record

	nextSeq uint64
}

// NewState returns the initial state of a form editing session: no baseline,
// no fields, and an empty history when historyLength is positive.
func NewState(historyLength int) *State {
	state := &State{
		Fields:            map[string]FieldEntry{},
		ContextValidators: map[string][]ContextBinding{},
	}
	if historyLength > 0 {
		state.History = []Record{}
	}
	return state
}

// Field returns the entry for name and whether it exists.
func (s *State) Field(name string) (FieldEntry, bool) {
	if s == nil {
		return FieldEntry{}, false
	}
	entry, ok := s.Fields[name]
	return entry, ok
}

func (s *State) clone() *State {
	next := *s
	return &next
}

func (s *State) fieldOrTemplate(name string) FieldEntry {
	if entry, ok := s.Fields[name]; ok {
		return entry
	}
	return newFieldEntry()
}

func copyFields(fields map[string]FieldEntry) map[string]FieldEntry {
	out := make(map[string]FieldEntry, len(fields)+1)
	for name, entry := range fields {
		out[name] = entry
	}
	return out
}
