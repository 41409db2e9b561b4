package formstate

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/activity"
	"github.com/google/uuid"
)

type formActivity struct {
	form     *Form
	emitter  *activity.Emitter
	identity activityIdentity
}

func newFormActivity(f *Form) *formActivity {
	return &formActivity{
		form:     f,
		emitter:  activity.NewEmitter(f.cfg.activityHooks, f.cfg.activityConfig),
		identity: f.cfg.activityIdentity,
	}
}

// record emits the event matching a transition that changed state. Edits
// that were not committed emit nothing.
func (a *formActivity) record(action Action, prev, next *State) {
	if a == nil || !a.emitter.Enabled() {
		return
	}
	input := a.input(next)
	var event activity.Event
	switch act := action.(type) {
	case LoadData:
		event = activity.BuildFormLoadedEvent(input)
	case BlurField:
		if !committed(prev, next) {
			return
		}
		input.Field = act.Field
		event = activity.BuildFieldCommittedEvent(input)
	case OffsetData:
		input.Metadata = map[string]any{"delta": act.Delta, "previous_index": prev.HistoryIndex}
		event = activity.BuildDataOffsetEvent(input)
	case ResetData:
		event = activity.BuildDataResetEvent(input)
	case ResetHistory:
		input.Metadata = map[string]any{"discarded": len(prev.History) - len(next.History)}
		event = activity.BuildHistoryResetEvent(input)
	case InitialSnapshot:
		event = activity.BuildFormLoadedEvent(input)
	default:
		return
	}
	if err := a.emitter.Emit(context.Background(), event); err != nil {
		a.form.cfg.warnings.LogWarning(Warning{
			Code:    WarnActivityFailed,
			Message: err.Error(),
			Attrs: map[string]any{
				"form_id": a.form.id,
				"verb":    event.Verb,
			},
		})
	}
}

// committed reports whether a transition added a history snapshot or handed
// new data to the update callback.
func committed(prev, next *State) bool {
	if len(prev.History) != len(next.History) || prev.HistoryIndex != next.HistoryIndex {
		return true
	}
	if len(next.History) > 0 && &prev.History[0] != &next.History[0] {
		return true
	}
	return !RecordsEqual(prev.LastCommittedExport, next.LastCommittedExport)
}

func (a *formActivity) input(next *State) activity.FormEventInput {
	input := activity.FormEventInput{
		ActorID:  a.identity.actorID,
		UserID:   a.identity.userID,
		TenantID: a.identity.tenantID,
		FormID:   a.form.id,
		Data:     ExportData(next),
	}
	if a.form.reducer.cfg.HistoryEnabled() && len(next.History) > 0 {
		input.HistoryIndex = next.HistoryIndex
		input.HistoryCount = len(next.History)
		input.SnapshotID = uuid.NewString()
	}
	return input
}
