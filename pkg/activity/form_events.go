package activity

import (
	"strings"
	"time"
)

// Verbs emitted for form lifecycle events.
const (
	VerbFormLoaded     = "form.loaded"
	VerbFieldCommitted = "form.field.committed"
	VerbDataOffset     = "form.data.offset"
	VerbDataReset      = "form.data.reset"
	VerbHistoryReset   = "form.history.reset"
)

// ObjectTypeForm is the object type of every form event.
const ObjectTypeForm = "form"

// FormEventInput describes the common fields of form lifecycle events.
type FormEventInput struct {
	ActorID      string
	UserID       string
	TenantID     string
	FormID       string
	Channel      string
	Field        string
	Data         map[string]any
	HistoryIndex int
	HistoryCount int
	SnapshotID   string
	Metadata     map[string]any
	OccurredAt   time.Time
}

// BuildFormLoadedEvent describes a new baseline being loaded.
func BuildFormLoadedEvent(input FormEventInput) Event {
	return buildFormEvent(VerbFormLoaded, input)
}

// BuildFieldCommittedEvent describes a blur that committed data.
func BuildFieldCommittedEvent(input FormEventInput) Event {
	return buildFormEvent(VerbFieldCommitted, input)
}

// BuildDataOffsetEvent describes an undo or redo.
func BuildDataOffsetEvent(input FormEventInput) Event {
	return buildFormEvent(VerbDataOffset, input)
}

// BuildDataResetEvent describes a revert to the baseline.
func BuildDataResetEvent(input FormEventInput) Event {
	return buildFormEvent(VerbDataReset, input)
}

// BuildHistoryResetEvent describes history being collapsed.
func BuildHistoryResetEvent(input FormEventInput) Event {
	return buildFormEvent(VerbHistoryReset, input)
}

func buildFormEvent(verb string, input FormEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Data != nil {
		metadata = ensureMetadata(metadata)
		metadata["data"] = cloneMap(input.Data)
	}
	if input.HistoryCount > 0 {
		metadata = ensureMetadata(metadata)
		metadata["history_index"] = input.HistoryIndex
		metadata["history_count"] = input.HistoryCount
	}
	if input.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.SnapshotID
	}

	objectID := strings.TrimSpace(input.FormID)
	if objectID == "" {
		objectID = ObjectTypeForm
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeForm,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Field:      strings.TrimSpace(input.Field),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return map[string]any{}
	}
	return metadata
}
