package activity

import "testing"

func TestBuildFieldCommittedEventIncludesHistoryMetadata(t *testing.T) {
	data := map[string]any{"foo": "foo2"}
	input := FormEventInput{
		ActorID:      " actor ",
		FormID:       " profile ",
		Field:        "foo",
		Data:         data,
		HistoryIndex: 1,
		HistoryCount: 2,
		SnapshotID:   "snap-1",
		Metadata:     map[string]any{"custom": "value"},
	}

	event := BuildFieldCommittedEvent(input)

	if event.Verb != VerbFieldCommitted {
		t.Fatalf("expected verb %s got %s", VerbFieldCommitted, event.Verb)
	}
	if event.ObjectType != ObjectTypeForm || event.ObjectID != "profile" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" || event.Field != "foo" {
		t.Fatalf("unexpected identity fields: %+v", event)
	}
	if event.Metadata["history_index"] != 1 || event.Metadata["history_count"] != 2 {
		t.Fatalf("expected history metadata, got %+v", event.Metadata)
	}
	if event.Metadata["snapshot_id"] != "snap-1" || event.Metadata["custom"] != "value" {
		t.Fatalf("expected snapshot and custom metadata, got %+v", event.Metadata)
	}
	exported, ok := event.Metadata["data"].(map[string]any)
	if !ok || exported["foo"] != "foo2" {
		t.Fatalf("expected data clone, got %v", event.Metadata["data"])
	}
	exported["foo"] = "changed"
	if data["foo"] != "foo2" {
		t.Fatalf("expected input data untouched")
	}
}

func TestBuildFormEventDefaultsObjectID(t *testing.T) {
	event := BuildHistoryResetEvent(FormEventInput{})
	if event.ObjectID != ObjectTypeForm {
		t.Fatalf("expected object id fallback %q, got %q", ObjectTypeForm, event.ObjectID)
	}
	if event.Metadata != nil {
		t.Fatalf("expected no metadata, got %+v", event.Metadata)
	}
}
