package usersink_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-formstate/pkg/activity"
	"github.com/goliatone/go-formstate/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()
	formID := uuid.New().String()

	event := activity.BuildFieldCommittedEvent(activity.FormEventInput{
		ActorID:    actorID.String(),
		UserID:     "not-a-uuid",
		TenantID:   tenantID.String(),
		FormID:     formID,
		Channel:    "forms",
		Field:      "email",
		Data:       map[string]any{"email": "a@example.com"},
		OccurredAt: now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.TenantID != tenantID {
		t.Fatalf("unexpected identity: %+v", record)
	}
	if record.UserID != uuid.Nil {
		t.Fatalf("expected invalid user id to map to uuid.Nil, got %s", record.UserID)
	}
	if record.Verb != activity.VerbFieldCommitted || record.ObjectType != activity.ObjectTypeForm || record.ObjectID != formID {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.OccurredAt != now {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["field"] != "email" {
		t.Fatalf("expected field metadata got %v", record.Data["field"])
	}
	if _, ok := record.Data["data"].(map[string]any); !ok {
		t.Fatalf("expected exported data passthrough got %v", record.Data["data"])
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyNilSinkIsNoop(t *testing.T) {
	hook := usersink.Hook{}
	if err := hook.Notify(context.Background(), activity.BuildFormLoadedEvent(activity.FormEventInput{FormID: "f"})); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
