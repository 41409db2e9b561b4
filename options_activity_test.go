package formstate

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-formstate/pkg/activity"
)

func TestWithActivityHooksClonesAndFiltersNil(t *testing.T) {
	hook := activity.HookFunc(func(context.Context, activity.Event) error { return nil })

	form := New(WithActivityHooks(activity.Hooks{nil, hook}))
	hooks := form.ActivityHooks()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	hooks[0] = nil
	again := form.ActivityHooks()
	if len(again) != 1 || again[0] == nil {
		t.Fatalf("expected cloned hooks unaffected by mutation, got %+v", again)
	}
}

func TestActivityHooksDefaultNil(t *testing.T) {
	form := New()
	if hooks := form.ActivityHooks(); hooks != nil {
		t.Fatalf("expected nil hooks by default, got %+v", hooks)
	}
}

func TestFormEmitsEventsForCommittedTransitions(t *testing.T) {
	capture := &activity.CaptureHook{}
	form := New(
		WithFormID("profile"),
		WithActivityHooks(activity.Hooks{capture}),
		WithActivityIdentity("actor-1", "", ""),
	)

	mustNoErr(t, form.SetData(Record{"foo": "foo", "bar": "bar"}))
	mustNoErr(t, form.UpdateFieldValue("foo", "foo2"))
	mustNoErr(t, form.BlurField("foo"))
	mustNoErr(t, form.RewindData(1))
	mustNoErr(t, form.ResetData())
	mustNoErr(t, form.ResetHistory())

	want := []string{
		activity.VerbFormLoaded,
		activity.VerbFieldCommitted,
		activity.VerbDataOffset,
		activity.VerbDataReset,
		activity.VerbHistoryReset,
	}
	if got := capture.Verbs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected verbs %v, got %v", want, got)
	}

	committed := capture.Events[1]
	if committed.ObjectID != "profile" || committed.ObjectType != activity.ObjectTypeForm {
		t.Fatalf("unexpected object fields: %+v", committed)
	}
	if committed.Field != "foo" || committed.ActorID != "actor-1" {
		t.Fatalf("unexpected committed event: %+v", committed)
	}
	if committed.Channel != activity.DefaultChannel {
		t.Fatalf("expected default channel, got %q", committed.Channel)
	}
	data, _ := committed.Metadata["data"].(map[string]any)
	if data["foo"] != "foo2" {
		t.Fatalf("expected committed data in metadata, got %+v", committed.Metadata)
	}
	if committed.Metadata["history_count"] != 2 || committed.Metadata["snapshot_id"] == "" {
		t.Fatalf("expected history metadata, got %+v", committed.Metadata)
	}
}

func TestFormBlurWithoutChangeEmitsNoCommit(t *testing.T) {
	capture := &activity.CaptureHook{}
	form := New(WithActivityHooks(activity.Hooks{capture}))

	mustNoErr(t, form.SetData(Record{"foo": "foo"}))
	mustNoErr(t, form.BlurField("foo"))
	if got := capture.Verbs(); !reflect.DeepEqual(got, []string{activity.VerbFormLoaded}) {
		t.Fatalf("expected blur without edits to emit nothing, got %v", got)
	}
	if !form.IsFieldTouched("foo") {
		t.Fatalf("expected blur to still mark the field touched")
	}

	mustNoErr(t, form.UpdateFieldValue("foo", "bar"))
	mustNoErr(t, form.BlurField("foo"))
	want := []string{activity.VerbFormLoaded, activity.VerbFieldCommitted}
	if got := capture.Verbs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected verbs %v, got %v", want, got)
	}
}

func TestFormBlurCommitWithoutHistoryEmits(t *testing.T) {
	capture := &activity.CaptureHook{}
	form := New(WithHistoryLength(0), WithActivityHooks(activity.Hooks{capture}))

	mustNoErr(t, form.SetData(Record{"foo": "foo"}))
	mustNoErr(t, form.UpdateFieldValue("foo", "bar"))
	mustNoErr(t, form.BlurField("foo"))
	want := []string{activity.VerbFormLoaded, activity.VerbFieldCommitted}
	if got := capture.Verbs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected verbs %v, got %v", want, got)
	}
}

func TestFormActivityDisabledByConfig(t *testing.T) {
	capture := &activity.CaptureHook{}
	form := New(
		WithActivityHooks(activity.Hooks{capture}),
		WithActivityConfig(activity.Config{Enabled: false}),
	)
	mustNoErr(t, form.SetData(Record{"foo": "foo"}))
	mustNoErr(t, form.BlurField("foo"))
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(capture.Events))
	}
}

func TestFormActivityFailureBecomesWarning(t *testing.T) {
	boom := errors.New("sink down")
	capture := &activity.CaptureHook{Err: boom}
	var warnings []Warning
	form := New(
		WithActivityHooks(activity.Hooks{capture}),
		WithWarningLogger(WarningLoggerFunc(func(w Warning) { warnings = append(warnings, w) })),
	)

	if err := form.SetData(Record{"foo": "foo"}); err != nil {
		t.Fatalf("expected hook failure not to fail the transition, got %v", err)
	}
	if len(warnings) != 1 || warnings[0].Code != WarnActivityFailed {
		t.Fatalf("expected activity warning, got %+v", warnings)
	}
	if warnings[0].Attrs["verb"] != activity.VerbFormLoaded {
		t.Fatalf("expected verb attr, got %+v", warnings[0].Attrs)
	}
	if got := form.Data(); got["foo"] != "foo" {
		t.Fatalf("expected data loaded, got %v", got)
	}
}
