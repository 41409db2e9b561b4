package promsink_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-formstate/pkg/activity"
	"github.com/goliatone/go-formstate/pkg/activity/promsink"
	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] == pair.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestHookCountsEventsByVerbAndChannel(t *testing.T) {
	registry := prometheus.NewRegistry()
	hook := promsink.New(registry)
	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.Config{Enabled: true})

	for _, field := range []string{"email", "email", "name"} {
		event := activity.BuildFieldCommittedEvent(activity.FormEventInput{FormID: "signup", Field: field})
		if err := emitter.Emit(context.Background(), event); err != nil {
			t.Fatalf("emit: %v", err)
		}
	}
	if err := emitter.Emit(context.Background(), activity.BuildDataResetEvent(activity.FormEventInput{FormID: "signup"})); err != nil {
		t.Fatalf("emit: %v", err)
	}

	got := counterValue(t, registry, "formstate_activity_events_total", map[string]string{
		"verb":    activity.VerbFieldCommitted,
		"channel": activity.DefaultChannel,
	})
	if got != 3 {
		t.Fatalf("expected 3 committed events, got %v", got)
	}
	if got := counterValue(t, registry, "formstate_activity_events_total", map[string]string{"verb": activity.VerbDataReset}); got != 1 {
		t.Fatalf("expected 1 reset event, got %v", got)
	}
	if got := counterValue(t, registry, "formstate_field_commits_total", map[string]string{"field": "email"}); got != 2 {
		t.Fatalf("expected 2 email commits, got %v", got)
	}
}

func TestHookIgnoresEventsWithoutVerb(t *testing.T) {
	registry := prometheus.NewRegistry()
	hook := promsink.New(registry)

	if err := hook.Notify(context.Background(), activity.Event{}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 0 {
		t.Fatalf("expected no samples, got %d families", len(families))
	}
}
