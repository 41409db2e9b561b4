package promsink

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/activity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hook counts form activity events by verb and channel, and committed fields
// by field name.
type Hook struct {
	events *prometheus.CounterVec
	fields *prometheus.CounterVec
}

// New registers the form activity counters on registerer. A nil registerer
// uses prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer) *Hook {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)
	return &Hook{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formstate",
			Name:      "activity_events_total",
			Help:      "Form lifecycle events by verb and channel",
		}, []string{"verb", "channel"}),
		fields: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formstate",
			Name:      "field_commits_total",
			Help:      "Field blurs that committed form data",
		}, []string{"field"}),
	}
}

// Notify implements activity.ActivityHook.
func (h *Hook) Notify(_ context.Context, event activity.Event) error {
	if h == nil {
		return nil
	}
	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" {
		return nil
	}
	h.events.WithLabelValues(normalized.Verb, normalized.Channel).Inc()
	if normalized.Verb == activity.VerbFieldCommitted && normalized.Field != "" {
		h.fields.WithLabelValues(normalized.Field).Inc()
	}
	return nil
}
