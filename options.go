package formstate

import (
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/activity"
)

// Option configures a Form.
type Option func(*formConfig)

type formConfig struct {
	historyLength      int
	updateCallback     func(Record)
	warnings           WarningLogger
	activityHooks      activity.Hooks
	activityConfig     activity.Config
	activityIdentity   activityIdentity
	formID             string
	resetHistoryOnLoad bool
}

type activityIdentity struct {
	actorID  string
	userID   string
	tenantID string
}

func applyOptions(opts []Option) formConfig {
	cfg := formConfig{
		historyLength:  DefaultHistoryLength,
		warnings:       noopWarningLogger{},
		activityConfig: activity.Config{Enabled: true, Channel: activity.DefaultChannel},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithHistoryLength bounds the undo/redo history. Zero disables it.
func WithHistoryLength(length int) Option {
	return func(cfg *formConfig) {
		if length < 0 {
			length = 0
		}
		cfg.historyLength = length
	}
}

// WithUpdateCallback registers the function that receives committed data.
// It runs while the transition is being applied, before the new state is
// visible through the Form, and must not dispatch actions.
func WithUpdateCallback(fn func(Record)) Option {
	return func(cfg *formConfig) {
		cfg.updateCallback = fn
	}
}

// WithResetHistoryOnLoad marks SetData as the expected way new baselines
// arrive. Loading still starts a fresh history, but pending undo entries are
// dropped without a WarnProgrammaticReload warning.
func WithResetHistoryOnLoad() Option {
	return func(cfg *formConfig) {
		cfg.resetHistoryOnLoad = true
	}
}

// WithWarningLogger routes usage warnings to logger.
func WithWarningLogger(logger WarningLogger) Option {
	return func(cfg *formConfig) {
		if logger == nil {
			cfg.warnings = noopWarningLogger{}
			return
		}
		cfg.warnings = logger
	}
}

// WithLogger routes usage warnings to a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return WithWarningLogger(NewSlogWarningLogger(logger))
}

// WithFormID sets the identifier used as the object ID of activity events.
// A random UUID is used when unset.
func WithFormID(id string) Option {
	return func(cfg *formConfig) {
		cfg.formID = id
	}
}
