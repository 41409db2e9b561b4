package formstate

import "github.com/goliatone/go-formstate/pkg/activity"

// WithActivityHooks attaches activity hooks notified after committed
// transitions. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *formConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityConfig overrides the emitter configuration. Emission is enabled
// on the "forms" channel by default.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *formConfig) {
		cfg.activityConfig = config
	}
}

// WithActivityIdentity attributes activity events to the given actor, user
// and tenant identifiers. Values that are not UUIDs are dropped by the
// go-users sink.
func WithActivityIdentity(actorID, userID, tenantID string) Option {
	return func(cfg *formConfig) {
		cfg.activityIdentity = activityIdentity{
			actorID:  actorID,
			userID:   userID,
			tenantID: tenantID,
		}
	}
}

// ActivityHooks returns a cloned slice of the hooks configured on the form.
func (f *Form) ActivityHooks() activity.Hooks {
	if f == nil {
		return nil
	}
	return cloneActivityHooks(f.cfg.activityHooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
