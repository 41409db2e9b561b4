package formstate

import (
	"context"
	"log/slog"
)

// WarningCode classifies recoverable but doubtful usage.
type WarningCode string

const (
	// WarnProgrammaticReload is raised when a new baseline replaces data that
	// still had history to undo.
	WarnProgrammaticReload WarningCode = "programmatic_reload"
	// WarnRedundantSnapshot is raised when an initial snapshot is requested
	// while a baseline is already in place.
	WarnRedundantSnapshot WarningCode = "redundant_snapshot"
	// WarnActivityFailed is raised when an activity hook returns an error.
	WarnActivityFailed WarningCode = "activity_failed"
)

// Warning describes a recoverable condition. The transition that raised it
// still completes.
type Warning struct {
	Code    WarningCode
	Message string
	Attrs   map[string]any
}

// WarningLogger records warnings.
type WarningLogger interface {
	LogWarning(Warning)
}

// WarningLoggerFunc adapts a function to WarningLogger.
type WarningLoggerFunc func(Warning)

// LogWarning implements WarningLogger.
func (f WarningLoggerFunc) LogWarning(warning Warning) {
	if f != nil {
		f(warning)
	}
}

type noopWarningLogger struct{}

func (noopWarningLogger) LogWarning(Warning) {}

type slogWarningLogger struct {
	logger *slog.Logger
}

// NewSlogWarningLogger writes warnings to logger at warn level.
func NewSlogWarningLogger(logger *slog.Logger) WarningLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogWarningLogger{logger: logger}
}

func (l slogWarningLogger) LogWarning(warning Warning) {
	attrs := make([]slog.Attr, 0, len(warning.Attrs)+1)
	attrs = append(attrs, slog.String("code", string(warning.Code)))
	for key, value := range warning.Attrs {
		attrs = append(attrs, slog.Any(key, value))
	}
	l.logger.LogAttrs(context.Background(), slog.LevelWarn, warning.Message, attrs...)
}
