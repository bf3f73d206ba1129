package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger and returns it.
// In production (ENVIRONMENT=production) it uses JSON output for CloudWatch.
// Otherwise it uses the human-readable text handler.
func Init(environment, level string) *slog.Logger {
	return initTo(os.Stdout, environment, level)
}

func initTo(w io.Writer, environment, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(environment), "production") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithInvocation returns a logger scoped to one function invocation.
func WithInvocation(logger *slog.Logger, stage, correlationID string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("stage", stage, "correlation_id", correlationID)
}

// WithChat attaches the chat identity being worked on.
func WithChat(logger *slog.Logger, userID string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("user_id", userID)
}

type ctxKey struct{}

// IntoContext stores logger in ctx for the services an invocation calls.
func IntoContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored by IntoContext, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
