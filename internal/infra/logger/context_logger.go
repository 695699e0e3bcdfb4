package logger

import (
	"context"
	"log/slog"
	"os"
)

type ContextKey string

const (
	// Business context keys, following OpenTelemetry semantic
	// conventions with a 'chat.' prefix.
	SessionIDKey ContextKey = "chat.session.id"
	SourceKey    ContextKey = "chat.news.source"
	StageKey     ContextKey = "chat.pipeline.stage"
)

// ContextLogger provides context-aware logging with chat business context.
type ContextLogger struct {
	logger      *slog.Logger
	serviceName string
}

// NewContextLogger creates a new context-aware logger.
func NewContextLogger(serviceName string) *ContextLogger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)

	return &ContextLogger{
		logger:      slog.New(handler),
		serviceName: serviceName,
	}
}

// WithContext returns a logger with context values extracted and added as fields.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger.With("service", cl.serviceName)

	var fields []any

	if sessionID := ctx.Value(SessionIDKey); sessionID != nil {
		fields = append(fields, string(SessionIDKey), sessionID)
	}
	if source := ctx.Value(SourceKey); source != nil {
		fields = append(fields, string(SourceKey), source)
	}
	if stage := ctx.Value(StageKey); stage != nil {
		fields = append(fields, string(StageKey), stage)
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger
}

// WithSessionID adds the chat session ID to context for observability.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// WithSource adds the news source title to context for observability.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// WithStage adds the ingestion pipeline stage to context for observability.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
