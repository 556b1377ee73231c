package observability

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key for request correlation.
const CorrelationID LogContextKey = "correlation_id"

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// FeedLogger provides structured logging for live feed operations.
type FeedLogger struct {
	hubName string
	logger  *Logger
}

// NewFeedLogger creates a new FeedLogger for the given hub.
func NewFeedLogger(hubName string) *FeedLogger {
	return &FeedLogger{
		hubName: hubName,
		logger:  GlobalLogger,
	}
}

// LogSubscribe logs a feed subscription event.
func (l *FeedLogger) LogSubscribe(ctx context.Context, admin bool) {
	l.logger.InfoContext(ctx, "feed subscriber added",
		slog.String("hub", l.hubName),
		slog.Bool("admin", admin),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogUnsubscribe logs a feed unsubscription event.
func (l *FeedLogger) LogUnsubscribe(ctx context.Context, admin bool, reason string) {
	l.logger.InfoContext(ctx, "feed subscriber removed",
		slog.String("hub", l.hubName),
		slog.Bool("admin", admin),
		slog.String("reason", reason),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogSnapshot logs a snapshot broadcast.
func (l *FeedLogger) LogSnapshot(ctx context.Context, posts, subscribers int) {
	l.logger.InfoContext(ctx, "feed snapshot broadcast",
		slog.String("hub", l.hubName),
		slog.Int("posts", posts),
		slog.Int("subscribers", subscribers),
	)
}

// LogError logs a feed error event.
func (l *FeedLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "feed error",
		slog.String("hub", l.hubName),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}
