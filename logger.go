package pixvec

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with pipeline-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithSource adds the source blob name to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// WithRun adds a run id to the logger.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// LogRowError logs a skipped row.
func (l *Logger) LogRowError(ctx context.Context, err *RowFormatError) {
	l.WarnContext(ctx, "row skipped",
		"row", err.Line,
		"error", err,
	)
}

// LogRepair logs input whose invalid UTF-8 was replaced.
func (l *Logger) LogRepair(ctx context.Context, offset int) {
	l.WarnContext(ctx, "invalid UTF-8 replaced",
		"offset", offset,
	)
}

// LogWarning logs a non-fatal decode problem of a sample.
func (l *Logger) LogWarning(ctx context.Context, id int, err error) {
	l.DebugContext(ctx, "sample warning",
		"id", id,
		"warning", err,
	)
}

// LogRasterError logs a sample that was kept as a placeholder.
func (l *Logger) LogRasterError(ctx context.Context, id int, err error) {
	l.WarnContext(ctx, "raster unavailable",
		"id", id,
		"error", err,
	)
}

// LogDecode logs the outcome of a decode call.
func (l *Logger) LogDecode(ctx context.Context, rows, samples, skipped int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decode failed",
			"duration", duration,
			"error", err,
		)
		return
	}

	if skipped > 0 {
		l.WarnContext(ctx, "decode completed with skipped rows",
			"rows", rows,
			"skipped", skipped,
			"samples", samples,
			"duration", duration,
		)
	} else {
		l.InfoContext(ctx, "decode completed",
			"rows", rows,
			"samples", samples,
			"duration", duration,
		)
	}
}

// LogLoad logs a source blob load.
func (l *Logger) LogLoad(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "load completed",
			"name", name,
			"bytes", size,
		)
	}
}

// LogPublish logs a gallery publish.
func (l *Logger) LogPublish(ctx context.Context, prefix string, samples int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "publish failed",
			"prefix", prefix,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "gallery published",
			"prefix", prefix,
			"samples", samples,
		)
	}
}
