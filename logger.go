package meanshift

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with meanshift-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a point count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("points", count),
	}
}

// LogNormalize logs the normalization stage.
func (l *Logger) LogNormalize(ctx context.Context, degenerate []int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "normalize failed",
			"error", err,
		)
		return
	}
	if len(degenerate) > 0 {
		l.WarnContext(ctx, "degenerate dimensions left unscaled",
			"dimensions", degenerate,
		)
	}
	l.DebugContext(ctx, "normalize completed",
		"duration", duration,
	)
}

// LogProgress logs mode seeking progress.
func (l *Logger) LogProgress(ctx context.Context, done, total int) {
	l.DebugContext(ctx, "mode seeking progress",
		"done", done,
		"total", total,
	)
}

// LogModeSeek logs the mode seeking stage.
func (l *Logger) LogModeSeek(ctx context.Context, iterations int, nonConverged []int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mode seeking failed",
			"error", err,
		)
		return
	}
	if len(nonConverged) > 0 {
		l.WarnContext(ctx, "mode seeking hit iteration cap",
			"non_converged", len(nonConverged),
			"first", nonConverged[0],
		)
	}
	l.DebugContext(ctx, "mode seeking completed",
		"iterations", iterations,
		"duration", duration,
	)
}

// LogMerge logs the segment merging stage.
func (l *Logger) LogMerge(ctx context.Context, segments int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "merge failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "merge completed",
		"segments", segments,
		"duration", duration,
	)
}

// LogSegment logs a whole segmentation run.
func (l *Logger) LogSegment(ctx context.Context, points, segments int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "segmentation failed",
			"points", points,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "segmentation completed",
		"points", points,
		"segments", segments,
		"duration", duration,
	)
}
