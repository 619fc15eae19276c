package logger

import (
	"log/slog"
	"time"
)

// LogStage logs the start or end of a pipeline stage
func LogStage(name string, duration time.Duration, err error, attrs ...any) {
	base := []any{
		slog.String("type", "stage"),
		slog.String("stage", name),
	}
	if duration > 0 {
		base = append(base, slog.Duration("took", duration))
	}

	if err != nil {
		slog.Error("Stage failed", append(base, append(attrs, slog.Any("error", err))...)...)
	} else if duration > 0 {
		slog.Info("Stage completed", append(base, attrs...)...)
	} else {
		slog.Info("Stage started", append(base, attrs...)...)
	}
}

// LogBatch logs progress of a chunked insert
func LogBatch(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "batch")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogQuery logs one database round-trip. Failures log at error level with
// the query text; successes only at debug.
func LogQuery(operation, query string, rows int64, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "db"),
		slog.String("operation", operation),
		slog.String("query", query),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Query failed", append(attrs, slog.Any("error", err))...)
		return
	}
	slog.Debug("Query executed", append(attrs, slog.Int64("rows", rows))...)
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogWarn logs recoverable conditions an operator should follow up on
func LogWarn(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Warn(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
