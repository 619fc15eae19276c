package migration

import (
	"context"
	"log/slog"
	"time"

	"github.com/swipestats/migrator/swipestats/logger"
)

const etaSmoothing = 0.3

// etaEstimator keeps an exponentially smoothed chunk duration. The first
// observation seeds the average.
type etaEstimator struct {
	avg    float64
	seeded bool
}

func (e *etaEstimator) observe(d time.Duration) {
	if !e.seeded {
		e.avg = float64(d)
		e.seeded = true
		return
	}
	e.avg = etaSmoothing*float64(d) + (1-etaSmoothing)*e.avg
}

func (e *etaEstimator) remaining(chunks int) time.Duration {
	if chunks <= 0 {
		return 0
	}
	return time.Duration(e.avg * float64(chunks))
}

// ExecuteBatches calls insert once per fixed-size chunk of records, in order.
// The first failing chunk stops the batch and is returned as a *BatchError.
func ExecuteBatches[T any](ctx context.Context, label string, records []T, size int, insert func(context.Context, []T) error) error {
	if len(records) == 0 {
		logger.LogBatch("No records supplied", slog.String("label", label))
		return nil
	}
	if size <= 0 {
		size = len(records)
	}

	total := len(records)
	chunks := (total + size - 1) / size
	var eta etaEstimator
	done := 0

	for i := 0; i < chunks; i++ {
		if err := ctx.Err(); err != nil {
			return &BatchError{Label: label, Chunk: i + 1, Err: err}
		}

		end := min((i+1)*size, total)
		chunk := records[i*size : end]

		start := time.Now()
		if err := insert(ctx, chunk); err != nil {
			return &BatchError{Label: label, Chunk: i + 1, Err: err}
		}
		eta.observe(time.Since(start))
		done += len(chunk)

		logger.LogBatch("Chunk written",
			slog.String("label", label),
			slog.Int("chunk", i+1),
			slog.Int("chunks", chunks),
			slog.Int("done", done),
			slog.Int("total", total),
			slog.Duration("eta", eta.remaining(chunks-i-1).Round(time.Millisecond)))
	}
	return nil
}
