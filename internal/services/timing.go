package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Timed runs fn and reports its wall-clock duration. The duration is
// logged whether or not fn fails.
func Timed[T any](ctx context.Context, logger zerolog.Logger, name string, fn func(context.Context) (T, error)) (T, time.Duration, error) {
	start := time.Now()
	result, err := fn(ctx)
	elapsed := time.Since(start)

	event := logger.Info()
	if err != nil {
		event = logger.Warn().Err(err)
	}
	event.Str("operation", name).Dur("elapsed", elapsed).Msg("timed operation finished")

	return result, elapsed, err
}
