package transfer

import (
	"context"
	"log/slog"
	"time"

	"github.com/csmith/spotilove/model"
)

// withRetry calls fn, retrying transient failures up to opts.Retries times
// with a doubling delay between attempts.
func withRetry(ctx context.Context, opts Options, what string, fn func() error) error {
	delay := opts.retryDelay()

	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || attempt >= opts.Retries || !model.Transient(err) {
			return err
		}

		slog.Warn("Request failed, retrying", "operation", what, "attempt", attempt+1, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
