// Package retry wraps outbound provider calls with bounded retry on
// transient failures. Every adapter routes its HTTP calls through Do.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/autofy/autofy/pkg/providers"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
)

// Options controls the retry behavior of one wrapped call.
type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultOptions() Options {
	return Options{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}

	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}

	return o
}

// DoValue invokes fn up to opts.MaxAttempts times, retrying only failures
// classified as transient (HTTP 429, 5xx, timeouts). The delay before
// attempt N+1 is BaseDelay*N. Fatal errors and exhausted retries return
// the last error unchanged.
func DoValue[T any](ctx context.Context, logger *slog.Logger, opts Options, fn func(ctx context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()

	var (
		result  T
		lastErr error
	)

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		var err error

		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !providers.IsRetryable(err) {
			return result, err
		}

		if attempt == opts.MaxAttempts {
			break
		}

		delay := opts.BaseDelay * time.Duration(attempt)

		if logger != nil {
			logger.WarnContext(ctx, "Transient failure, retrying",
				"attempt", attempt,
				"max_attempts", opts.MaxAttempts,
				"delay", delay,
				"error", err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return result, ctx.Err()
		case <-timer.C:
		}
	}

	return result, lastErr
}

// Do is DoValue for calls without a result.
func Do(ctx context.Context, logger *slog.Logger, opts Options, fn func(ctx context.Context) error) error {
	_, err := DoValue(ctx, logger, opts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})

	return err
}
