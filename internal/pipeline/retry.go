package pipeline

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/tgschema/internal/source"
)

const MaxRetries = 3

// BackoffFunc returns the wait before retry attempt n (0-indexed).
type BackoffFunc func(attempt int) time.Duration

// Backoff doubles from one second, caps at 30s and adds up to 50% jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// retry calls fn until it succeeds, fails permanently, or MaxRetries
// attempts are used. onRetry is told about every transient failure.
func retry[T any](ctx context.Context, log *slog.Logger, backoff BackoffFunc, onRetry func(error), fn func() (T, error)) (T, error) {
	var (
		v   T
		err error
	)
	for attempt := range MaxRetries {
		v, err = fn()
		if err == nil || !source.IsRetryable(err) {
			return v, err
		}
		if attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable fetch error", "attempt", attempt+1, "error", err)
		if onRetry != nil {
			onRetry(err)
		}
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return v, ctx.Err()
		}
	}
	return v, err
}
