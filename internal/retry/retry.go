package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Do runs op up to maxAttempts times with exponential backoff: the wait
// between attempt i and i+1 is baseDelay*2^i. No wait follows the final
// failed attempt; its error is returned as-is. Each failed attempt is
// logged before the retry wait.
func Do[T any](ctx context.Context, label string, maxAttempts int, baseDelay time.Duration, op func() (T, error)) (T, error) {
	var result T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = baseDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		v, err := op()
		if err != nil {
			return err
		}
		result = v
		return nil
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("operation failed, retrying",
			"operation", label,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"wait", wait,
			"error", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxAttempts-1)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return result, err
	}
	return result, nil
}
