// Package netretry decides which request failures are transient and retries
// them within a time budget. The request pipeline itself never retries.
package netretry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/devantler-tech/apidelta/pkg/client/api"
	"github.com/siderolabs/go-retry/retry"
)

// httpStatusCodePattern matches HTTP 5xx status codes at word boundaries
// to avoid false positives on port numbers like ":5000".
var httpStatusCodePattern = regexp.MustCompile(`\b50[0-4]\b`)

// IsRetryable reports whether err is worth another attempt. Pipeline errors
// are judged by kind: network failures and server errors are transient,
// everything else is final. Other errors are matched against HTTP 5xx and
// TCP-level failure text.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var failure *api.Error
	if errors.As(err, &failure) {
		return failure.Kind == api.NetworkFailure || failure.Kind == api.ServerError
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	errMsg := err.Error()

	textPatterns := []string{
		"Internal Server Error", "Bad Gateway",
		"Service Unavailable", "Gateway Timeout",
		"connection reset by peer", "connection refused",
		"i/o timeout", "TLS handshake timeout",
		"unexpected EOF", "no such host",
	}

	for _, pattern := range textPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(errMsg)
}

// MaxWait caps the wait between two attempts unless the initial interval is
// already longer.
const MaxWait = 5 * time.Second

// maxDoublings keeps the shift in ExponentialDelay inside int64 range.
const maxDoublings = 62

// ExponentialDelay returns the delay for the given retry attempt
// using exponential backoff.
// Uses the formula: min(baseWait * 2^(attempt-1), maxWait).
// Attempts below 1 count as the first; a non-positive baseWait never waits.
func ExponentialDelay(
	attempt int,
	baseWait, maxWait time.Duration,
) time.Duration {
	if baseWait <= 0 {
		return 0
	}

	shift := max(attempt, 1) - 1
	if shift > maxDoublings || baseWait > maxWait>>shift {
		return maxWait
	}

	return baseWait << shift
}

// Retry calls fn until it succeeds, fails with a non-retryable error, or
// budget runs out. The n-th wait is ExponentialDelay(n, interval, MaxWait),
// and no wait outlasts the budget. The error of the last attempt is returned
// unwrapped so callers can inspect it. A non-positive budget makes a single
// attempt.
func Retry(
	ctx context.Context,
	budget, interval time.Duration,
	fn func(ctx context.Context) error,
) error {
	if budget <= 0 {
		return fn(ctx)
	}

	var (
		lastErr error
		attempt int
	)

	maxWait := max(interval, MaxWait)

	// The ticker does not wait; the backoff happens inside the attempt so it
	// can be capped.
	err := retry.Constant(budget, retry.WithUnits(0)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			if attempt > 0 {
				waitErr := sleep(ctx, ExponentialDelay(attempt, interval, maxWait))
				if waitErr != nil {
					return waitErr
				}
			}

			attempt++

			lastErr = fn(ctx)
			if lastErr != nil && IsRetryable(lastErr) {
				return retry.ExpectedError(lastErr)
			}

			return lastErr
		})
	if err == nil {
		return nil
	}

	if lastErr != nil {
		return lastErr
	}

	return fmt.Errorf("retry: %w", err)
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait before retry: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
