package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldRetry(t *testing.T) {
	policy := NewExponentialRetryPolicy(3)

	t.Run("nil error never retries", func(t *testing.T) {
		require.False(t, policy.ShouldRetry(nil, 1))
	})

	t.Run("attempt cap is honored", func(t *testing.T) {
		err := errors.New("connection reset")
		require.True(t, policy.ShouldRetry(err, 1))
		require.True(t, policy.ShouldRetry(err, 2))
		require.False(t, policy.ShouldRetry(err, 3))
		require.False(t, policy.ShouldRetry(err, 4))
	})

	t.Run("context cancellation is terminal", func(t *testing.T) {
		require.False(t, policy.ShouldRetry(context.Canceled, 1))
		require.False(t, policy.ShouldRetry(context.DeadlineExceeded, 1))
		wrapped := fmt.Errorf("fetch: %w", context.Canceled)
		require.False(t, policy.ShouldRetry(wrapped, 1))
	})

	t.Run("client errors are terminal", func(t *testing.T) {
		require.False(t, policy.ShouldRetry(&HTTPStatusError{StatusCode: 404}, 1))
		require.False(t, policy.ShouldRetry(&HTTPStatusError{StatusCode: 403}, 1))
		require.False(t, policy.ShouldRetry(&HTTPStatusError{StatusCode: 410}, 1))
	})

	t.Run("rate limiting and server errors are retryable", func(t *testing.T) {
		require.True(t, policy.ShouldRetry(&HTTPStatusError{StatusCode: 429}, 1))
		require.True(t, policy.ShouldRetry(&HTTPStatusError{StatusCode: 500}, 1))
		require.True(t, policy.ShouldRetry(&HTTPStatusError{StatusCode: 503}, 1))
	})

	t.Run("wrapped status errors unwrap", func(t *testing.T) {
		wrapped := fmt.Errorf("attempt: %w", &HTTPStatusError{StatusCode: 502})
		require.True(t, policy.ShouldRetry(wrapped, 1))
	})

	t.Run("transport errors are retryable", func(t *testing.T) {
		require.True(t, policy.ShouldRetry(errors.New("dial tcp: connection refused"), 1))
	})
}

func TestBackoff(t *testing.T) {
	policy := NewExponentialRetryPolicy(5)

	t.Run("grows with attempts and stays bounded", func(t *testing.T) {
		var prevMax time.Duration
		for attempt := 1; attempt <= 4; attempt++ {
			delay := policy.Backoff(attempt)
			require.Positive(t, delay)
			require.LessOrEqual(t, delay, policy.maxDelay)
			// The jitter window moves upward; the floor of each window is
			// half the exponential delay.
			require.GreaterOrEqual(t, delay, prevMax/4)
			prevMax = delay
		}
	})
}

func TestNewExponentialRetryPolicyDefaults(t *testing.T) {
	require.Equal(t, 3, NewExponentialRetryPolicy(0).maxAttempts)
	require.Equal(t, 3, NewExponentialRetryPolicy(-2).maxAttempts)
	require.Equal(t, 7, NewExponentialRetryPolicy(7).maxAttempts)
}
