package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hintedErr struct {
	wait time.Duration
}

func (e *hintedErr) Error() string             { return "throttled" }
func (e *hintedErr) RetryAfter() time.Duration { return e.wait }

func TestRetryPolicy_SucceedsAfterTransientFailures(t *testing.T) {
	policy := NewRetryPolicy(3, time.Millisecond, 10*time.Millisecond)

	attempts := 0
	err := policy.Execute(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryPolicy_ExhaustsAttempts(t *testing.T) {
	policy := NewRetryPolicy(2, time.Millisecond, 10*time.Millisecond)

	attempts := 0
	failure := errors.New("still broken")
	err := policy.Execute(context.Background(), func() error {
		attempts++
		return failure
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 2, attempts)
}

func TestRetryPolicy_NonRetryableStopsImmediately(t *testing.T) {
	policy := NewRetryPolicy(5, time.Millisecond, 10*time.Millisecond)

	attempts := 0
	fatal := errors.New("bad credentials")
	err := policy.Execute(context.Background(), func() error {
		attempts++
		return fatal
	}, func(err error) bool {
		return !errors.Is(err, fatal)
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, attempts, "non-retryable errors must not be retried")
}

func TestRetryPolicy_ContextCancellationDuringWait(t *testing.T) {
	policy := NewRetryPolicy(3, time.Minute, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := policy.Execute(ctx, func() error {
		return errors.New("transient")
	}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry cancelled")
}

func TestRetryPolicy_DelayGrowsAndStaysCapped(t *testing.T) {
	policy := NewRetryPolicy(10, time.Second, 4*time.Second)
	policy.RandomizeFactor = 0

	assert.Equal(t, time.Second, policy.GetDelay(0))
	assert.Equal(t, 2*time.Second, policy.GetDelay(1))
	assert.Equal(t, 4*time.Second, policy.GetDelay(2))
	assert.Equal(t, 4*time.Second, policy.GetDelay(5), "delay must stay capped at MaxDelay")
}

func TestRetryPolicy_JitterStaysWithinBounds(t *testing.T) {
	policy := NewRetryPolicy(3, time.Second, time.Minute)

	for i := 0; i < 50; i++ {
		delay := policy.GetDelay(1)
		assert.GreaterOrEqual(t, delay, 1500*time.Millisecond)
		assert.LessOrEqual(t, delay, 2500*time.Millisecond)
	}
}

func TestRetryPolicy_HonorsRetryAfterHint(t *testing.T) {
	policy := NewRetryPolicy(2, time.Millisecond, 10*time.Millisecond)

	start := time.Now()
	err := policy.Execute(context.Background(), func() error {
		return &hintedErr{wait: 50 * time.Millisecond}
	}, nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond, "server wait hint overrides computed backoff")
}
