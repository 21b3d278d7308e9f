package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	p := Policy{Attempts: 3, Delay: time.Millisecond, Retryable: func(error) bool { return true }}

	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesRetryableErrors(t *testing.T) {
	calls := 0
	p := Policy{Attempts: 3, Delay: time.Millisecond, Retryable: func(err error) bool {
		return errors.Is(err, errTransient)
	}}

	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	terminal := errors.New("terminal")
	calls := 0
	p := Policy{Attempts: 5, Delay: time.Millisecond, Retryable: func(err error) bool {
		return errors.Is(err, errTransient)
	}}

	err := p.Do(context.Background(), func() error {
		calls++
		return terminal
	})

	assert.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	p := Policy{Attempts: 3, Delay: time.Millisecond, Retryable: func(error) bool { return true }}

	err := p.Do(context.Background(), func() error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{Attempts: 3, Delay: time.Minute, Retryable: func(error) bool { return true }}
	err := p.Do(ctx, func() error { return errTransient })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNilPredicateNeverRetries(t *testing.T) {
	calls := 0
	p := Policy{Attempts: 3, Delay: time.Millisecond}

	err := p.Do(context.Background(), func() error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}
