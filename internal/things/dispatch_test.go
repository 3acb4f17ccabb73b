package things

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewindkit/rewind/internal/ratelimit"
)

func TestDispatch_Success(t *testing.T) {
	d := NewCommandDispatcher(ratelimit.New(10, time.Second), nil)

	var got string
	d.SetRunner(func(ctx context.Context, commandURL string) error {
		got = commandURL
		return nil
	})

	res := d.Dispatch(context.Background(), "things:///update?id=x")
	assert.True(t, res.Succeeded)
	assert.Empty(t, res.Err)
	assert.Equal(t, "things:///update?id=x", got)
}

func TestDispatch_RunnerFailure(t *testing.T) {
	d := NewCommandDispatcher(ratelimit.New(10, time.Second), nil)
	d.SetRunner(func(ctx context.Context, commandURL string) error {
		return errors.New("exit status 1")
	})

	res := d.Dispatch(context.Background(), "things:///update?id=x")
	assert.False(t, res.Succeeded)
	assert.Equal(t, "exit status 1", res.Err)
}

func TestDispatch_RateLimited(t *testing.T) {
	limiter := ratelimit.New(1, time.Minute)
	d := NewCommandDispatcher(limiter, nil)

	calls := 0
	d.SetRunner(func(ctx context.Context, commandURL string) error {
		calls++
		return nil
	})

	first := d.Dispatch(context.Background(), "things:///update?id=a")
	require.True(t, first.Succeeded)

	// Budget exhausted: result is a failed classification, not an error,
	// and the external command must not run.
	second := d.Dispatch(context.Background(), "things:///update?id=b")
	assert.False(t, second.Succeeded)
	assert.Contains(t, second.Err, "rate limit exceeded")
	assert.Equal(t, 1, calls)
}

func TestDispatch_ConsumesSharedBudget(t *testing.T) {
	limiter := ratelimit.New(5, time.Minute)
	d := NewCommandDispatcher(limiter, nil)
	d.SetRunner(func(ctx context.Context, commandURL string) error { return nil })

	for i := 0; i < 3; i++ {
		d.Dispatch(context.Background(), "things:///update?id=x")
	}
	assert.Equal(t, 2, limiter.RemainingCapacity())
}
