package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	waits []time.Duration
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return ctx.Err()
}

func TestPoll_ExhaustsExactlyMaxAttempts(t *testing.T) {
	rec := &recorder{}
	p := Policy{MaxAttempts: 6, Interval: 2 * time.Second, DelayFirst: true, Sleep: rec.sleep}

	calls := 0
	_, err := Poll(context.Background(), p, func(ctx context.Context, attempt int) (string, bool, error) {
		calls++
		return "", false, nil
	})

	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 6, calls)
	require.Len(t, rec.waits, 6)
	for _, w := range rec.waits {
		assert.Equal(t, 2*time.Second, w)
	}
}

func TestPoll_StopsOnPredicate(t *testing.T) {
	rec := &recorder{}
	p := Policy{MaxAttempts: 6, Interval: time.Second, Sleep: rec.sleep}

	got, err := Poll(context.Background(), p, func(ctx context.Context, attempt int) (int, bool, error) {
		if attempt < 3 {
			return 0, false, errors.New("not yet")
		}
		return attempt, true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Len(t, rec.waits, 2)
}

func TestPoll_ReportsLastError(t *testing.T) {
	p := Policy{MaxAttempts: 2, Sleep: (&recorder{}).sleep}

	_, err := Poll(context.Background(), p, func(ctx context.Context, attempt int) (int, bool, error) {
		return 0, false, errors.New("backend down")
	})

	require.ErrorIs(t, err, ErrExhausted)
	assert.Contains(t, err.Error(), "backend down")
}

func TestPoll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := Poll(ctx, Policy{MaxAttempts: 5, Interval: time.Hour}, func(ctx context.Context, attempt int) (int, bool, error) {
		calls++
		cancel()
		return 0, false, nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesOnlyRetryable(t *testing.T) {
	transient := errors.New("transient")
	fatal := errors.New("fatal")
	isTransient := func(err error) bool { return errors.Is(err, transient) }

	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 5, Sleep: (&recorder{}).sleep}, isTransient, func(ctx context.Context, attempt int) error {
		calls++
		if attempt == 1 {
			return transient
		}
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 2, calls)
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	transient := errors.New("transient")
	calls := 0

	err := Do(context.Background(), Policy{MaxAttempts: 3, Sleep: (&recorder{}).sleep}, func(error) bool { return true }, func(ctx context.Context, attempt int) error {
		calls++
		return transient
	})

	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
}

func TestDo_ExponentialWaitsAreCapped(t *testing.T) {
	rec := &recorder{}
	p := Policy{MaxAttempts: 5, Interval: time.Second, Multiplier: 2, MaxInterval: 5 * time.Second, Sleep: rec.sleep}

	err := Do(context.Background(), p, nil, func(ctx context.Context, attempt int) error {
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}, rec.waits)
}

func TestDo_CancelledDuringWaitReturnsLastError(t *testing.T) {
	transient := errors.New("transient")
	ctx, cancel := context.WithCancel(context.Background())
	sleep := func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 3, Interval: time.Second, Sleep: sleep}, nil, func(ctx context.Context, attempt int) error {
		calls++
		return transient
	})

	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 1, calls)
}

func TestDo_DefaultTimer(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, Interval: time.Millisecond}, nil, func(ctx context.Context, attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
