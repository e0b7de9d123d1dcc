// Package retry holds the cancellable retry and poll loops shared by the
// payment confirmation and status probe call sites.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	ErrExhausted = errors.New("attempts exhausted")

	errNotYet = errors.New("not yet")
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	// Multiplier grows the interval after every wait; values <= 1 keep it constant.
	Multiplier  float64
	MaxInterval time.Duration
	// DelayFirst waits one interval before the first attempt as well.
	DelayFirst bool
	Sleep      SleepFunc
}

func Constant(attempts int, interval time.Duration) Policy {
	return Policy{MaxAttempts: attempts, Interval: interval}
}

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p Policy) backOff(ctx context.Context) backoff.BackOffContext {
	var b backoff.BackOff = backoff.NewConstantBackOff(p.Interval)
	if p.Multiplier > 1 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = p.Interval
		eb.RandomizationFactor = 0
		eb.Multiplier = p.Multiplier
		eb.MaxInterval = p.MaxInterval
		if eb.MaxInterval <= 0 {
			eb.MaxInterval = time.Duration(math.MaxInt64)
		}
		eb.MaxElapsedTime = 0
		eb.Reset()
		b = eb
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.attempts()-1)), ctx)
}

// sleepTimer drives backoff waits through an injected SleepFunc.
type sleepTimer struct {
	ctx    context.Context
	cancel context.CancelFunc
	sleep  SleepFunc
	c      chan time.Time
	err    error
}

func (t *sleepTimer) Start(d time.Duration) {
	if err := t.sleep(t.ctx, d); err != nil {
		t.err = err
		t.cancel()
		return
	}
	t.c <- time.Now()
}

func (t *sleepTimer) Stop() {}

func (t *sleepTimer) C() <-chan time.Time {
	return t.c
}

func (p Policy) run(ctx context.Context, op backoff.Operation) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	if p.DelayFirst {
		if err := sleep(ctx, p.Interval); err != nil {
			return err
		}
	}

	// nil selects the library's own timer.
	var timer backoff.Timer
	st := &sleepTimer{ctx: ctx, cancel: cancel, sleep: sleep, c: make(chan time.Time, 1)}
	if p.Sleep != nil {
		timer = st
	}

	err := backoff.RetryNotifyWithTimer(op, p.backOff(ctx), nil, timer)
	if st.err != nil {
		return st.err
	}
	return err
}

// Poll calls fn until it reports done, the attempts run out or ctx ends.
// Errors returned by fn count as "not yet"; the last one is reported on exhaustion.
func Poll[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, bool, error)) (T, error) {
	var (
		zero    T
		got     T
		lastErr error
		attempt int
	)

	err := p.run(ctx, func() error {
		attempt++
		v, done, err := fn(ctx, attempt)
		if err == nil && done {
			got = v
			return nil
		}
		if err != nil {
			lastErr = err
		}
		return errNotYet
	})
	switch {
	case err == nil:
		return got, nil
	case !errors.Is(err, errNotYet):
		return zero, err
	case lastErr != nil:
		return zero, fmt.Errorf("%w after %d attempts: %v", ErrExhausted, p.attempts(), lastErr)
	default:
		return zero, fmt.Errorf("%w after %d attempts", ErrExhausted, p.attempts())
	}
}

// Do runs fn until it succeeds, returns an error that retryable rejects, or the
// attempts run out. The last error from fn is returned unchanged.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context, attempt int) error) error {
	var (
		lastErr error
		attempt int
	)

	err := p.run(ctx, func() error {
		attempt++
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if retryable != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	})
	if err != nil && lastErr != nil {
		return lastErr
	}
	return err
}
