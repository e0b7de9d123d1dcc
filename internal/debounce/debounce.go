// Package debounce coalesces rapid input changes into a single lookup and
// discards results that belong to an older generation.
package debounce

import (
	"context"
	"sync"
	"time"
)

type Result[K comparable, V any] struct {
	Key        K
	Value      V
	Err        error
	Generation uint64
}

type Debouncer[K comparable, V any] struct {
	parent  context.Context
	delay   time.Duration
	run     func(ctx context.Context, key K) (V, error)
	deliver func(Result[K, V])

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	busy   bool
}

// New returns a debouncer whose lookups are bound to ctx. deliver is called with
// the debouncer lock held and must not call back into it.
func New[K comparable, V any](
	ctx context.Context,
	delay time.Duration,
	run func(ctx context.Context, key K) (V, error),
	deliver func(Result[K, V]),
) *Debouncer[K, V] {
	return &Debouncer[K, V]{
		parent:  ctx,
		delay:   delay,
		run:     run,
		deliver: deliver,
	}
}

// Trigger schedules a lookup for key after the quiet period, superseding any
// pending or in-flight lookup.
func (d *Debouncer[K, V]) Trigger(key K) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetLocked()
	d.busy = true
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, key) })

	return gen
}

// Cancel drops any pending or in-flight lookup.
func (d *Debouncer[K, V]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetLocked()
}

// Busy reports whether a lookup is scheduled or running for the current generation.
func (d *Debouncer[K, V]) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.busy
}

func (d *Debouncer[K, V]) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.gen
}

func (d *Debouncer[K, V]) resetLocked() {
	d.gen++
	d.busy = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[K, V]) fire(gen uint64, key K) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(d.parent)
	d.cancel = cancel
	d.mu.Unlock()

	v, err := d.run(ctx, key)
	cancel()

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		return
	}
	d.busy = false
	d.cancel = nil
	d.timer = nil

	if d.deliver != nil {
		d.deliver(Result[K, V]{Key: key, Value: v, Err: err, Generation: gen})
	}
}
