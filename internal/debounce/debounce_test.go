package debounce

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	mu      sync.Mutex
	results []Result[string, string]
}

func (s *sink) deliver(r Result[string, string]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *sink) all() []Result[string, string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result[string, string], len(s.results))
	copy(out, s.results)
	return out
}

func TestDebouncer_CoalescesKeystrokes(t *testing.T) {
	var calls atomic.Int32
	out := &sink{}

	d := New(context.Background(), 20*time.Millisecond, func(ctx context.Context, key string) (string, error) {
		calls.Add(1)
		return "result:" + key, nil
	}, out.deliver)

	d.Trigger("P")
	d.Trigger("Pu")
	d.Trigger("Pune")
	assert.True(t, d.Busy())

	require.Eventually(t, func() bool { return len(out.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "Pune", out.all()[0].Key)
	assert.Equal(t, "result:Pune", out.all()[0].Value)
	assert.False(t, d.Busy())
}

func TestDebouncer_DiscardsStaleResult(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 2)
	out := &sink{}

	d := New(context.Background(), time.Millisecond, func(ctx context.Context, key string) (string, error) {
		started <- key
		if key == "old" {
			<-release
		}
		return key, nil
	}, out.deliver)

	d.Trigger("old")
	require.Equal(t, "old", <-started)

	d.Trigger("new")
	require.Equal(t, "new", <-started)
	require.Eventually(t, func() bool { return len(out.all()) == 1 }, time.Second, 5*time.Millisecond)

	close(release)
	time.Sleep(20 * time.Millisecond)

	results := out.all()
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Key)
}

func TestDebouncer_Cancel(t *testing.T) {
	out := &sink{}
	d := New(context.Background(), 10*time.Millisecond, func(ctx context.Context, key string) (string, error) {
		return key, nil
	}, out.deliver)

	d.Trigger("x")
	d.Cancel()
	assert.False(t, d.Busy())

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, out.all())
}
