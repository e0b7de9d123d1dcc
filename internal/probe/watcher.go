package probe

import (
	"context"
	"sync"
	"time"

	"github.com/mandapam/portal/internal/debounce"
	"github.com/mandapam/portal/internal/domain"
)

// Watcher runs the silent probe while a phone number is being typed. A lookup
// starts once the input normalizes to exactly 10 digits and the input has been
// quiet for the debounce period.
type Watcher struct {
	probe   *Probe
	eventID int64
	d       *debounce.Debouncer[string, Status]

	mu     sync.RWMutex
	phone  string
	latest *Status
}

func NewWatcher(ctx context.Context, probe *Probe, eventID int64, delay time.Duration) *Watcher {
	w := &Watcher{
		probe:   probe,
		eventID: eventID,
	}
	w.d = debounce.New(ctx, delay, w.lookup, w.store)
	return w
}

// PhoneChanged feeds a raw phone value and returns its normalized form.
func (w *Watcher) PhoneChanged(raw string) string {
	phone := domain.NormalizePhone(raw)

	w.mu.Lock()
	changed := phone != w.phone
	w.phone = phone
	if changed {
		w.latest = nil
	}
	answered := w.latest != nil
	w.mu.Unlock()

	if !domain.IsValidPhone(phone) {
		w.d.Cancel()
		return phone
	}
	if changed || (!answered && !w.d.Busy()) {
		w.d.Trigger(phone)
	}
	return phone
}

// InFlight is true while a lookup is scheduled or running; the phone field is
// disabled and submission blocked meanwhile.
func (w *Watcher) InFlight() bool {
	return w.d.Busy()
}

// Latest returns the result for the current phone, if one has arrived.
func (w *Watcher) Latest() (Status, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.latest == nil || w.latest.Phone != w.phone {
		return Status{}, false
	}
	return *w.latest, true
}

func (w *Watcher) Phone() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.phone
}

func (w *Watcher) Stop() {
	w.d.Cancel()
}

func (w *Watcher) lookup(ctx context.Context, phone string) (Status, error) {
	return w.probe.Check(ctx, w.eventID, phone), nil
}

func (w *Watcher) store(r debounce.Result[string, Status]) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if r.Key != w.phone {
		return
	}
	status := r.Value
	w.latest = &status
}
