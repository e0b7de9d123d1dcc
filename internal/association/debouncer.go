package association

import (
	"context"
	"sync"
	"time"

	"github.com/mandapam/portal/internal/debounce"
)

// Debouncer tracks the association picker for one form while the city is typed.
type Debouncer struct {
	client *Client
	d      *debounce.Debouncer[string, View]

	mu   sync.RWMutex
	view View
}

func NewDebouncer(ctx context.Context, client *Client, delay time.Duration) *Debouncer {
	ad := &Debouncer{
		client: client,
		view:   NotLoaded(),
	}
	ad.d = debounce.New(ctx, delay, client.Lookup, ad.store)
	return ad
}

// CityChanged returns the view to render immediately; the loaded result
// replaces it once the quiet period has passed.
func (a *Debouncer) CityChanged(city string) View {
	if !a.client.IsSearchable(city) {
		a.d.Cancel()
		a.set(cleared(city))
		return a.View()
	}

	a.set(loading(city))
	a.d.Trigger(city)
	return a.View()
}

func (a *Debouncer) View() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.view
}

func (a *Debouncer) Stop() {
	a.d.Cancel()
}

func (a *Debouncer) set(v View) {
	a.mu.Lock()
	a.view = v
	a.mu.Unlock()
}

func (a *Debouncer) store(r debounce.Result[string, View]) {
	a.set(r.Value)
}
