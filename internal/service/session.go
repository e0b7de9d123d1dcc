package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mandapam/portal/internal/association"
	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/pass"
	"github.com/mandapam/portal/internal/payment"
	"github.com/mandapam/portal/internal/probe"
)

type Flow string

const (
	FlowPublic Flow = "public"
	FlowManual Flow = "manual"
)

// Session is one open registration form. It lives until its TTL passes
// without activity.
type Session struct {
	ID      uuid.UUID
	Flow    Flow
	StaffID string
	Event   domain.Event

	ctx          context.Context
	cancel       context.CancelFunc
	watcher      *probe.Watcher
	associations *association.Debouncer

	mu        sync.Mutex
	attempt   *payment.Attempt
	delivery  pass.DeliveryStatus
	expiresAt time.Time
}

func (s *Session) currentAttempt() *payment.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

func (s *Session) setDelivery(d pass.DeliveryStatus) {
	s.mu.Lock()
	s.delivery = d
	s.mu.Unlock()
}

func (s *Session) close() {
	s.watcher.Stop()
	s.associations.Stop()
	s.cancel()
}

type registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

func newRegistry(ttl time.Duration) *registry {
	return &registry{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (g *registry) add(s *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s.expiresAt = g.now().Add(g.ttl)
	g.sessions[s.ID] = s
}

// get returns a live session and extends its lifetime.
func (g *registry) get(id string) (*Session, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[sid]
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := g.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.expiresAt) {
		return nil, ErrSessionNotFound
	}
	s.expiresAt = now.Add(g.ttl)
	return s, nil
}

func (g *registry) sweep() int {
	now := g.now()
	var expired []*Session

	g.mu.Lock()
	for id, s := range g.sessions {
		s.mu.Lock()
		dead := now.After(s.expiresAt)
		s.mu.Unlock()
		if dead {
			delete(g.sessions, id)
			expired = append(expired, s)
		}
	}
	g.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	return len(expired)
}

func (g *registry) run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}
