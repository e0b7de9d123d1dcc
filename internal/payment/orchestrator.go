package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/retry"
	"github.com/mandapam/portal/internal/upstream"
)

type Upstream interface {
	InitiateRegistration(ctx context.Context, eventID int64, req upstream.InitiateRequest) (*upstream.InitiateResponse, error)
	ConfirmPayment(ctx context.Context, eventID int64, req upstream.ConfirmRequest) (*upstream.ConfirmResponse, error)
}

type StatusProbe interface {
	Check(ctx context.Context, eventID int64, phone string) probe.Status
	Verify(ctx context.Context, eventID int64, phone string) (probe.Status, error)
}

// Ledger persists confirmation attempts for manual reconciliation.
type Ledger interface {
	Record(ctx context.Context, attempt *domain.PaymentAttempt) error
}

type Policies struct {
	Confirm retry.Policy
	Poll    retry.Policy
}

func PoliciesFromConfig(cfg config.Upstream) Policies {
	return Policies{
		Confirm: retry.Policy{
			MaxAttempts: 1 + cfg.ConfirmRetries,
			Interval:    cfg.ConfirmBackoff,
			Multiplier:  2,
			MaxInterval: 4 * cfg.ConfirmBackoff,
		},
		Poll: retry.Policy{
			MaxAttempts: cfg.PollAttempts,
			Interval:    cfg.PollInterval,
			DelayFirst:  true,
		},
	}
}

// Submission is everything an attempt needs from the form.
type Submission struct {
	EventID      int64
	Phone        string
	Free         bool
	PhotoDataURL string
	// Prior is a status the caller already holds for Phone; a registered
	// prior skips the submit-time probe.
	Prior *probe.Status
	// Validate returns field errors; it must not touch the network.
	Validate func() map[string]string
	// Prepare optimizes and uploads the photo and builds the initiate payload.
	Prepare func(ctx context.Context) (upstream.InitiateRequest, error)
	// OnConfirmed runs once, from the attempt goroutine, after Confirmed.
	OnConfirmed func(ctx context.Context, s State)
}

type Orchestrator struct {
	upstream Upstream
	probe    StatusProbe
	ledger   Ledger
	policies Policies
	log      *zap.Logger
	now      func() time.Time
}

func NewOrchestrator(up Upstream, probe StatusProbe, ledger Ledger, policies Policies, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		upstream: up,
		probe:    probe,
		ledger:   ledger,
		policies: policies,
		log:      log,
		now:      time.Now,
	}
}

// Start launches an attempt bound to ctx. Cancelling ctx fails any attempt
// that has not reached a terminal phase.
func (o *Orchestrator) Start(ctx context.Context, sub Submission) *Attempt {
	a := &Attempt{
		ID:      uuid.New(),
		o:       o,
		sub:     sub,
		mailbox: make(chan envelope),
		changed: make(chan struct{}),
		done:    make(chan struct{}),
	}
	a.state, _ = Reduce(State{}, Start{
		EventID:      sub.EventID,
		Phone:        sub.Phone,
		PhotoDataURL: sub.PhotoDataURL,
		Free:         sub.Free,
	})

	go a.run(ctx)

	return a
}
