package payment

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/retry"
	"github.com/mandapam/portal/internal/upstream"
)

type GatewayKind string

const (
	GatewaySuccess   GatewayKind = "success"
	GatewayDismissal GatewayKind = "dismissed"
	GatewayFailure   GatewayKind = "failed"
)

// GatewayEvent is what the external checkout reports. It may arrive more than once.
type GatewayEvent struct {
	Kind    GatewayKind
	Payment upstream.GatewayPayment
	Reason  string
}

func (g GatewayEvent) event() Event {
	switch g.Kind {
	case GatewaySuccess:
		return GatewaySucceeded{Payment: g.Payment}
	case GatewayDismissal:
		return GatewayDismissed{}
	default:
		return GatewayFailed{Reason: g.Reason}
	}
}

type envelope struct {
	ev    Event
	reply chan result
}

type result struct {
	state State
	err   error
}

// Attempt is one registration attempt. A single goroutine owns its state and
// applies events from the mailbox in order; helper goroutines doing network
// work report back through the same mailbox.
type Attempt struct {
	ID  uuid.UUID
	o   *Orchestrator
	sub Submission

	mailbox chan envelope
	done    chan struct{}

	mu      sync.RWMutex
	state   State
	changed chan struct{}
}

func (a *Attempt) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Done is closed once the attempt reaches a terminal phase.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until until(state) holds or ctx ends, returning the latest state.
func (a *Attempt) Wait(ctx context.Context, until func(State) bool) (State, error) {
	for {
		a.mu.RLock()
		s, ch := a.state, a.changed
		a.mu.RUnlock()

		if until(s) {
			return s, nil
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

// Deliver hands a gateway callback to the attempt. A repeated success returns
// ErrDuplicateConfirmation and never causes a second confirm call.
func (a *Attempt) Deliver(ev GatewayEvent) (State, error) {
	env := envelope{ev: ev.event(), reply: make(chan result, 1)}

	select {
	case a.mailbox <- env:
	case <-a.done:
		s := a.State()
		_, err := Reduce(s, env.ev)
		return s, err
	}

	r := <-env.reply
	return r.state, r.err
}

func (a *Attempt) run(ctx context.Context) {
	defer close(a.done)

	go a.submit(ctx)

	for {
		select {
		case env := <-a.mailbox:
			prev := a.State()
			next, err := Reduce(prev, env.ev)
			if err == nil {
				a.set(next)
				a.entered(ctx, prev, next)
			} else if errors.Is(err, ErrDuplicateConfirmation) {
				a.o.log.Info("duplicate gateway success dropped",
					zap.String("attempt_id", a.ID.String()),
					zap.Int64("event_id", prev.EventID),
					zap.String("phase", prev.Phase.String()),
				)
			}

			if env.reply != nil {
				env.reply <- result{state: a.State(), err: err}
			}

			if err == nil && next.Phase.Terminal() {
				a.finish(ctx, next)
				return
			}

		case <-ctx.Done():
			s := a.State()
			next, err := Reduce(s, Aborted{Kind: FailureExpired, Err: ctx.Err()})
			if err == nil {
				a.set(next)
				a.o.log.Warn("registration attempt aborted",
					zap.String("attempt_id", a.ID.String()),
					zap.Int64("event_id", s.EventID),
					zap.String("phase", s.Phase.String()),
					zap.String("payment_id", paymentID(s)),
				)
			}
			return
		}
	}
}

func (a *Attempt) set(s State) {
	a.mu.Lock()
	a.state = s
	close(a.changed)
	a.changed = make(chan struct{})
	a.mu.Unlock()
}

// entered starts the network work that belongs to the phase just entered.
func (a *Attempt) entered(ctx context.Context, prev, next State) {
	if next.Phase == Confirming && prev.Phase == AwaitingGateway {
		go a.confirm(ctx, *next.Payment, next.MemberID)
	}
}

func (a *Attempt) finish(ctx context.Context, s State) {
	if s.Phase == Confirmed && a.sub.OnConfirmed != nil {
		a.sub.OnConfirmed(ctx, s)
	}
}

// post sends an internal event; it gives up once the attempt is over.
func (a *Attempt) post(ev Event) bool {
	select {
	case a.mailbox <- envelope{ev: ev}:
		return true
	case <-a.done:
		return false
	}
}

func (a *Attempt) submit(ctx context.Context) {
	if a.sub.Validate != nil {
		if fields := a.sub.Validate(); len(fields) > 0 {
			a.post(ValidationFailed{Fields: fields})
			return
		}
	}
	if !a.post(ValidationPassed{}) {
		return
	}

	if prior := a.sub.Prior; prior != nil && prior.IsRegistered {
		a.post(AlreadyRegistered{Status: *prior})
		return
	}
	if status := a.o.probe.Check(ctx, a.sub.EventID, a.sub.Phone); status.IsRegistered {
		a.post(AlreadyRegistered{Status: status})
		return
	}

	req, err := a.sub.Prepare(ctx)
	if err != nil {
		a.o.log.Warn("registration photo upload failed",
			zap.Int64("event_id", a.sub.EventID),
			zap.Error(err),
		)
		a.post(Aborted{Kind: FailureUpload, Err: err})
		return
	}

	resp, err := a.o.upstream.InitiateRegistration(ctx, a.sub.EventID, req)
	if err != nil {
		a.initiateFailed(ctx, err)
		return
	}

	if resp.IsFree {
		a.post(RegisteredFree{Registration: resp.Registration, Member: resp.Member})
		return
	}
	if resp.PaymentOptions == nil {
		var regID int64
		if resp.Registration != nil {
			regID = resp.Registration.ID
		}
		a.o.log.Error("paid registration initiated without a payment order",
			zap.Int64("event_id", a.sub.EventID),
			zap.Int64("registration_id", regID),
		)
		a.post(Aborted{Kind: FailureMissingOrder, Err: ErrMissingOrder})
		return
	}

	var memberID int64
	if resp.Member != nil {
		memberID = resp.Member.ID
	} else if resp.Registration != nil {
		memberID = resp.Registration.MemberID
	}

	if a.post(OrderReceived{Order: resp.PaymentOptions, MemberID: memberID}) {
		a.post(CheckoutOpened{})
	}
}

// initiateFailed never retries the initiate call: after a network error the
// status probe decides whether an earlier request already registered the phone.
func (a *Attempt) initiateFailed(ctx context.Context, err error) {
	if !upstream.IsNetwork(err) {
		a.post(Aborted{Kind: FailureRejected, Err: err})
		return
	}

	a.o.log.Warn("initiate registration network error, probing status",
		zap.Int64("event_id", a.sub.EventID),
		zap.Error(err),
	)

	status, verr := a.o.probe.Verify(ctx, a.sub.EventID, a.sub.Phone)
	if verr == nil && status.IsRegistered {
		a.post(AlreadyRegistered{Status: status, Recovered: true})
		return
	}

	a.post(Aborted{Kind: FailureNetwork, Err: err})
}

func (a *Attempt) confirm(ctx context.Context, payment upstream.GatewayPayment, memberID int64) {
	req := upstream.ConfirmRequest{MemberID: memberID, GatewayPayment: payment}

	var resp *upstream.ConfirmResponse
	err := retry.Do(ctx, a.o.policies.Confirm, upstream.IsNetwork, func(ctx context.Context, attempt int) error {
		r, err := a.o.upstream.ConfirmPayment(ctx, a.sub.EventID, req)
		if err != nil {
			outcome := domain.AttemptRejected
			if upstream.IsNetwork(err) {
				outcome = domain.AttemptNetworkError
			}
			a.o.log.Error("confirm payment failed",
				zap.Int64("event_id", a.sub.EventID),
				zap.Int64("member_id", memberID),
				zap.String("order_id", payment.OrderID),
				zap.String("payment_id", payment.PaymentID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			a.record(ctx, req, attempt, outcome, err)
			return err
		}
		a.record(ctx, req, attempt, domain.AttemptConfirmed, nil)
		resp = r
		return nil
	})

	if err == nil {
		a.post(PaymentConfirmed{Response: resp})
		return
	}
	if !a.post(ConfirmationFailed{Err: err}) || !upstream.IsNetwork(err) {
		return
	}

	a.poll(ctx, req)
}

// poll looks for a paid registration after an ambiguous confirmation. It never
// repeats the payment itself.
func (a *Attempt) poll(ctx context.Context, req upstream.ConfirmRequest) {
	status, err := retry.Poll(ctx, a.o.policies.Poll, func(ctx context.Context, attempt int) (probe.Status, bool, error) {
		if !a.post(PollTick{Attempt: attempt}) {
			return probe.Status{}, false, context.Canceled
		}
		st, err := a.o.probe.Verify(ctx, a.sub.EventID, a.sub.Phone)
		if err != nil {
			return st, false, err
		}
		return st, st.Paid(), nil
	})

	if err == nil {
		a.record(ctx, req, a.State().PollAttempts, domain.AttemptRecovered, nil)
		a.post(PaymentRecovered{Status: status})
		return
	}
	if ctx.Err() != nil {
		return
	}

	a.o.log.Error("payment could not be confirmed after polling",
		zap.Int64("event_id", a.sub.EventID),
		zap.Int64("member_id", req.MemberID),
		zap.String("order_id", req.OrderID),
		zap.String("payment_id", req.PaymentID),
		zap.Int("attempt", a.o.policies.Poll.MaxAttempts),
		zap.Error(err),
	)
	a.record(ctx, req, a.State().PollAttempts, domain.AttemptUnresolved, err)
	a.post(PollExhausted{})
}

func (a *Attempt) record(ctx context.Context, req upstream.ConfirmRequest, attempt int, outcome domain.AttemptOutcome, cause error) {
	if a.o.ledger == nil {
		return
	}

	entry := &domain.PaymentAttempt{
		ID:        uuid.New(),
		EventID:   a.sub.EventID,
		MemberID:  req.MemberID,
		Phone:     a.sub.Phone,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Attempt:   attempt,
		Outcome:   outcome,
		CreatedAt: a.o.now(),
	}
	if cause != nil {
		msg := cause.Error()
		entry.Error = &msg
	}

	if err := a.o.ledger.Record(context.WithoutCancel(ctx), entry); err != nil {
		a.o.log.Error("payment ledger write failed",
			zap.String("payment_id", req.PaymentID),
			zap.Error(err),
		)
	}
}
