package payment

import (
	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/upstream"
)

// Event is one input to Reduce.
type Event interface {
	eventName() string
}

type Start struct {
	EventID      int64
	Phone        string
	PhotoDataURL string
	Free         bool
}

type ValidationFailed struct {
	Fields map[string]string
}

type ValidationPassed struct{}

// AlreadyRegistered carries a registration found by the status probe instead of
// one created by this attempt.
type AlreadyRegistered struct {
	Status    probe.Status
	Recovered bool
}

type RegisteredFree struct {
	Registration *domain.Registration
	Member       *domain.Member
}

type OrderReceived struct {
	Order    *upstream.PaymentOptions
	MemberID int64
}

type CheckoutOpened struct{}

type GatewaySucceeded struct {
	Payment upstream.GatewayPayment
}

type GatewayDismissed struct{}

type GatewayFailed struct {
	Reason string
}

type PaymentConfirmed struct {
	Response *upstream.ConfirmResponse
}

type ConfirmationFailed struct {
	Err error
}

type PollTick struct {
	Attempt int
}

type PaymentRecovered struct {
	Status probe.Status
}

type PollExhausted struct{}

// Aborted moves any non-terminal attempt to Failed.
type Aborted struct {
	Kind FailureKind
	Err  error
}

func (Start) eventName() string              { return "start" }
func (ValidationFailed) eventName() string   { return "validation_failed" }
func (ValidationPassed) eventName() string   { return "validation_passed" }
func (AlreadyRegistered) eventName() string  { return "already_registered" }
func (RegisteredFree) eventName() string     { return "registered_free" }
func (OrderReceived) eventName() string      { return "order_received" }
func (CheckoutOpened) eventName() string     { return "checkout_opened" }
func (GatewaySucceeded) eventName() string   { return "gateway_succeeded" }
func (GatewayDismissed) eventName() string   { return "gateway_dismissed" }
func (GatewayFailed) eventName() string      { return "gateway_failed" }
func (PaymentConfirmed) eventName() string   { return "payment_confirmed" }
func (ConfirmationFailed) eventName() string { return "confirmation_failed" }
func (PollTick) eventName() string           { return "poll_tick" }
func (PaymentRecovered) eventName() string   { return "payment_recovered" }
func (PollExhausted) eventName() string      { return "poll_exhausted" }
func (Aborted) eventName() string            { return "aborted" }
