package payment

import (
	"errors"
	"fmt"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/upstream"
)

var (
	ErrIllegalTransition = errors.New("illegal payment state transition")
	// ErrDuplicateConfirmation is returned for a gateway success that arrives
	// after confirmation already started.
	ErrDuplicateConfirmation = errors.New("payment confirmation already in progress")
	// ErrMissingOrder is a paid initiate response that carries no gateway order.
	ErrMissingOrder = errors.New("paid registration has no payment order")
)

type TransitionError struct {
	From  Phase
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s in %s", ErrIllegalTransition, e.Event, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

const (
	msgValidation    = "Please correct the highlighted fields"
	msgUpload        = "Photo upload failed. Please try again"
	msgNetwork       = "We could not reach the server. Check your registration status before trying again"
	msgGatewayFailed = "Payment failed. You can try again"
	msgUnconfirmed   = "We could not confirm your payment. Check your registration status or contact support"
	msgExpired       = "The registration session expired. Please start again"
	msgMissingOrder  = "We could not start the payment for this registration. Please contact support"
)

// Reduce is the only place the payment state changes.
func Reduce(s State, ev Event) (State, error) {
	illegal := func() (State, error) {
		return s, &TransitionError{From: s.Phase, Event: ev.eventName()}
	}

	if a, ok := ev.(Aborted); ok {
		if s.Phase.Terminal() {
			return illegal()
		}
		s.Failure = abortFailure(s, a)
		s.Phase = Failed
		return s, nil
	}

	switch s.Phase {
	case Idle:
		if e, ok := ev.(Start); ok {
			s.Phase = Validating
			s.EventID = e.EventID
			s.Phone = e.Phone
			s.PhotoDataURL = e.PhotoDataURL
			s.Free = e.Free
			return s, nil
		}

	case Validating:
		switch e := ev.(type) {
		case ValidationFailed:
			s.Phase = Failed
			s.Failure = &Failure{Kind: FailureValidation, Message: msgValidation, NextAction: ActionFixFields, Fields: e.Fields}
			return s, nil
		case ValidationPassed:
			s.Phase = Submitting
			return s, nil
		}

	case Submitting:
		switch e := ev.(type) {
		case AlreadyRegistered:
			s.Phase = Confirmed
			s.Outcome = fromStatus(s, e.Status)
			s.Outcome.Existing = !e.Recovered
			s.Outcome.Recovered = e.Recovered
			return s, nil
		case RegisteredFree:
			s.Phase = Confirmed
			s.Free = true
			s.Outcome = &Outcome{
				Registration: merge(s, e.Registration, e.Member, ""),
				Member:       e.Member,
			}
			return s, nil
		case OrderReceived:
			s.Phase = OrderCreated
			s.Free = false
			s.Order = e.Order
			s.MemberID = e.MemberID
			return s, nil
		}

	case OrderCreated:
		if _, ok := ev.(CheckoutOpened); ok {
			s.Phase = AwaitingGateway
			return s, nil
		}

	case AwaitingGateway:
		switch e := ev.(type) {
		case GatewaySucceeded:
			payment := e.Payment
			s.Phase = Confirming
			s.Payment = &payment
			return s, nil
		case GatewayDismissed:
			s.Phase = Cancelled
			return s, nil
		case GatewayFailed:
			msg := msgGatewayFailed
			if e.Reason != "" {
				msg = "Payment failed: " + e.Reason + ". You can try again"
			}
			s.Phase = Failed
			s.Failure = &Failure{Kind: FailureGateway, Message: msg, NextAction: ActionTryAgain}
			return s, nil
		}

	case Confirming:
		switch e := ev.(type) {
		case GatewaySucceeded:
			return s, ErrDuplicateConfirmation
		case PaymentConfirmed:
			s.Phase = Confirmed
			s.Outcome = fromConfirm(s, e.Response)
			return s, nil
		case ConfirmationFailed:
			if upstream.IsNetwork(e.Err) {
				s.Phase = Polling
				return s, nil
			}
			s.Phase = Failed
			s.Failure = &Failure{
				Kind:       FailureRejected,
				Message:    rejectionMessage(e.Err, msgUnconfirmed),
				NextAction: ActionContactSupport,
				PaymentID:  paymentID(s),
			}
			return s, nil
		}

	case Polling:
		switch e := ev.(type) {
		case GatewaySucceeded:
			return s, ErrDuplicateConfirmation
		case PollTick:
			s.PollAttempts = e.Attempt
			return s, nil
		case PaymentRecovered:
			s.Phase = Confirmed
			s.Outcome = fromStatus(s, e.Status)
			s.Outcome.Recovered = true
			return s, nil
		case PollExhausted:
			s.Phase = Failed
			s.Failure = &Failure{
				Kind:       FailureUnconfirmed,
				Message:    msgUnconfirmed,
				NextAction: ActionContactSupport,
				PaymentID:  paymentID(s),
			}
			return s, nil
		}

	case Confirmed:
		if _, ok := ev.(GatewaySucceeded); ok {
			return s, ErrDuplicateConfirmation
		}
	}

	return illegal()
}

func abortFailure(s State, a Aborted) *Failure {
	switch a.Kind {
	case FailureUpload:
		return &Failure{Kind: FailureUpload, Message: msgUpload, NextAction: ActionTryAgain}
	case FailureNetwork:
		return &Failure{Kind: FailureNetwork, Message: msgNetwork, NextAction: ActionCheckStatus}
	case FailureRejected:
		return &Failure{Kind: FailureRejected, Message: rejectionMessage(a.Err, msgNetwork), NextAction: ActionTryAgain}
	case FailureMissingOrder:
		return &Failure{Kind: FailureMissingOrder, Message: msgMissingOrder, NextAction: ActionContactSupport}
	case FailureExpired:
		if s.Phase == Confirming || s.Phase == Polling {
			return &Failure{Kind: FailureUnconfirmed, Message: msgUnconfirmed, NextAction: ActionContactSupport, PaymentID: paymentID(s)}
		}
		return &Failure{Kind: FailureExpired, Message: msgExpired, NextAction: ActionTryAgain}
	default:
		return &Failure{Kind: a.Kind, Message: msgNetwork, NextAction: ActionCheckStatus}
	}
}

func rejectionMessage(err error, fallback string) string {
	if msg := upstream.Message(err); msg != "" {
		return msg
	}
	return fallback
}

func paymentID(s State) string {
	if s.Payment == nil {
		return ""
	}
	return s.Payment.PaymentID
}

func fromConfirm(s State, resp *upstream.ConfirmResponse) *Outcome {
	if resp == nil {
		resp = &upstream.ConfirmResponse{}
	}
	return &Outcome{
		Registration:       merge(s, resp.Registration, resp.Member, resp.QRDataURL),
		Member:             resp.Member,
		IsNewRegistration:  resp.IsNewRegistration,
		ShouldSendWhatsApp: resp.ShouldSendWhatsApp,
		DeliveryError:      resp.WhatsAppError,
	}
}

func fromStatus(s State, st probe.Status) *Outcome {
	return &Outcome{
		Registration: merge(s, st.Registration, st.Member, ""),
		Member:       st.Member,
	}
}

// merge combines the server registration with what the client already knows.
func merge(s State, reg *domain.Registration, member *domain.Member, qrDataURL string) *domain.Registration {
	out := domain.Registration{EventID: s.EventID}
	if reg != nil {
		out = *reg
	}
	if out.Phone == "" {
		out.Phone = s.Phone
	}
	if out.Member == nil && member != nil {
		out.Member = member
	}
	if out.QRImage() == "" {
		out.QRDataURL = qrDataURL
	}
	if out.Member == nil || out.Member.Photo() == "" {
		out.PhotoDataURL = s.PhotoDataURL
	}
	return &out
}
