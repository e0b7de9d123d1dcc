package payment

import (
	"fmt"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/upstream"
)

type Phase int

const (
	Idle Phase = iota
	Validating
	Submitting
	OrderCreated
	AwaitingGateway
	Confirming
	Polling
	Confirmed
	Failed
	Cancelled
)

var phaseNames = map[Phase]string{
	Idle:            "idle",
	Validating:      "validating",
	Submitting:      "submitting",
	OrderCreated:    "order_created",
	AwaitingGateway: "awaiting_gateway",
	Confirming:      "confirming",
	Polling:         "polling",
	Confirmed:       "confirmed",
	Failed:          "failed",
	Cancelled:       "cancelled",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p Phase) Terminal() bool {
	return p == Confirmed || p == Failed || p == Cancelled
}

// Settled reports whether the attempt is waiting on nobody but the user.
func (p Phase) Settled() bool {
	return p == AwaitingGateway || p.Terminal()
}

// Resubmittable reports whether a new attempt may replace this one.
func (p Phase) Resubmittable() bool {
	return p == Idle || p == Failed || p == Cancelled
}

type FailureKind string

const (
	FailureValidation   FailureKind = "validation"
	FailureUpload       FailureKind = "upload"
	FailureNetwork      FailureKind = "network"
	FailureRejected     FailureKind = "rejected"
	FailureGateway      FailureKind = "gateway"
	FailureUnconfirmed  FailureKind = "unconfirmed"
	FailureExpired      FailureKind = "expired"
	FailureMissingOrder FailureKind = "missing_order"
)

type NextAction string

const (
	ActionFixFields      NextAction = "fix_fields"
	ActionTryAgain       NextAction = "try_again"
	ActionCheckStatus    NextAction = "check_status"
	ActionContactSupport NextAction = "contact_support"
)

type Failure struct {
	Kind       FailureKind       `json:"kind"`
	Message    string            `json:"message"`
	NextAction NextAction        `json:"next_action"`
	Fields     map[string]string `json:"fields,omitempty"`
	PaymentID  string            `json:"payment_id,omitempty"`
}

// Outcome is the confirmed registration and what is known about its delivery.
type Outcome struct {
	Registration       *domain.Registration `json:"registration"`
	Member             *domain.Member       `json:"member,omitempty"`
	Existing           bool                 `json:"existing"`
	Recovered          bool                 `json:"recovered"`
	IsNewRegistration  *bool                `json:"isNewRegistration,omitempty"`
	ShouldSendWhatsApp *bool                `json:"shouldSendWhatsApp,omitempty"`
	DeliveryError      string               `json:"deliveryError,omitempty"`
}

type State struct {
	Phase        Phase                    `json:"phase"`
	EventID      int64                    `json:"eventId"`
	Phone        string                   `json:"phone,omitempty"`
	PhotoDataURL string                   `json:"-"`
	Free         bool                     `json:"free"`
	MemberID     int64                    `json:"memberId,omitempty"`
	Order        *upstream.PaymentOptions `json:"order,omitempty"`
	Payment      *upstream.GatewayPayment `json:"-"`
	PollAttempts int                      `json:"pollAttempts,omitempty"`
	Outcome      *Outcome                 `json:"outcome,omitempty"`
	Failure      *Failure                 `json:"failure,omitempty"`
}
