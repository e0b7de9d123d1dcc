package domain

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationAttended   RegistrationStatus = "attended"
	RegistrationCancelled  RegistrationStatus = "cancelled"
	RegistrationPending    RegistrationStatus = "pending"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentFailed  PaymentStatus = "failed"
)

type Registration struct {
	ID            int64              `json:"id"`
	EventID       int64              `json:"eventId"`
	MemberID      int64              `json:"memberId"`
	Status        RegistrationStatus `json:"status"`
	PaymentStatus PaymentStatus      `json:"paymentStatus"`
	AmountPaid    float64            `json:"amountPaid"`
	RegisteredAt  time.Time          `json:"registeredAt"`
	AttendedAt    *time.Time         `json:"attendedAt,omitempty"`
	QRToken       string             `json:"qrToken,omitempty"`
	QRDataURL     string             `json:"qrDataURL,omitempty"`
	QRCode        string             `json:"qrCode,omitempty"`
	AssociationID *int64             `json:"associationId,omitempty"`

	// Client-known display fields merged in after confirmation.
	Phone        string  `json:"phone,omitempty"`
	PhotoDataURL string  `json:"photoDataURL,omitempty"`
	Member       *Member `json:"member,omitempty"`
}

func (r *Registration) Attended() bool {
	return r.AttendedAt != nil || r.Status == RegistrationAttended
}

// QRImage returns the rendered QR image, whichever field the backend filled.
func (r *Registration) QRImage() string {
	if r.QRDataURL != "" {
		return r.QRDataURL
	}
	return r.QRCode
}

func (r *Registration) HasQR() bool {
	return r.QRToken != "" || r.QRImage() != ""
}

// IsPaid reports the poll predicate used after an ambiguous confirmation.
func (r *Registration) IsPaid() bool {
	return r.PaymentStatus == PaymentPaid
}

type AttemptOutcome string

const (
	AttemptConfirmed    AttemptOutcome = "confirmed"
	AttemptNetworkError AttemptOutcome = "network_error"
	AttemptRejected     AttemptOutcome = "rejected"
	AttemptRecovered    AttemptOutcome = "recovered"
	AttemptUnresolved   AttemptOutcome = "unresolved"
)

// PaymentAttempt is one confirmation call recorded for manual reconciliation.
type PaymentAttempt struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	EventID   int64          `db:"event_id" json:"event_id"`
	MemberID  int64          `db:"member_id" json:"member_id"`
	Phone     string         `db:"phone" json:"phone"`
	OrderID   string         `db:"order_id" json:"order_id"`
	PaymentID string         `db:"payment_id" json:"payment_id"`
	Attempt   int            `db:"attempt" json:"attempt"`
	Outcome   AttemptOutcome `db:"outcome" json:"outcome"`
	Error     *string        `db:"error" json:"error,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
