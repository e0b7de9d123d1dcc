package upstream

import (
	"time"

	"github.com/mandapam/portal/internal/domain"
)

// InitiateRequest is the body of POST /events/:id/register.
type InitiateRequest struct {
	Name          string              `json:"name"`
	Phone         string              `json:"phone"`
	Email         string              `json:"email,omitempty"`
	BusinessName  string              `json:"businessName"`
	BusinessType  domain.BusinessType `json:"businessType"`
	City          string              `json:"city,omitempty"`
	AssociationID *int64              `json:"associationId,omitempty"`
	Photo         string              `json:"photo,omitempty"`
}

// PaymentOptions is the gateway order descriptor handed to the checkout widget.
type PaymentOptions struct {
	Key         string            `json:"key"`
	OrderID     string            `json:"order_id"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Prefill     map[string]string `json:"prefill,omitempty"`
}

type InitiateResponse struct {
	IsFree         bool                 `json:"isFree"`
	Registration   *domain.Registration `json:"registration,omitempty"`
	Member         *domain.Member       `json:"member,omitempty"`
	PaymentOptions *PaymentOptions      `json:"paymentOptions,omitempty"`
}

// GatewayPayment is the success callback payload of the checkout widget.
type GatewayPayment struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type ConfirmRequest struct {
	MemberID int64 `json:"memberId"`
	GatewayPayment
}

type ConfirmResponse struct {
	Registration       *domain.Registration `json:"registration,omitempty"`
	Member             *domain.Member       `json:"member,omitempty"`
	QRDataURL          string               `json:"qrDataURL,omitempty"`
	IsNewRegistration  *bool                `json:"isNewRegistration,omitempty"`
	ShouldSendWhatsApp *bool                `json:"shouldSendWhatsApp,omitempty"`
	WhatsAppError      string               `json:"whatsappError,omitempty"`
}

type StatusResponse struct {
	IsRegistered bool                 `json:"isRegistered"`
	Registration *domain.Registration `json:"registration,omitempty"`
	Member       *domain.Member       `json:"member,omitempty"`
	QRDataURL    string               `json:"qrDataURL,omitempty"`
}

type CheckInRequest struct {
	QRToken string `json:"qrToken"`
}

type CheckInResponse struct {
	AttendedAt       time.Time            `json:"attendedAt"`
	AlreadyCheckedIn bool                 `json:"alreadyCheckedIn,omitempty"`
	Registration     *domain.Registration `json:"registration,omitempty"`
	Message          string               `json:"message,omitempty"`
}

type uploadResponse struct {
	URL      string `json:"url"`
	ImageURL string `json:"imageURL"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
