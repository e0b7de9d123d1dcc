package probe

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/upstream"
)

// ErrCouldNotVerify is surfaced when the user explicitly asked for a status check
// and the backend could not answer.
var ErrCouldNotVerify = errors.New("could not verify registration status")

type StatusFetcher interface {
	RegistrationStatus(ctx context.Context, eventID int64, phone string) (*upstream.StatusResponse, error)
}

type Status struct {
	Phone        string               `json:"phone"`
	IsRegistered bool                 `json:"isRegistered"`
	Registration *domain.Registration `json:"registration,omitempty"`
	Member       *domain.Member       `json:"member,omitempty"`
}

// Paid reports whether the status shows a registration with a settled payment.
func (s Status) Paid() bool {
	return s.IsRegistered && s.Registration != nil && s.Registration.IsPaid()
}

type Probe struct {
	fetcher StatusFetcher
	log     *zap.Logger
}

func New(fetcher StatusFetcher, log *zap.Logger) *Probe {
	return &Probe{
		fetcher: fetcher,
		log:     log,
	}
}

// Check is the silent background lookup: any failure resolves to "not registered"
// so the form is never blocked by a backend hiccup.
func (p *Probe) Check(ctx context.Context, eventID int64, phone string) Status {
	status, err := p.Verify(ctx, eventID, phone)
	if err != nil {
		p.log.Debug("silent status check failed",
			zap.Int64("event_id", eventID),
			zap.Error(err),
		)
		return Status{Phone: domain.NormalizePhone(phone)}
	}
	return status
}

// Verify is the explicit lookup; backend failures surface as ErrCouldNotVerify.
func (p *Probe) Verify(ctx context.Context, eventID int64, phone string) (Status, error) {
	phone = domain.NormalizePhone(phone)
	if !domain.IsValidPhone(phone) {
		return Status{Phone: phone}, domain.ErrInvalidPhone
	}

	resp, err := p.fetcher.RegistrationStatus(ctx, eventID, phone)
	if err != nil {
		return Status{Phone: phone}, fmt.Errorf("%w: %w", ErrCouldNotVerify, err)
	}

	return fromResponse(phone, resp), nil
}

func fromResponse(phone string, resp *upstream.StatusResponse) Status {
	status := Status{
		Phone:        phone,
		IsRegistered: resp.IsRegistered,
		Member:       resp.Member,
	}
	if resp.Registration != nil {
		reg := *resp.Registration
		if reg.QRDataURL == "" && reg.QRCode == "" {
			reg.QRDataURL = resp.QRDataURL
		}
		if reg.Phone == "" {
			reg.Phone = phone
		}
		if reg.Member == nil {
			reg.Member = resp.Member
		}
		status.Registration = &reg
	}
	return status
}
