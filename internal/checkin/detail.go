package checkin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/pkg/qr"
)

type QRSource string

const (
	QRFromRegistration QRSource = "registration"
	QRRendered         QRSource = "rendered"
	QRFromProbe        QRSource = "probe"
	QRUnavailable      QRSource = "unavailable"
)

type Detail struct {
	Registration domain.Registration `json:"registration"`
	Member       *domain.Member      `json:"member,omitempty"`
	QRDataURL    string              `json:"qrDataURL,omitempty"`
	QRSource     QRSource            `json:"qrSource"`
	CanCheckIn   bool                `json:"canCheckIn"`
}

// Detail resolves one registration with its QR image and member profile.
// Missing QR fields are rendered from the token, else fetched by phone.
func (c *Controller) Detail(ctx context.Context, eventID, registrationID int64) (*Detail, error) {
	rows, err := c.upstream.EventRegistrations(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	var reg *domain.Registration
	for i := range rows {
		if rows[i].ID == registrationID {
			reg = &rows[i]
			break
		}
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}

	d := &Detail{Registration: *reg, Member: reg.Member}
	if d.Member == nil && reg.MemberID > 0 {
		m, err := c.upstream.Member(ctx, reg.MemberID)
		if err != nil {
			c.log.Warn("member lookup failed", zap.Int64("member_id", reg.MemberID), zap.Error(err))
		} else {
			d.Member = m
		}
	}

	c.resolveQR(ctx, eventID, d)
	d.CanCheckIn = d.Registration.QRToken != "" && !d.Registration.Attended()

	return d, nil
}

func (c *Controller) resolveQR(ctx context.Context, eventID int64, d *Detail) {
	reg := &d.Registration
	if img := reg.QRImage(); img != "" {
		d.QRDataURL, d.QRSource = img, QRFromRegistration
		return
	}

	if reg.QRToken != "" {
		if url, err := qr.DataURL(reg.QRToken); err == nil {
			d.QRDataURL, d.QRSource = url, QRRendered
			return
		}
	}

	phone := reg.Phone
	if phone == "" && d.Member != nil {
		phone = d.Member.Phone
	}
	d.QRSource = QRUnavailable
	if phone == "" {
		return
	}

	st, err := c.probe.Verify(ctx, eventID, phone)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidPhone) {
			c.log.Warn("qr fallback probe failed", zap.Int64("registration_id", reg.ID), zap.Error(err))
		}
		return
	}
	if st.Registration == nil {
		return
	}
	if reg.QRToken == "" {
		reg.QRToken = st.Registration.QRToken
	}
	if img := st.Registration.QRImage(); img != "" {
		d.QRDataURL, d.QRSource = img, QRFromProbe
	}
}
