package checkin

import (
	"context"
	"fmt"
	"strings"

	"github.com/mandapam/portal/internal/domain"
)

type Filter struct {
	Search        string                    `form:"search"`
	Status        domain.RegistrationStatus `form:"status" binding:"omitempty,oneof=registered attended cancelled pending"`
	PaymentStatus domain.PaymentStatus      `form:"paymentStatus" binding:"omitempty,oneof=paid pending failed"`
}

func (f Filter) match(r *domain.Registration) bool {
	if f.Status != "" && effectiveStatus(r) != f.Status {
		return false
	}
	if f.PaymentStatus != "" && r.PaymentStatus != f.PaymentStatus {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}

	fields := []string{r.Phone}
	if m := r.Member; m != nil {
		fields = append(fields, m.Name, m.Phone, m.BusinessName)
	}
	digits := domain.NormalizePhone(q)
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
		if digits != "" && strings.Contains(domain.NormalizePhone(s), digits) {
			return true
		}
	}
	return false
}

// effectiveStatus treats a set attendedAt as attended even if status lags.
func effectiveStatus(r *domain.Registration) domain.RegistrationStatus {
	if r.AttendedAt != nil {
		return domain.RegistrationAttended
	}
	return r.Status
}

func (c *Controller) List(ctx context.Context, eventID int64, f Filter) ([]domain.Registration, error) {
	all, err := c.upstream.EventRegistrations(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return Apply(all, f), nil
}

func Apply(rows []domain.Registration, f Filter) []domain.Registration {
	out := make([]domain.Registration, 0, len(rows))
	for i := range rows {
		if f.match(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}
