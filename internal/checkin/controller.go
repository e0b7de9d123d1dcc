package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/upstream"
)

var (
	ErrNoQRToken = errors.New("registration has no QR token and cannot be checked in")
	// ErrUnmarkUnsupported is returned for any attempt to reverse attendance.
	ErrUnmarkUnsupported = errors.New("attendance cannot be unmarked once recorded")
)

type Upstream interface {
	CheckIn(ctx context.Context, qrToken string) (*upstream.CheckInResponse, error)
	EventRegistrations(ctx context.Context, eventID int64) ([]domain.Registration, error)
	Member(ctx context.Context, memberID int64) (*domain.Member, error)
}

type StatusProbe interface {
	Verify(ctx context.Context, eventID int64, phone string) (probe.Status, error)
}

// Result of a check-in. AttendedAt stays zero only when the backend rejects a
// repeat scan without a timestamp and the scan's event is unknown.
type Result struct {
	AttendedAt       time.Time            `json:"attendedAt"`
	AlreadyCheckedIn bool                 `json:"alreadyCheckedIn"`
	Registration     *domain.Registration `json:"registration,omitempty"`
}

type Controller struct {
	upstream Upstream
	probe    StatusProbe
	exporter *Exporter
	log      *zap.Logger
}

func NewController(up Upstream, probe StatusProbe, exporter *Exporter, log *zap.Logger) *Controller {
	return &Controller{
		upstream: up,
		probe:    probe,
		exporter: exporter,
		log:      log,
	}
}

// CheckIn marks attendance for token. Repeating a token is a success that
// carries the original attendedAt.
func (c *Controller) CheckIn(ctx context.Context, token string) (*Result, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoQRToken
	}

	resp, err := c.upstream.CheckIn(ctx, token)
	if err != nil {
		if prior, ok := alreadyCheckedIn(err); ok {
			c.log.Debug("qr token already checked in", zap.Time("attended_at", prior.AttendedAt))
			return prior, nil
		}
		return nil, fmt.Errorf("check in: %w", err)
	}

	res := &Result{
		AttendedAt:       resp.AttendedAt,
		AlreadyCheckedIn: resp.AlreadyCheckedIn,
		Registration:     resp.Registration,
	}
	if res.AttendedAt.IsZero() && resp.Registration != nil && resp.Registration.AttendedAt != nil {
		res.AttendedAt = *resp.Registration.AttendedAt
	}
	return res, nil
}

// CheckInAt is CheckIn for a scan known to belong to eventID. A repeat scan
// reported without a timestamp takes attendedAt from the event's registrations.
func (c *Controller) CheckInAt(ctx context.Context, eventID int64, token string) (*Result, error) {
	res, err := c.CheckIn(ctx, token)
	if err != nil || !res.AttendedAt.IsZero() || eventID <= 0 {
		return res, err
	}

	c.resolveAttendedAt(ctx, eventID, strings.TrimSpace(token), res)
	return res, nil
}

func (c *Controller) resolveAttendedAt(ctx context.Context, eventID int64, token string, res *Result) {
	rows, err := c.upstream.EventRegistrations(ctx, eventID)
	if err != nil {
		c.log.Warn("attendance time lookup failed",
			zap.Int64("event_id", eventID),
			zap.Error(err),
		)
		return
	}

	for i := range rows {
		r := &rows[i]
		if r.QRToken != token || r.AttendedAt == nil {
			continue
		}
		res.AttendedAt = *r.AttendedAt
		if res.Registration == nil {
			res.Registration = r
		}
		return
	}
}

// SetAttendance only supports the attended=true direction.
func (c *Controller) SetAttendance(ctx context.Context, reg domain.Registration, attended bool) (*Result, error) {
	if !attended {
		return nil, ErrUnmarkUnsupported
	}
	if reg.QRToken == "" {
		return nil, ErrNoQRToken
	}
	if reg.Attended() && reg.AttendedAt != nil {
		return &Result{AttendedAt: *reg.AttendedAt, AlreadyCheckedIn: true, Registration: &reg}, nil
	}
	return c.CheckInAt(ctx, reg.EventID, reg.QRToken)
}

func alreadyCheckedIn(err error) (*Result, bool) {
	var apiErr *upstream.APIError
	if !errors.As(err, &apiErr) {
		return nil, false
	}

	msg := strings.ToLower(apiErr.Message)
	if !apiErr.IsConflict() && !strings.Contains(msg, "already checked in") && !strings.Contains(msg, "already attended") {
		return nil, false
	}

	res := &Result{AlreadyCheckedIn: true}
	var body upstream.CheckInResponse
	if json.Unmarshal(apiErr.Body, &body) == nil {
		res.AttendedAt = body.AttendedAt
		res.Registration = body.Registration
		if res.AttendedAt.IsZero() && body.Registration != nil && body.Registration.AttendedAt != nil {
			res.AttendedAt = *body.Registration.AttendedAt
		}
	}
	return res, true
}
