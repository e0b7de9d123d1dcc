package kiosk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/checkin"
	"github.com/mandapam/portal/internal/upstream"
)

const replayBatch = 50

type CheckInner interface {
	CheckIn(ctx context.Context, token string) (*checkin.Result, error)
}

type Outcome struct {
	ScanID           int64
	AttendedAt       time.Time
	AlreadyCheckedIn bool
	// Queued means the backend was unreachable and the scan will be replayed.
	Queued bool
}

type Kiosk struct {
	checker CheckInner
	journal Journal
	log     *zap.Logger
	now     func() time.Time
}

func New(checker CheckInner, journal Journal, log *zap.Logger) *Kiosk {
	return &Kiosk{
		checker: checker,
		journal: journal,
		log:     log,
		now:     time.Now,
	}
}

// Scan journals the token before calling the backend, so a scan taken
// while offline is never lost.
func (k *Kiosk) Scan(ctx context.Context, token string) (*Outcome, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, checkin.ErrNoQRToken
	}

	id, err := k.journal.Append(ctx, token, k.now())
	if err != nil {
		return nil, err
	}

	out, err := k.send(ctx, id, token)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReplayPending resends journaled scans in order and stops at the first
// network failure. It returns how many scans were settled.
func (k *Kiosk) ReplayPending(ctx context.Context) (int, error) {
	scans, err := k.journal.Pending(ctx, replayBatch)
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, s := range scans {
		out, err := k.send(ctx, s.ID, s.Token)
		if out != nil && out.Queued {
			return settled, nil
		}
		if err != nil {
			k.log.Warn("replayed scan rejected", zap.Int64("scan_id", s.ID), zap.Error(err))
		}
		settled++
	}
	return settled, nil
}

func (k *Kiosk) send(ctx context.Context, id int64, token string) (*Outcome, error) {
	res, err := k.checker.CheckIn(ctx, token)
	switch {
	case err == nil:
		if mErr := k.journal.MarkSent(ctx, id, res.AttendedAt); mErr != nil {
			k.log.Error("journal mark sent failed", zap.Int64("scan_id", id), zap.Error(mErr))
		}
		return &Outcome{ScanID: id, AttendedAt: res.AttendedAt, AlreadyCheckedIn: res.AlreadyCheckedIn}, nil
	case upstream.IsNetwork(err):
		if mErr := k.journal.MarkRetry(ctx, id, err.Error()); mErr != nil {
			k.log.Error("journal mark retry failed", zap.Int64("scan_id", id), zap.Error(mErr))
		}
		return &Outcome{ScanID: id, Queued: true}, nil
	case errors.Is(err, context.Canceled):
		return nil, err
	default:
		reason := upstream.Message(err)
		if reason == "" {
			reason = err.Error()
		}
		if mErr := k.journal.MarkRejected(ctx, id, reason); mErr != nil {
			k.log.Error("journal mark rejected failed", zap.Int64("scan_id", id), zap.Error(mErr))
		}
		return nil, err
	}
}

// Run reads one token per line from in until EOF or ctx is done, replaying
// the journal every period.
func (k *Kiosk) Run(ctx context.Context, in io.Reader, out io.Writer, period time.Duration) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case <-ticker.C:
			if n, err := k.ReplayPending(ctx); err != nil {
				k.log.Warn("journal replay failed", zap.Error(err))
			} else if n > 0 {
				fmt.Fprintf(out, "replayed %d queued scan(s)\n", n)
			}
		case line := <-lines:
			if strings.TrimSpace(line) == "" {
				continue
			}
			fmt.Fprintln(out, k.describe(ctx, line))
		}
	}
}

func (k *Kiosk) describe(ctx context.Context, token string) string {
	o, err := k.Scan(ctx, token)
	switch {
	case err != nil:
		if msg := upstream.Message(err); msg != "" {
			return "REJECTED: " + msg
		}
		return "ERROR: " + err.Error()
	case o.Queued:
		return fmt.Sprintf("QUEUED #%d: backend unreachable, will retry", o.ScanID)
	case o.AlreadyCheckedIn:
		return "ALREADY CHECKED IN at " + o.AttendedAt.Local().Format("15:04:05")
	default:
		return "CHECKED IN at " + o.AttendedAt.Local().Format("15:04:05")
	}
}
