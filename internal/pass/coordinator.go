package pass

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/queue/task"
	"github.com/mandapam/portal/pkg/email"
)

var (
	ErrDownloadInProgress = errors.New("pass download already in progress")
	ErrResendUnavailable  = errors.New("pass could not be queued for delivery, please download it manually")
)

type Downloader interface {
	PassPDF(ctx context.Context, eventID, registrationID int64) ([]byte, error)
}

type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, t *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Pass struct {
	Filename string
	Data     []byte
}

// Recipient is who the email fallback is addressed to.
type Recipient struct {
	EventID        int64
	RegistrationID int64
	Email          string
	Name           string
}

type Coordinator struct {
	downloader Downloader
	queue      TaskEnqueuer
	cfg        config.PassDelivery
	log        *zap.Logger

	mu       sync.Mutex
	inflight map[key]struct{}
}

type key struct {
	event, registration int64
}

func NewCoordinator(downloader Downloader, queue TaskEnqueuer, cfg config.PassDelivery, log *zap.Logger) *Coordinator {
	return &Coordinator{
		downloader: downloader,
		queue:      queue,
		cfg:        cfg,
		log:        log,
		inflight:   make(map[key]struct{}),
	}
}

// Download fetches the pass PDF. A second call for the same registration
// while the first is running gets ErrDownloadInProgress.
func (c *Coordinator) Download(ctx context.Context, eventID, registrationID int64) (*Pass, error) {
	k := key{eventID, registrationID}

	c.mu.Lock()
	if _, busy := c.inflight[k]; busy {
		c.mu.Unlock()
		return nil, ErrDownloadInProgress
	}
	c.inflight[k] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, k)
		c.mu.Unlock()
	}()

	data, err := c.downloader.PassPDF(ctx, eventID, registrationID)
	if err != nil {
		return nil, fmt.Errorf("download pass: %w", err)
	}

	return &Pass{
		Filename: fmt.Sprintf("event-pass-%d-%d.pdf", eventID, registrationID),
		Data:     data,
	}, nil
}

// Resend queues WhatsApp re-delivery. Failure is not fatal to the
// registration; callers fall back to manual download.
func (c *Coordinator) Resend(ctx context.Context, eventID, registrationID int64) (DeliveryStatus, error) {
	t, err := task.NewSendPassTask(eventID, registrationID)
	if err != nil {
		return StatusError, err
	}

	if _, err = c.queue.EnqueueContext(ctx, t); err != nil {
		c.log.Warn("enqueue pass resend failed",
			zap.Int64("event_id", eventID),
			zap.Int64("registration_id", registrationID),
			zap.Error(err),
		)
		return StatusError, fmt.Errorf("%w: %w", ErrResendUnavailable, err)
	}

	return StatusPending, nil
}

// Handoff runs once a registration is confirmed. It only acts when the
// backend reported a delivery error and the email fallback is enabled.
func (c *Coordinator) Handoff(ctx context.Context, conf Confirmation, to Recipient) DeliveryStatus {
	status := conf.Status()
	if status != StatusError || !c.cfg.EmailFallback || !email.IsEmailValid(to.Email) {
		return status
	}

	t, err := task.NewEmailPassTask(to.EventID, to.RegistrationID, to.Email, to.Name)
	if err == nil {
		_, err = c.queue.EnqueueContext(ctx, t)
	}
	if err != nil {
		c.log.Warn("enqueue pass email failed",
			zap.Int64("event_id", to.EventID),
			zap.Int64("registration_id", to.RegistrationID),
			zap.Error(err),
		)
		return status
	}

	return StatusPending
}
