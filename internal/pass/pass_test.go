package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/queue/task"
)

func ptr(b bool) *bool { return &b }

func TestConfirmation_Status(t *testing.T) {
	tests := []struct {
		name string
		conf Confirmation
		want DeliveryStatus
	}{
		{"new and sent", Confirmation{IsNewRegistration: ptr(true), ShouldSendWhatsApp: ptr(true)}, StatusSent},
		{"no flags", Confirmation{}, StatusPending},
		{"delivery error", Confirmation{IsNewRegistration: ptr(true), DeliveryError: "blocked"}, StatusError},
		{"existing lookup", Confirmation{Existing: true, ShouldSendWhatsApp: ptr(true)}, StatusNotAttempted},
		{"recovered by poll", Confirmation{Recovered: true}, StatusNotAttempted},
		{"not new", Confirmation{IsNewRegistration: ptr(false), ShouldSendWhatsApp: ptr(true)}, StatusNotAttempted},
		{"send disabled", Confirmation{IsNewRegistration: ptr(true), ShouldSendWhatsApp: ptr(false)}, StatusNotAttempted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.conf.Status())
		})
	}
}

func TestNotAttemptedNeverPromisesDelivery(t *testing.T) {
	assert.NotContains(t, StatusNotAttempted.Message(), "will be sent")
	assert.NotContains(t, StatusNotAttempted.Message(), "being sent")
}

type MockDownloader struct {
	mock.Mock
}

func (m *MockDownloader) PassPDF(ctx context.Context, eventID, registrationID int64) ([]byte, error) {
	args := m.Called(ctx, eventID, registrationID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) EnqueueContext(ctx context.Context, t *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, t.Type())
	return &asynq.TaskInfo{}, args.Error(0)
}

func TestCoordinator_Download_SingleInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	dl := new(MockDownloader)
	dl.On("PassPDF", mock.Anything, int64(1), int64(2)).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]byte("%PDF"), nil).Once()

	c := NewCoordinator(dl, new(MockQueue), config.PassDelivery{}, zap.NewNop())

	done := make(chan *Pass)
	go func() {
		p, err := c.Download(context.Background(), 1, 2)
		assert.NoError(t, err)
		done <- p
	}()

	<-started
	_, err := c.Download(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrDownloadInProgress)

	close(release)
	p := <-done
	assert.Equal(t, "event-pass-1-2.pdf", p.Filename)

	// the guard is released afterwards
	dl.On("PassPDF", mock.Anything, int64(1), int64(2)).Return([]byte("%PDF"), nil).Once()
	_, err = c.Download(context.Background(), 1, 2)
	assert.NoError(t, err)
}

func TestCoordinator_Resend(t *testing.T) {
	q := new(MockQueue)
	q.On("EnqueueContext", mock.Anything, task.SendPassTaskName).Return(nil).Once()
	c := NewCoordinator(new(MockDownloader), q, config.PassDelivery{}, zap.NewNop())

	status, err := c.Resend(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)

	q.On("EnqueueContext", mock.Anything, task.SendPassTaskName).Return(errors.New("redis down")).Once()
	status, err = c.Resend(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrResendUnavailable)
	assert.Equal(t, StatusError, status)
}

func TestCoordinator_Handoff_EmailFallback(t *testing.T) {
	q := new(MockQueue)
	q.On("EnqueueContext", mock.Anything, task.EmailPassTaskName).Return(nil).Once()
	c := NewCoordinator(new(MockDownloader), q, config.PassDelivery{EmailFallback: true}, zap.NewNop())

	to := Recipient{EventID: 1, RegistrationID: 2, Email: "ravi@example.com", Name: "Ravi"}
	got := c.Handoff(context.Background(), Confirmation{DeliveryError: "whatsapp failed"}, to)
	assert.Equal(t, StatusPending, got)

	got = c.Handoff(context.Background(), Confirmation{IsNewRegistration: ptr(true), ShouldSendWhatsApp: ptr(true)}, to)
	assert.Equal(t, StatusSent, got)
	q.AssertNumberOfCalls(t, "EnqueueContext", 1)
}

func TestCoordinator_Handoff_NoEmail(t *testing.T) {
	q := new(MockQueue)
	c := NewCoordinator(new(MockDownloader), q, config.PassDelivery{EmailFallback: true}, zap.NewNop())

	got := c.Handoff(context.Background(), Confirmation{DeliveryError: "x"}, Recipient{EventID: 1, RegistrationID: 2})
	assert.Equal(t, StatusError, got)
	q.AssertNotCalled(t, "EnqueueContext", mock.Anything, mock.Anything)
}
