package probe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/upstream"
)

type MockStatusFetcher struct {
	mock.Mock
}

func (m *MockStatusFetcher) RegistrationStatus(ctx context.Context, eventID int64, phone string) (*upstream.StatusResponse, error) {
	args := m.Called(ctx, eventID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.StatusResponse), args.Error(1)
}

func TestCheck_SilentOnError(t *testing.T) {
	fetcher := new(MockStatusFetcher)
	fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").
		Return(nil, &upstream.NetworkError{Op: "status", Err: errors.New("timeout")})

	p := New(fetcher, zap.NewNop())

	status := p.Check(context.Background(), 1, "98765-43210")
	assert.False(t, status.IsRegistered)
	assert.Equal(t, "9876543210", status.Phone)
	fetcher.AssertExpectations(t)
}

func TestVerify_SurfacesCouldNotVerify(t *testing.T) {
	fetcher := new(MockStatusFetcher)
	fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").
		Return(nil, &upstream.APIError{Status: 500, Message: "boom"})

	p := New(fetcher, zap.NewNop())

	_, err := p.Verify(context.Background(), 1, "9876543210")
	require.ErrorIs(t, err, ErrCouldNotVerify)
}

func TestVerify_InvalidPhoneMakesNoCall(t *testing.T) {
	fetcher := new(MockStatusFetcher)
	p := New(fetcher, zap.NewNop())

	_, err := p.Verify(context.Background(), 1, "12345")
	require.ErrorIs(t, err, domain.ErrInvalidPhone)
	fetcher.AssertNotCalled(t, "RegistrationStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_MergesQR(t *testing.T) {
	fetcher := new(MockStatusFetcher)
	fetcher.On("RegistrationStatus", mock.Anything, int64(4), "9876543210").Return(&upstream.StatusResponse{
		IsRegistered: true,
		Registration: &domain.Registration{ID: 8, PaymentStatus: domain.PaymentPaid, QRToken: "tok"},
		Member:       &domain.Member{ID: 3, Name: "Asha"},
		QRDataURL:    "data:image/png;base64,QR",
	}, nil)

	p := New(fetcher, zap.NewNop())

	status, err := p.Verify(context.Background(), 4, "9876543210")
	require.NoError(t, err)
	assert.True(t, status.Paid())
	assert.Equal(t, "data:image/png;base64,QR", status.Registration.QRDataURL)
	assert.Equal(t, "9876543210", status.Registration.Phone)
	assert.Equal(t, "Asha", status.Registration.Member.Name)
}

func TestWatcher_TriggersOnlyAtTenDigits(t *testing.T) {
	fetcher := new(MockStatusFetcher)
	fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").
		Return(&upstream.StatusResponse{IsRegistered: true, Registration: &domain.Registration{ID: 1}}, nil).Once()

	w := NewWatcher(context.Background(), New(fetcher, zap.NewNop()), 1, 10*time.Millisecond)
	defer w.Stop()

	w.PhoneChanged("98765")
	assert.False(t, w.InFlight())

	assert.Equal(t, "9876543210", w.PhoneChanged("98765-43210"))
	assert.True(t, w.InFlight())

	require.Eventually(t, func() bool {
		_, ok := w.Latest()
		return ok
	}, time.Second, 5*time.Millisecond)

	status, _ := w.Latest()
	assert.True(t, status.IsRegistered)
	assert.False(t, w.InFlight())
	fetcher.AssertExpectations(t)
}

type slowFetcher struct {
	mu      sync.Mutex
	release map[string]chan struct{}
}

func (f *slowFetcher) RegistrationStatus(ctx context.Context, eventID int64, phone string) (*upstream.StatusResponse, error) {
	f.mu.Lock()
	ch := f.release[phone]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
	return &upstream.StatusResponse{IsRegistered: phone == "1111111111"}, nil
}

func TestWatcher_DiscardsStalePhone(t *testing.T) {
	block := make(chan struct{})
	fetcher := &slowFetcher{release: map[string]chan struct{}{"1111111111": block}}

	w := NewWatcher(context.Background(), New(fetcher, zap.NewNop()), 1, time.Millisecond)
	defer w.Stop()

	w.PhoneChanged("1111111111")
	time.Sleep(10 * time.Millisecond)
	w.PhoneChanged("2222222222")

	require.Eventually(t, func() bool {
		_, ok := w.Latest()
		return ok
	}, time.Second, 5*time.Millisecond)

	close(block)
	time.Sleep(20 * time.Millisecond)

	status, ok := w.Latest()
	require.True(t, ok)
	assert.Equal(t, "2222222222", status.Phone)
	assert.False(t, status.IsRegistered)
}
