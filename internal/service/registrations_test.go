package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/association"
	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/pass"
	"github.com/mandapam/portal/internal/payment"
	"github.com/mandapam/portal/internal/photo"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/upstream"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) InitiateRegistration(ctx context.Context, eventID int64, req upstream.InitiateRequest) (*upstream.InitiateResponse, error) {
	args := m.Called(ctx, eventID, req)
	resp, _ := args.Get(0).(*upstream.InitiateResponse)
	return resp, args.Error(1)
}

func (m *MockBackend) ConfirmPayment(ctx context.Context, eventID int64, req upstream.ConfirmRequest) (*upstream.ConfirmResponse, error) {
	args := m.Called(ctx, eventID, req)
	resp, _ := args.Get(0).(*upstream.ConfirmResponse)
	return resp, args.Error(1)
}

func (m *MockBackend) GetEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	ev, _ := args.Get(0).(*domain.Event)
	return ev, args.Error(1)
}

func (m *MockBackend) Exhibitors(ctx context.Context, eventID int64) ([]domain.Exhibitor, error) {
	args := m.Called(ctx, eventID)
	ex, _ := args.Get(0).([]domain.Exhibitor)
	return ex, args.Error(1)
}

func (m *MockBackend) UploadProfileImage(ctx context.Context, filename string, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, filename, contentType, data)
	return args.String(0), args.Error(1)
}

type MockStatusFetcher struct {
	mock.Mock
}

func (m *MockStatusFetcher) RegistrationStatus(ctx context.Context, eventID int64, phone string) (*upstream.StatusResponse, error) {
	args := m.Called(ctx, eventID, phone)
	resp, _ := args.Get(0).(*upstream.StatusResponse)
	return resp, args.Error(1)
}

type MockAssociations struct {
	mock.Mock
}

func (m *MockAssociations) Associations(ctx context.Context, city string) ([]domain.Association, error) {
	args := m.Called(ctx, city)
	a, _ := args.Get(0).([]domain.Association)
	return a, args.Error(1)
}

type fixture struct {
	regs    *Registrations
	backend *MockBackend
	fetcher *MockStatusFetcher
}

func newFixture(t *testing.T, fee float64) *fixture {
	t.Helper()

	cfg := &config.Config{
		Upstream:    config.Upstream{ConfirmBackoff: time.Millisecond, PollAttempts: 1, PollInterval: time.Millisecond},
		Photo:       config.Photo{MaxInputBytes: 1 << 20, MaxDimension: 800, MaxOutputBytes: 1 << 20, Quality: 85},
		Probe:       config.Probe{Debounce: time.Millisecond},
		Association: config.Association{Debounce: time.Millisecond, MinCityLength: 2, CacheTTL: time.Minute},
		Session:     config.Session{TTL: time.Minute},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	backend := new(MockBackend)
	backend.On("GetEvent", mock.Anything, int64(1)).Return(&domain.Event{ID: 1, Title: "Expo", RegistrationFee: fee}, nil)
	fetcher := new(MockStatusFetcher)
	log := zap.NewNop()

	services := NewServices(Deps{
		Ctx:          ctx,
		Logger:       log,
		Config:       cfg,
		Backend:      backend,
		Probe:        probe.New(fetcher, log),
		Associations: association.NewClient(new(MockAssociations), nil, cfg.Association, log),
		Optimizer:    photo.NewOptimizer(cfg.Photo),
	})

	return &fixture{regs: services.Registrations, backend: backend, fetcher: fetcher}
}

func validForm() Form {
	return Form{
		Name:         "Ravi Kumar",
		Phone:        "9876543210",
		Email:        "ravi@example.com",
		BusinessName: "Ravi Tents",
		BusinessType: "tent",
		City:         "Chennai",
	}
}

func pngUpload(t *testing.T) *photo.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for x := 0; x < 20; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &photo.Upload{Filename: "me.png", ContentType: "image/png", Data: buf.Bytes()}
}

func notRegistered() *upstream.StatusResponse {
	return &upstream.StatusResponse{IsRegistered: false}
}

func TestSubmit_PhotoIsMandatory(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)

	v, err := f.regs.Submit(ctx, s.ID.String(), validForm(), nil)
	require.NoError(t, err)
	require.NotNil(t, v.Payment)
	assert.Equal(t, payment.Failed, v.Payment.Phase)
	require.NotNil(t, v.Payment.Failure)
	assert.Equal(t, payment.FailureValidation, v.Payment.Failure.Kind)
	assert.Equal(t, "Profile photo is required", v.Payment.Failure.Fields["photo"])

	f.backend.AssertNotCalled(t, "InitiateRegistration", mock.Anything, mock.Anything, mock.Anything)
	f.backend.AssertNotCalled(t, "UploadProfileImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.fetcher.AssertNotCalled(t, "RegistrationStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_FieldErrors(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)

	form := validForm()
	form.Name = "R"
	form.Phone = "12345"
	form.BusinessType = "plumbing"
	form.AssociationID = "x1"

	v, err := f.regs.Submit(ctx, s.ID.String(), form, pngUpload(t))
	require.NoError(t, err)
	fields := v.Payment.Failure.Fields
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "businessType")
	assert.Contains(t, fields, "associationId")
	assert.NotContains(t, fields, "photo")
	f.backend.AssertNotCalled(t, "InitiateRegistration", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_NormalizesPhoneBeforeAnyCall(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	f.fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").Return(notRegistered(), nil)
	f.backend.On("UploadProfileImage", mock.Anything, "me.jpg", "image/jpeg", mock.Anything).Return("https://cdn/me.jpg", nil)
	f.backend.On("InitiateRegistration", mock.Anything, int64(1), mock.MatchedBy(func(req upstream.InitiateRequest) bool {
		return req.Phone == "9876543210" && req.Photo == "https://cdn/me.jpg"
	})).Return(&upstream.InitiateResponse{
		IsFree:       true,
		Registration: &domain.Registration{ID: 5, EventID: 1, QRToken: "tok", QRDataURL: "data:image/png;base64,QR"},
	}, nil).Once()

	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)

	form := validForm()
	form.Phone = "98765-43210"
	v, err := f.regs.Submit(ctx, s.ID.String(), form, pngUpload(t))
	require.NoError(t, err)

	require.Equal(t, payment.Confirmed, v.Payment.Phase)
	assert.Equal(t, "9876543210", v.Payment.Outcome.Registration.Phone)
	assert.Equal(t, pass.StatusPending, v.Delivery)
	f.backend.AssertNumberOfCalls(t, "InitiateRegistration", 1)
}

func TestPassTarget(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	f.fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").Return(notRegistered(), nil)
	f.backend.On("UploadProfileImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/me.jpg", nil)
	f.backend.On("InitiateRegistration", mock.Anything, int64(1), mock.Anything).Return(&upstream.InitiateResponse{
		IsFree:       true,
		Registration: &domain.Registration{ID: 5, EventID: 1, QRToken: "tok"},
	}, nil).Once()

	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)
	id := s.ID.String()

	_, _, err = f.regs.PassTarget(ctx, id)
	assert.ErrorIs(t, err, ErrNotConfirmed)

	v, err := f.regs.Submit(ctx, id, validForm(), pngUpload(t))
	require.NoError(t, err)
	require.Equal(t, payment.Confirmed, v.Payment.Phase)

	eventID, regID, err := f.regs.PassTarget(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), eventID)
	assert.Equal(t, int64(5), regID)

	_, _, err = f.regs.PassTarget(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmit_KnownRegisteredPhoneIsBlocked(t *testing.T) {
	f := newFixture(t, 500)
	ctx := context.Background()

	f.fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").Return(&upstream.StatusResponse{
		IsRegistered: true,
		Registration: &domain.Registration{ID: 9, PaymentStatus: domain.PaymentPaid, QRToken: "tok"},
		QRDataURL:    "data:image/png;base64,QR",
	}, nil).Once()

	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)
	id := s.ID.String()

	_, err = f.regs.PhoneChanged(ctx, id, "98765 43210")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		v, err := f.regs.Session(ctx, id)
		return err == nil && v.Existing != nil
	}, time.Second, 5*time.Millisecond)

	v, err := f.regs.Session(ctx, id)
	require.NoError(t, err)
	assert.False(t, v.CanSubmit)

	v, err = f.regs.Submit(ctx, id, validForm(), pngUpload(t))
	require.NoError(t, err)
	require.Equal(t, payment.Confirmed, v.Payment.Phase)
	assert.True(t, v.Payment.Outcome.Existing)
	assert.Equal(t, pass.StatusNotAttempted, v.Delivery)

	f.backend.AssertNotCalled(t, "InitiateRegistration", mock.Anything, mock.Anything, mock.Anything)
	f.backend.AssertNotCalled(t, "UploadProfileImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.fetcher.AssertNumberOfCalls(t, "RegistrationStatus", 1)
}

func TestSubmit_BlockedWhilePhoneCheckRuns(t *testing.T) {
	f := newFixture(t, 500)
	ctx := context.Background()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	f.fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").
		Run(func(mock.Arguments) { <-release }).
		Return(notRegistered(), nil)

	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)
	id := s.ID.String()

	v, err := f.regs.PhoneChanged(ctx, id, "9876543210")
	require.NoError(t, err)
	assert.True(t, v.PhoneLocked)
	assert.False(t, v.CanSubmit)

	_, err = f.regs.Submit(ctx, id, validForm(), pngUpload(t))
	assert.ErrorIs(t, err, ErrPhoneCheckPending)

	f.backend.AssertNotCalled(t, "InitiateRegistration", mock.Anything, mock.Anything, mock.Anything)
	f.backend.AssertNotCalled(t, "UploadProfileImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateway_PaidFlowConfirmsOnce(t *testing.T) {
	f := newFixture(t, 500)
	ctx := context.Background()

	yes := true
	f.fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").Return(notRegistered(), nil)
	f.backend.On("UploadProfileImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/me.jpg", nil)
	f.backend.On("InitiateRegistration", mock.Anything, int64(1), mock.Anything).Return(&upstream.InitiateResponse{
		Member:         &domain.Member{ID: 77},
		PaymentOptions: &upstream.PaymentOptions{OrderID: "order_1", Amount: 50000, Currency: "INR"},
	}, nil)
	f.backend.On("ConfirmPayment", mock.Anything, int64(1), upstream.ConfirmRequest{
		MemberID:       77,
		GatewayPayment: upstream.GatewayPayment{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
	}).Return(&upstream.ConfirmResponse{
		Registration:       &domain.Registration{ID: 5, PaymentStatus: domain.PaymentPaid, QRToken: "tok"},
		QRDataURL:          "data:image/png;base64,QR",
		IsNewRegistration:  &yes,
		ShouldSendWhatsApp: &yes,
	}, nil).Once()

	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)
	id := s.ID.String()

	v, err := f.regs.Submit(ctx, id, validForm(), pngUpload(t))
	require.NoError(t, err)
	require.Equal(t, payment.AwaitingGateway, v.Payment.Phase)
	assert.Equal(t, "order_1", v.Payment.Order.OrderID)

	success := payment.GatewayEvent{
		Kind:    payment.GatewaySuccess,
		Payment: upstream.GatewayPayment{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
	}
	v, err = f.regs.Gateway(ctx, id, success)
	require.NoError(t, err)
	require.Equal(t, payment.Confirmed, v.Payment.Phase)
	assert.Equal(t, "data:image/png;base64,QR", v.Payment.Outcome.Registration.QRImage())
	assert.Equal(t, pass.StatusSent, v.Delivery)

	v, err = f.regs.Gateway(ctx, id, success)
	require.NoError(t, err)
	assert.Equal(t, payment.Confirmed, v.Payment.Phase)
	f.backend.AssertNumberOfCalls(t, "ConfirmPayment", 1)
}

func TestGateway_AnswersBeforeSlowConfirmation(t *testing.T) {
	f := newFixture(t, 500)
	f.regs.cfg.Session.GatewayWait = 20 * time.Millisecond
	ctx := context.Background()

	release := make(chan struct{})
	t.Cleanup(func() {
		select {
		case <-release:
		default:
			close(release)
		}
	})

	f.fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").Return(notRegistered(), nil)
	f.backend.On("UploadProfileImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/me.jpg", nil)
	f.backend.On("InitiateRegistration", mock.Anything, int64(1), mock.Anything).Return(&upstream.InitiateResponse{
		Member:         &domain.Member{ID: 77},
		PaymentOptions: &upstream.PaymentOptions{OrderID: "order_1"},
	}, nil)
	f.backend.On("ConfirmPayment", mock.Anything, int64(1), mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(&upstream.ConfirmResponse{
			Registration: &domain.Registration{ID: 5, PaymentStatus: domain.PaymentPaid, QRToken: "tok"},
		}, nil).Once()

	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)
	id := s.ID.String()

	_, err = f.regs.Submit(ctx, id, validForm(), pngUpload(t))
	require.NoError(t, err)

	started := time.Now()
	v, err := f.regs.Gateway(ctx, id, payment.GatewayEvent{
		Kind:    payment.GatewaySuccess,
		Payment: upstream.GatewayPayment{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"},
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(started), time.Second)
	assert.Equal(t, payment.Confirming, v.Payment.Phase)
	assert.False(t, v.CanSubmit)

	close(release)
	require.Eventually(t, func() bool {
		v, err := f.regs.Session(ctx, id)
		return err == nil && v.Payment.Phase == payment.Confirmed
	}, time.Second, 5*time.Millisecond)
	f.backend.AssertNumberOfCalls(t, "ConfirmPayment", 1)
}

func TestGateway_DismissAllowsResubmit(t *testing.T) {
	f := newFixture(t, 500)
	ctx := context.Background()

	f.fetcher.On("RegistrationStatus", mock.Anything, int64(1), "9876543210").Return(notRegistered(), nil)
	f.backend.On("UploadProfileImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/me.jpg", nil)
	f.backend.On("InitiateRegistration", mock.Anything, int64(1), mock.Anything).Return(&upstream.InitiateResponse{
		Member:         &domain.Member{ID: 77},
		PaymentOptions: &upstream.PaymentOptions{OrderID: "order_1"},
	}, nil)

	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)
	id := s.ID.String()

	_, err = f.regs.Submit(ctx, id, validForm(), pngUpload(t))
	require.NoError(t, err)

	v, err := f.regs.Gateway(ctx, id, payment.GatewayEvent{Kind: payment.GatewayDismissal})
	require.NoError(t, err)
	assert.Equal(t, payment.Cancelled, v.Payment.Phase)
	assert.True(t, v.CanSubmit)

	v, err = f.regs.Submit(ctx, id, validForm(), pngUpload(t))
	require.NoError(t, err)
	assert.Equal(t, payment.AwaitingGateway, v.Payment.Phase)
	f.backend.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewSession_ManualRequiresStaff(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.regs.NewSession(context.Background(), FlowManual, 1, "")
	assert.ErrorIs(t, err, ErrStaffOnly)

	v, err := f.regs.NewSession(context.Background(), FlowManual, 1, "42")
	require.NoError(t, err)
	assert.Equal(t, FlowManual, v.Flow)
}

func TestRegistry_Expiry(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	s, err := f.regs.NewSession(ctx, FlowPublic, 1, "")
	require.NoError(t, err)

	_, err = f.regs.Session(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	f.regs.sessions.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Equal(t, 1, f.regs.sessions.sweep())

	_, err = f.regs.Session(ctx, s.ID.String())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
