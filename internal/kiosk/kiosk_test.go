package kiosk

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/checkin"
	"github.com/mandapam/portal/internal/upstream"
)

type MockCheckInner struct {
	mock.Mock
}

func (m *MockCheckInner) CheckIn(ctx context.Context, token string) (*checkin.Result, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*checkin.Result)
	return res, args.Error(1)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Append(ctx context.Context, token string, at time.Time) (int64, error) {
	args := m.Called(ctx, token, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournal) MarkSent(ctx context.Context, id int64, attendedAt time.Time) error {
	return m.Called(ctx, id, attendedAt).Error(0)
}

func (m *MockJournal) MarkRejected(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockJournal) MarkRetry(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockJournal) Pending(ctx context.Context, limit int) ([]Scan, error) {
	args := m.Called(ctx, limit)
	scans, _ := args.Get(0).([]Scan)
	return scans, args.Error(1)
}

func (m *MockJournal) Get(ctx context.Context, id int64) (*Scan, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*Scan)
	return s, args.Error(1)
}

var attended = time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)

func netErr() error {
	return &upstream.NetworkError{Op: "check in", Err: errors.New("connection refused")}
}

func TestScan_JournalsThenMarksSent(t *testing.T) {
	j := new(MockJournal)
	j.On("Append", mock.Anything, "tok", mock.Anything).Return(int64(1), nil)
	j.On("MarkSent", mock.Anything, int64(1), attended).Return(nil)
	c := new(MockCheckInner)
	c.On("CheckIn", mock.Anything, "tok").Return(&checkin.Result{AttendedAt: attended}, nil)

	out, err := New(c, j, zap.NewNop()).Scan(context.Background(), " tok ")
	require.NoError(t, err)
	assert.False(t, out.Queued)
	assert.Equal(t, attended, out.AttendedAt)
	j.AssertExpectations(t)
}

func TestScan_NetworkErrorQueues(t *testing.T) {
	j := new(MockJournal)
	j.On("Append", mock.Anything, "tok", mock.Anything).Return(int64(2), nil)
	j.On("MarkRetry", mock.Anything, int64(2), mock.Anything).Return(nil)
	c := new(MockCheckInner)
	c.On("CheckIn", mock.Anything, "tok").Return(nil, netErr())

	out, err := New(c, j, zap.NewNop()).Scan(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, out.Queued)
	j.AssertNotCalled(t, "MarkRejected", mock.Anything, mock.Anything, mock.Anything)
}

func TestScan_RejectionIsFinal(t *testing.T) {
	j := new(MockJournal)
	j.On("Append", mock.Anything, "bad", mock.Anything).Return(int64(3), nil)
	j.On("MarkRejected", mock.Anything, int64(3), "Invalid QR code").Return(nil)
	c := new(MockCheckInner)
	c.On("CheckIn", mock.Anything, "bad").Return(nil, &upstream.APIError{Status: http.StatusNotFound, Message: "Invalid QR code"})

	_, err := New(c, j, zap.NewNop()).Scan(context.Background(), "bad")
	assert.Error(t, err)
	j.AssertExpectations(t)
}

func TestScan_EmptyToken(t *testing.T) {
	j := new(MockJournal)
	_, err := New(new(MockCheckInner), j, zap.NewNop()).Scan(context.Background(), "")
	assert.ErrorIs(t, err, checkin.ErrNoQRToken)
	j.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplayPending_StopsAtFirstNetworkError(t *testing.T) {
	j := new(MockJournal)
	j.On("Pending", mock.Anything, replayBatch).Return([]Scan{{ID: 1, Token: "a"}, {ID: 2, Token: "b"}, {ID: 3, Token: "c"}}, nil)
	j.On("MarkSent", mock.Anything, int64(1), attended).Return(nil)
	j.On("MarkRetry", mock.Anything, int64(2), mock.Anything).Return(nil)
	c := new(MockCheckInner)
	c.On("CheckIn", mock.Anything, "a").Return(&checkin.Result{AttendedAt: attended}, nil)
	c.On("CheckIn", mock.Anything, "b").Return(nil, netErr())

	n, err := New(c, j, zap.NewNop()).ReplayPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	c.AssertNotCalled(t, "CheckIn", mock.Anything, "c")
}

func TestRun_PrintsOutcomes(t *testing.T) {
	j := new(MockJournal)
	j.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	j.On("MarkSent", mock.Anything, int64(1), attended).Return(nil)
	c := new(MockCheckInner)
	c.On("CheckIn", mock.Anything, "tok").Return(&checkin.Result{AttendedAt: attended, AlreadyCheckedIn: true}, nil)

	var out bytes.Buffer
	err := New(c, j, zap.NewNop()).Run(context.Background(), strings.NewReader("tok\n\n"), &out, time.Hour)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "ALREADY CHECKED IN")
}

func TestSQLiteJournal(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "checkin.db"))
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()

	a, err := j.Append(ctx, "a", attended)
	require.NoError(t, err)
	b, err := j.Append(ctx, "b", attended)
	require.NoError(t, err)
	cID, err := j.Append(ctx, "c", attended)
	require.NoError(t, err)

	require.NoError(t, j.MarkSent(ctx, a, attended))
	require.NoError(t, j.MarkRetry(ctx, b, "timeout"))
	require.NoError(t, j.MarkRejected(ctx, cID, "Invalid QR code"))

	pending, err := j.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].Token)
	assert.Equal(t, 1, pending[0].Tries)

	s, err := j.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, ScanSent, s.State)
	require.NotNil(t, s.AttendedAt)
	assert.True(t, s.AttendedAt.Equal(attended))
}
