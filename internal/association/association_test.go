package association

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/domain"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Associations(ctx context.Context, city string) ([]domain.Association, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Association), args.Error(1)
}

func newClient(f Fetcher) *Client {
	return NewClient(f, nil, config.Association{MinCityLength: 2}, zap.NewNop())
}

func TestClient_Lookup_ShortCityClears(t *testing.T) {
	fetcher := new(MockFetcher)
	c := newClient(fetcher)

	for _, city := range []string{"", " ", "P", " P "} {
		view, err := c.Lookup(context.Background(), city)
		require.NoError(t, err)
		assert.Equal(t, StateCleared, view.State)
		assert.True(t, view.ResetSelection)
		assert.Empty(t, view.Candidates)
	}
	fetcher.AssertNotCalled(t, "Associations", mock.Anything, mock.Anything)
}

func TestClient_Lookup_DistinguishesEmptyFromNotLoaded(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Associations", mock.Anything, "Pune").Return([]domain.Association{}, nil)
	fetcher.On("Associations", mock.Anything, "Mumbai").Return([]domain.Association{{ID: 1, Name: "Mumbai Mandap Assoc"}}, nil)
	c := newClient(fetcher)

	empty, err := c.Lookup(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, empty.State)
	assert.Equal(t, PlaceholderNone, empty.Placeholder)

	some, err := c.Lookup(context.Background(), " Mumbai ")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderSelect, some.Placeholder)
	assert.True(t, some.Contains(1))

	assert.NotEqual(t, NotLoaded().Placeholder, empty.Placeholder)
}

func TestClient_Lookup_Error(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Associations", mock.Anything, "Pune").Return(nil, errors.New("down"))
	c := newClient(fetcher)

	view, err := c.Lookup(context.Background(), "Pune")
	require.Error(t, err)
	assert.Equal(t, StateError, view.State)
}

func TestDebouncer_CityChanged(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Associations", mock.Anything, "Nashik").Return([]domain.Association{{ID: 7}}, nil).Once()
	d := NewDebouncer(context.Background(), newClient(fetcher), 10*time.Millisecond)
	defer d.Stop()

	assert.Equal(t, StateNotLoaded, d.View().State)

	assert.Equal(t, StateLoading, d.CityChanged("Na").State)
	assert.Equal(t, StateLoading, d.CityChanged("Nashik").State)

	require.Eventually(t, func() bool { return d.View().State == StateLoaded }, time.Second, 5*time.Millisecond)
	assert.True(t, d.View().Contains(7))

	view := d.CityChanged("N")
	assert.Equal(t, StateCleared, view.State)
	assert.True(t, view.ResetSelection)
	fetcher.AssertExpectations(t)
}
