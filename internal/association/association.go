package association

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/domain"
)

type State string

const (
	StateNotLoaded State = "not_loaded"
	StateLoading   State = "loading"
	StateLoaded    State = "loaded"
	StateCleared   State = "cleared"
	StateError     State = "error"
)

const (
	PlaceholderEnterCity = "Enter city to load associations"
	PlaceholderLoading   = "Loading associations..."
	PlaceholderNone      = "No associations found for this city"
	PlaceholderSelect    = "Select association (optional)"
	PlaceholderError     = "Could not load associations, selection is optional"

	cacheKeyPrefix = "association:city:"
)

type Fetcher interface {
	Associations(ctx context.Context, city string) ([]domain.Association, error)
}

// View is what the association picker renders.
type View struct {
	State          State                `json:"state"`
	City           string               `json:"city"`
	Candidates     []domain.Association `json:"candidates"`
	Placeholder    string               `json:"placeholder"`
	ResetSelection bool                 `json:"resetSelection"`
}

func NotLoaded() View {
	return View{State: StateNotLoaded, Placeholder: PlaceholderEnterCity, Candidates: []domain.Association{}}
}

func loading(city string) View {
	return View{State: StateLoading, City: city, Placeholder: PlaceholderLoading, Candidates: []domain.Association{}}
}

func cleared(city string) View {
	return View{State: StateCleared, City: city, Placeholder: PlaceholderEnterCity, Candidates: []domain.Association{}, ResetSelection: true}
}

func loaded(city string, candidates []domain.Association) View {
	if candidates == nil {
		candidates = []domain.Association{}
	}
	placeholder := PlaceholderSelect
	if len(candidates) == 0 {
		placeholder = PlaceholderNone
	}
	return View{State: StateLoaded, City: city, Candidates: candidates, Placeholder: placeholder}
}

func failed(city string) View {
	return View{State: StateError, City: city, Placeholder: PlaceholderError, Candidates: []domain.Association{}}
}

// Contains reports whether id is one of the loaded candidates.
func (v View) Contains(id int64) bool {
	for _, a := range v.Candidates {
		if a.ID == id {
			return true
		}
	}
	return false
}

type Client struct {
	fetcher Fetcher
	cache   redis.UniversalClient
	ttl     time.Duration
	minLen  int
	log     *zap.Logger
}

// NewClient builds the lookup client; cache may be nil.
func NewClient(fetcher Fetcher, cache redis.UniversalClient, cfg config.Association, log *zap.Logger) *Client {
	minLen := cfg.MinCityLength
	if minLen < 1 {
		minLen = 2
	}
	return &Client{
		fetcher: fetcher,
		cache:   cache,
		ttl:     cfg.CacheTTL,
		minLen:  minLen,
		log:     log,
	}
}

func (c *Client) IsSearchable(city string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(city)) >= c.minLen
}

func (c *Client) Lookup(ctx context.Context, city string) (View, error) {
	city = strings.TrimSpace(city)
	if !c.IsSearchable(city) {
		return cleared(city), nil
	}

	key := cacheKeyPrefix + strings.ToLower(city)
	if cached, ok := c.fromCache(ctx, key); ok {
		return loaded(city, cached), nil
	}

	candidates, err := c.fetcher.Associations(ctx, city)
	if err != nil {
		return failed(city), fmt.Errorf("fetch associations failed: %w", err)
	}

	c.toCache(ctx, key, candidates)

	return loaded(city, candidates), nil
}

func (c *Client) fromCache(ctx context.Context, key string) ([]domain.Association, bool) {
	if c.cache == nil {
		return nil, false
	}

	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("association cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var candidates []domain.Association
	if err = json.Unmarshal(raw, &candidates); err != nil {
		return nil, false
	}
	return candidates, true
}

func (c *Client) toCache(ctx context.Context, key string, candidates []domain.Association) {
	if c.cache == nil || c.ttl <= 0 {
		return
	}

	raw, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err = c.cache.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("association cache write failed", zap.String("key", key), zap.Error(err))
	}
}
