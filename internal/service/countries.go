package service

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/logging"
)

// CountryCache holds the country list used to validate registrations. The
// list is refetched when it is older than ttl.
type CountryCache struct {
	url        string
	ttl        time.Duration
	exclude    []string
	httpClient *http.Client
	now        func() time.Time

	mu        sync.Mutex
	value     []string
	fetchedAt time.Time
}

func NewCountryCache(url string, ttl time.Duration, exclude []string) *CountryCache {
	return &CountryCache{
		url:        url,
		ttl:        ttl,
		exclude:    exclude,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// List returns the sorted country names, fetching them when the cache is
// empty or stale. Concurrent callers share one fetch.
func (c *CountryCache) List(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.value) > 0 && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	list, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.value = list
	c.fetchedAt = c.now()
	logging.Ctx(ctx).Debug().Int("count", len(list)).Msg("refreshed country list")
	return list, nil
}

// Contains reports whether name is a valid country.
func (c *CountryCache) Contains(ctx context.Context, name string) (bool, error) {
	list, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	_, found := slices.BinarySearch(list, name)
	return found, nil
}

func (c *CountryCache) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Upstream("Country list is unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Upstream("Country list is unavailable",
			fmt.Errorf("countries API returned status %d", resp.StatusCode))
	}

	var payload []struct {
		Name struct {
			Common string `json:"common"`
		} `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperror.Upstream("Country list is unavailable", err)
	}

	list := make([]string, 0, len(payload))
	for _, p := range payload {
		if p.Name.Common == "" || slices.Contains(c.exclude, p.Name.Common) {
			continue
		}
		list = append(list, p.Name.Common)
	}
	sort.Strings(list)
	return list, nil
}
