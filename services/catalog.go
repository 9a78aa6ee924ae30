package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// CatalogItem is one SKU entry from the published product catalog.
type CatalogItem struct {
	SKU         string `json:"sku"`
	Description string `json:"desc"`
}

// CatalogFetchFunc retrieves the full catalog from its upstream source.
type CatalogFetchFunc func() ([]CatalogItem, error)

// CatalogCache memoizes the catalog behind a TTL. The clock is injectable so
// expiry is deterministic under test, and the cache is an explicit object
// owned by the composition root rather than package state. Safe for
// concurrent use.
type CatalogCache struct {
	TTL   time.Duration
	Now   func() time.Time
	Fetch CatalogFetchFunc

	mu        sync.Mutex
	items     []CatalogItem
	fetchedAt time.Time
}

// NewCatalogCache returns a cache backed by the wall clock.
func NewCatalogCache(ttl time.Duration, fetch CatalogFetchFunc) *CatalogCache {
	return &CatalogCache{TTL: ttl, Now: time.Now, Fetch: fetch}
}

// Get returns the cached catalog, refetching when the entry is older than the
// TTL. A failed refresh serves the stale copy when one exists.
func (c *CatalogCache) Get() ([]CatalogItem, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.Now()
	if !c.fetchedAt.IsZero() && now.Sub(c.fetchedAt) < c.TTL {
		return c.items, c.fetchedAt, nil
	}

	items, err := c.Fetch()
	if err != nil {
		if c.fetchedAt.IsZero() {
			return nil, time.Time{}, fmt.Errorf("fetch catalog: %w", err)
		}
		return c.items, c.fetchedAt, nil
	}

	c.items = items
	c.fetchedAt = now
	return c.items, c.fetchedAt, nil
}

// FetchPublishedCatalog downloads the catalog JSON from the first path under
// baseURL that responds successfully.
func FetchPublishedCatalog(client *http.Client, baseURL string, paths []string) ([]CatalogItem, error) {
	if client == nil {
		client = http.DefaultClient
	}

	base := strings.TrimSuffix(baseURL, "/")

	var lastErr error
	for _, path := range paths {
		resp, err := client.Get(base + "/" + strings.TrimPrefix(path, "/"))
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
			continue
		}

		var items []CatalogItem
		if err := json.Unmarshal(body, &items); err != nil {
			lastErr = fmt.Errorf("decode %s: %w", path, err)
			continue
		}
		return items, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no catalog paths configured")
	}
	return nil, lastErr
}
