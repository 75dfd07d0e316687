package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"tag-admin/pkg/models"
)

// PageCache caches tag pages per query key. Each (page, filter) pair has its own entry,
// concurrent misses for one key share a single request, and failures are never stored.
type PageCache struct {
	source PageSource
	pages  *cache.Cache
	group  singleflight.Group
	logger zerolog.Logger

	// epoch is bumped by Invalidate so fetches started before a flush don't repopulate it
	mu    sync.Mutex
	epoch uint64
}

// NewPageCache wraps source with a cache whose entries live for ttl
func NewPageCache(source PageSource, ttl time.Duration, logger zerolog.Logger) *PageCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PageCache{
		source: source,
		pages:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Cached returns the cached page for intent without touching the network
func (c *PageCache) Cached(intent models.QueryIntent) (*models.TagPage, bool) {
	if cached, found := c.pages.Get(string(intent.Key())); found {
		return cached.(*models.TagPage), true
	}
	return nil, false
}

// Get returns the page for intent, fetching it on a miss
func (c *PageCache) Get(ctx context.Context, intent models.QueryIntent) (*models.TagPage, error) {
	key := string(intent.Key())
	if page, ok := c.Cached(intent); ok {
		c.logger.Debug().Str("key", key).Msg("using cached tag page")
		return page, nil
	}

	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	flight := key + "@" + strconv.FormatUint(epoch, 10)
	result, err, shared := c.group.Do(flight, func() (any, error) {
		c.logger.Debug().Str("key", key).Msg("fetching tag page")
		page, err := c.source.FetchPage(ctx, intent)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.epoch == epoch {
			c.pages.Set(key, page, cache.DefaultExpiration)
		}
		c.mu.Unlock()
		return page, nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Bool("shared", shared).Msg("tag page fetch failed")
		return nil, err
	}

	return result.(*models.TagPage), nil
}

// Invalidate drops every cached page, e.g. after a tag was created
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	c.epoch++
	c.mu.Unlock()
	c.pages.Flush()
}
