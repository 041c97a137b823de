package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ethpandaops/slotscope/cache"
	"github.com/ethpandaops/slotscope/utils"
)

var fetchLogger = logrus.StandardLogger().WithField("module", "fetchcache")

var (
	fetchCacheRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotscope_fetch_cache_requests",
		Help: "Number of upstream requests issued by the fetch cache",
	})
	fetchCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotscope_fetch_cache_hits",
		Help: "Number of fetch cache loads served from cache",
	})
	fetchCacheShared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotscope_fetch_cache_shared",
		Help: "Number of fetch cache loads that joined an in-flight request",
	})
	fetchCacheFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotscope_fetch_cache_failures",
		Help: "Number of failed upstream requests",
	})
)

// FetchFn retrieves the raw body of a url.
type FetchFn func(ctx context.Context, url string) ([]byte, error)

// FetchCache is a read-through cache keyed by url.
// Successful responses are stored forever and never revalidated, failures are not stored.
// Concurrent loads of the same url share a single upstream request.
// Bodies are kept in process as well, the tiered cache rejects entries above its size limit.
type FetchCache struct {
	fetchFn      FetchFn
	tieredCache  *cache.TieredCache
	bodies       sync.Map
	fetchGroup   singleflight.Group
	fetchTimeout time.Duration
}

func NewFetchCache(fetchFn FetchFn, tieredCache *cache.TieredCache, fetchTimeout time.Duration) *FetchCache {
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return &FetchCache{
		fetchFn:      fetchFn,
		tieredCache:  tieredCache,
		fetchTimeout: fetchTimeout,
	}
}

// Load returns the body for url, blocking until it is available or the upstream request failed.
// Cancelling ctx only abandons the wait, the shared request keeps running.
func (fc *FetchCache) Load(ctx context.Context, url string) ([]byte, error) {
	if body := fc.getCached(url); body != nil {
		fetchCacheHits.Inc()
		return body, nil
	}

	resChan := fc.fetchGroup.DoChan(url, func() (interface{}, error) {
		return fc.fetch(url)
	})

	select {
	case res := <-resChan:
		if res.Shared {
			fetchCacheShared.Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Lookup returns the body for url if it is cached.
// Otherwise it starts loading the url in background (if not already in flight) and returns false.
func (fc *FetchCache) Lookup(url string) ([]byte, bool) {
	if body := fc.getCached(url); body != nil {
		fetchCacheHits.Inc()
		return body, true
	}

	// the result channel is buffered, nobody needs to read it
	fc.fetchGroup.DoChan(url, func() (interface{}, error) {
		return fc.fetch(url)
	})

	return nil, false
}

func (fc *FetchCache) getCached(url string) []byte {
	if body, found := fc.bodies.Load(url); found {
		return body.([]byte)
	}

	var body json.RawMessage
	_, err := fc.tieredCache.Get(url, &body)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			fetchLogger.WithError(err).Debugf("error reading %v from cache", utils.GetRedactedUrl(url))
		}
		return nil
	}
	if len(body) == 0 {
		return nil
	}
	fc.bodies.Store(url, []byte(body))
	return body
}

func (fc *FetchCache) fetch(url string) ([]byte, error) {
	// another flight might have completed between the cache check and joining the group
	if body := fc.getCached(url); body != nil {
		return body, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), fc.fetchTimeout)
	defer cancel()

	fetchCacheRequests.Inc()
	t1 := time.Now()

	body, err := fc.fetchFn(ctx, url)
	if err != nil {
		fetchCacheFailures.Inc()
		fetchLogger.WithError(err).Warnf("failed loading %v", utils.GetRedactedUrl(url))
		return nil, err
	}

	fetchLogger.Debugf("loaded %v (%v bytes, %v ms)", utils.GetRedactedUrl(url), len(body), time.Since(t1).Milliseconds())

	fc.bodies.Store(url, body)

	err = fc.tieredCache.Set(url, json.RawMessage(body), 0)
	if err != nil {
		fetchLogger.WithError(err).Warnf("failed caching %v", utils.GetRedactedUrl(url))
	}

	return body, nil
}
