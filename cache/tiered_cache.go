package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/sirupsen/logrus"
)

// TieredCache is a cache implementation combining a local & remote cache.
// An expiration of 0 stores the value without timeout.
type TieredCache struct {
	localGoCache *freecache.Cache
	remoteCache  RemoteCache
}

type cachedValue struct {
	Version uint64      `json:"i"`
	Timeout uint64      `json:"t"`
	Value   interface{} `json:"v"`
}

var ErrCacheMiss = errors.New("cache miss")

type RemoteCache interface {
	SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error
	GetBytes(ctx context.Context, key string) ([]byte, error)
}

// NewTieredCache creates a tiered cache with a local cache of cacheSize MB and an optional redis backend.
func NewTieredCache(cacheSize int, redisAddress string, redisPrefix string) (*TieredCache, error) {
	var remoteCache RemoteCache
	if redisAddress != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()

		var err error
		remoteCache, err = InitRedisCache(ctx, redisAddress, redisPrefix)
		if err != nil {
			logrus.WithError(err).Errorf("error initializing remote redis cache. address: %v", redisAddress)
			return nil, err
		}
	}

	return NewTieredCacheWithRemote(cacheSize, remoteCache), nil
}

// NewTieredCacheWithRemote creates a tiered cache on top of an existing remote cache (may be nil).
func NewTieredCacheWithRemote(cacheSize int, remoteCache RemoteCache) *TieredCache {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	return &TieredCache{
		remoteCache:  remoteCache,
		localGoCache: freecache.NewCache(cacheSize * 1024 * 1024),
	}
}

func (cache *TieredCache) Set(key string, value interface{}, expiration time.Duration) error {
	cacheValue := cachedValue{
		Version: 1,
		Value:   value,
	}
	if expiration > 0 {
		cacheValue.Timeout = uint64(time.Now().Add(expiration).Unix())
	}

	valueMarshal, err := json.Marshal(cacheValue)
	if err != nil {
		return err
	}
	err = cache.localGoCache.Set([]byte(key), valueMarshal, int(expiration.Seconds()))
	if err != nil {
		// entry larger than the local cache allows, keep it remote only
		logrus.WithError(err).Debugf("could not store %v in local cache", key)
	}
	if cache.remoteCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		return cache.remoteCache.SetBytes(ctx, key, valueMarshal, expiration)
	}
	return nil
}

func (cache *TieredCache) Get(key string, returnValue interface{}) (interface{}, error) {
	cacheValue := &cachedValue{
		Value: returnValue,
	}

	// try to retrieve the key from the local cache
	wanted, err := cache.localGoCache.Get([]byte(key))
	if err == nil {
		err = json.Unmarshal(wanted, cacheValue)
		if err != nil {
			logrus.WithError(err).WithField("key", key).Error("error unmarshalling data for key")
			return nil, err
		}

		return returnValue, nil
	}

	if cache.remoteCache == nil {
		return nil, ErrCacheMiss
	}

	// retrieve the key from the remote cache
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	remoteValue, err := cache.remoteCache.GetBytes(ctx, key)
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(remoteValue, cacheValue)
	if err != nil {
		return nil, err
	}

	if cacheValue.Timeout == 0 || cacheValue.Timeout > uint64(time.Now().Add(2*time.Second).Unix()) {
		var timeout uint64
		if cacheValue.Timeout != 0 {
			timeout = cacheValue.Timeout - uint64(time.Now().Unix())
		}
		cache.localGoCache.Set([]byte(key), remoteValue, int(timeout))
	}
	return returnValue, nil
}
