package bfplib

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net"
	"time"

	"github.com/dgraph-io/ristretto"
)

func coordinatesCacheKey(coords Coordinates) string {
	return cacheKey("geo", coords.String())
}

func ipCacheKey(ip net.IP) string {
	return cacheKey("ip", ip.String())
}

func cacheKey(prefix, query string) string {
	digest := md5.Sum([]byte(query)) // nolint: gosec

	return prefix + ":" + hex.EncodeToString(digest[:])
}

type memoryCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func (m memoryCache) Get(key string) (ResolvedLocation, bool) {
	value, ok := m.cache.Get(key)
	if !ok {
		return ResolvedLocation{}, false
	}

	rv, ok := value.(ResolvedLocation)

	return rv, ok
}

func (m memoryCache) Set(key string, value ResolvedLocation) {
	m.cache.SetWithTTL(key, value, 1, m.ttl)
}

// NewMemoryCache builds an in-process location cache. Entries expire
// after ttl; an entry past its TTL is never returned.
func NewMemoryCache(itemsCount uint, ttl time.Duration) (Cache, error) {
	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize cache: %w", err)
	}

	return memoryCache{
		cache: cache,
		ttl:   ttl,
	}, nil
}

// NopCache always misses. It is what the resolver runs with when
// caching is disabled or the backend could not be built: resolution
// still works, it just pays for every provider call.
type NopCache struct{}

func (n NopCache) Get(_ string) (ResolvedLocation, bool) {
	return ResolvedLocation{}, false
}

func (n NopCache) Set(_ string, _ ResolvedLocation) {}
