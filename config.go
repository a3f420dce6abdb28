package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hjson/hjson-go"
)

const (
	DefaultHTTPTimeout       = 5 * time.Second
	DefaultRateLimitInterval = 100 * time.Millisecond
	DefaultRateLimitBurst    = 10
	DefaultCacheItemsCount   = 4096
	DefaultCacheTTL          = time.Hour
	DefaultDatabaseName      = "bfp"
	DefaultCollectionName    = "visitors"
)

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Listen         string           `json:"listen"`
	WorkerPoolSize uint             `json:"worker_pool_size"`
	Database       configDatabase   `json:"database"`
	Cache          configCache      `json:"cache"`
	Providers      []configProvider `json:"providers"`
}

func (c config) GetListen() string {
	return c.Listen
}

func (c config) GetWorkerPoolSize() int {
	return int(c.WorkerPoolSize)
}

func (c config) GetProviders() []configProvider {
	return c.Providers
}

type configDatabase struct {
	URI        string `json:"uri"`
	Name       string `json:"name"`
	Collection string `json:"collection"`
}

func (c configDatabase) GetURI() string {
	return c.URI
}

func (c configDatabase) GetName() string {
	if c.Name != "" {
		return c.Name
	}

	return DefaultDatabaseName
}

func (c configDatabase) GetCollection() string {
	if c.Collection != "" {
		return c.Collection
	}

	return DefaultCollectionName
}

type configCache struct {
	Disabled   bool     `json:"disabled"`
	ItemsCount uint     `json:"items_count"`
	TTL        duration `json:"ttl"`
}

func (c configCache) GetItemsCount() int {
	if c.ItemsCount == 0 {
		return DefaultCacheItemsCount
	}

	return int(c.ItemsCount)
}

func (c configCache) GetTTL() time.Duration {
	if c.TTL.Duration == 0 {
		return DefaultCacheTTL
	}

	return c.TTL.Duration
}

type configProvider struct {
	Name               string            `json:"name"`
	RateLimitInterval  duration          `json:"rate_limit_interval"`
	RateLimitBurst     uint              `json:"rate_limit_burst"`
	HTTPTimeout        duration          `json:"http_timeout"`
	SpecificParameters map[string]string `json:"specific_parameters"`
}

func (c configProvider) GetName() string {
	return c.Name
}

func (c configProvider) GetRateLimitInterval() time.Duration {
	if c.RateLimitInterval.Duration == 0 {
		return DefaultRateLimitInterval
	}

	return c.RateLimitInterval.Duration
}

func (c configProvider) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return DefaultRateLimitBurst
	}

	return int(c.RateLimitBurst)
}

func (c configProvider) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

func (c configProvider) GetSpecificParameters() map[string]string {
	if c.SpecificParameters == nil {
		return map[string]string{}
	}

	return c.SpecificParameters
}

func parseConfig(path string) (*config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	conf := config{}
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return nil, fmt.Errorf("cannot parse json: %w", err)
	}

	rawBytes, _ := json.Marshal(rawMap)

	json.Unmarshal(rawBytes, &conf) // nolint: errcheck

	if _, _, err := net.SplitHostPort(conf.Listen); err != nil {
		return nil, fmt.Errorf("incorrect host:port for listen: %w", err)
	}

	if conf.Database.GetURI() == "" {
		return nil, fmt.Errorf("database uri is not set")
	}

	seenProviderNames := map[string]struct{}{}

	for _, v := range conf.Providers {
		if _, ok := seenProviderNames[v.GetName()]; ok {
			return nil, fmt.Errorf("Name %s is duplicated", v.GetName())
		}

		seenProviderNames[v.GetName()] = struct{}{}
	}

	return &conf, nil
}
