// Package config reads formflow settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-formflow/pkg/source"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds environment driven settings. CLI flags override them.
type Config struct {
	// HTTPTimeout caps each external data request. ENV: FORMFLOW_HTTP_TIMEOUT
	HTTPTimeout time.Duration `env:"FORMFLOW_HTTP_TIMEOUT,default=10s"`
	// FetchConcurrency bounds parallel step fetches. ENV: FORMFLOW_FETCH_CONCURRENCY
	FetchConcurrency int `env:"FORMFLOW_FETCH_CONCURRENCY,default=4"`
	// Cache is memory, redis or none. ENV: FORMFLOW_CACHE
	Cache string `env:"FORMFLOW_CACHE,default=memory"`
	// CacheTTL is how long fetched payloads stay cached. ENV: FORMFLOW_CACHE_TTL
	CacheTTL time.Duration `env:"FORMFLOW_CACHE_TTL,default=5m"`
	// RedisAddr like "localhost:6379". ENV: REDIS_ADDR
	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`
	// CachePrefix namespaces Redis keys. ENV: FORMFLOW_CACHE_PREFIX
	CachePrefix string `env:"FORMFLOW_CACHE_PREFIX,default=formflow:payload:"`
	// LogLevel is debug, info, warn or error. ENV: FORMFLOW_LOG_LEVEL
	LogLevel string `env:"FORMFLOW_LOG_LEVEL,default=info"`
	// LogFormat is text or json. ENV: FORMFLOW_LOG_FORMAT
	LogFormat string `env:"FORMFLOW_LOG_FORMAT,default=text"`
}

// Load decodes the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Cache = strings.ToLower(strings.TrimSpace(cfg.Cache))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var problems []error
	if c.HTTPTimeout < 0 {
		problems = append(problems, fmt.Errorf("config: FORMFLOW_HTTP_TIMEOUT must not be negative"))
	}
	if c.FetchConcurrency < 1 {
		problems = append(problems, fmt.Errorf("config: FORMFLOW_FETCH_CONCURRENCY must be at least 1, got %d", c.FetchConcurrency))
	}
	switch c.Cache {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		problems = append(problems, fmt.Errorf("config: FORMFLOW_CACHE must be memory, redis or none, got %q", c.Cache))
	}
	if c.CacheTTL < 0 {
		problems = append(problems, fmt.Errorf("config: FORMFLOW_CACHE_TTL must not be negative"))
	}
	if c.Cache == CacheRedis && strings.TrimSpace(c.RedisAddr) == "" {
		problems = append(problems, fmt.Errorf("config: REDIS_ADDR is required for the redis cache"))
	}
	return errors.Join(problems...)
}

// NewCache builds the configured payload cache. The returned close function
// is never nil. A nil cache means caching is disabled.
func (c Config) NewCache(ctx context.Context) (source.Cache, func() error, error) {
	noop := func() error { return nil }

	switch c.Cache {
	case CacheNone:
		return nil, noop, nil
	case CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("config: redis ping %s: %w", c.RedisAddr, err)
		}
		cache, err := source.NewRedisCache(client, c.CachePrefix)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return cache, cache.Close, nil
	default:
		return source.NewMemoryCache(), noop, nil
	}
}
