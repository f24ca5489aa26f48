package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache stores fetched rates keyed by base currency.
type Cache interface {
	Get(ctx context.Context, base string) (Rates, bool, error)
	Set(ctx context.Context, rates Rates) error
}

// RedisCache keeps rates in Redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache creates a Redis-backed rate cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "fincalc:rates:"}
}

// Get returns cached rates. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, base string) (Rates, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+base).Result()
	if errors.Is(err, redis.Nil) {
		return Rates{}, false, nil
	}
	if err != nil {
		return Rates{}, false, fmt.Errorf("redis get rates: %w", err)
	}
	var rates Rates
	if err := json.Unmarshal([]byte(data), &rates); err != nil {
		return Rates{}, false, fmt.Errorf("failed to decode cached rates: %w", err)
	}
	return rates, true, nil
}

// Set stores rates with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, rates Rates) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+rates.Base, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set rates: %w", err)
	}
	return nil
}

// FileCache keeps rates as JSON files under a directory.
type FileCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileCache creates a file-backed rate cache in dir.
func NewFileCache(dir string, ttl time.Duration) *FileCache {
	return &FileCache{dir: dir, ttl: ttl, now: time.Now}
}

func (c *FileCache) path(base string) string {
	return filepath.Join(c.dir, base+".json")
}

// Get returns rates fetched within the TTL.
func (c *FileCache) Get(_ context.Context, base string) (Rates, bool, error) {
	data, err := os.ReadFile(c.path(base))
	if err != nil {
		if os.IsNotExist(err) {
			return Rates{}, false, nil
		}
		return Rates{}, false, fmt.Errorf("failed to read cached rates: %w", err)
	}
	var rates Rates
	if err := json.Unmarshal(data, &rates); err != nil {
		return Rates{}, false, fmt.Errorf("failed to decode cached rates: %w", err)
	}
	if c.ttl > 0 && c.now().Sub(rates.FetchedAt) > c.ttl {
		return Rates{}, false, nil
	}
	return rates, true, nil
}

// Set writes rates atomically.
func (c *FileCache) Set(_ context.Context, rates Rates) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create rates cache dir: %w", err)
	}
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	tmpFile, err := os.CreateTemp(c.dir, "rates-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp rates file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write rates: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp rates file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path(rates.Base)); err != nil {
		return fmt.Errorf("failed to move rates into cache: %w", err)
	}
	return nil
}

// CachedProvider serves rates from a cache and refreshes it from Source on a miss.
type CachedProvider struct {
	Source Provider
	Cache  Cache
	Log    logrus.FieldLogger
}

// Rates returns cached rates or fetches and stores fresh ones.
// Cache failures are logged and never hide a successful fetch.
func (p *CachedProvider) Rates(ctx context.Context) (Rates, error) {
	rates, ok, err := p.Cache.Get(ctx, Base)
	if err != nil {
		p.logger().WithError(err).Warn("rates cache read failed")
	}
	if ok {
		p.logger().WithField("fetched_at", rates.FetchedAt).Debug("using cached rates")
		return rates, nil
	}
	rates, err = p.Source.Rates(ctx)
	if err != nil {
		return Rates{}, err
	}
	if err := p.Cache.Set(ctx, rates); err != nil {
		p.logger().WithError(err).Warn("rates cache write failed")
	}
	return rates, nil
}

func (p *CachedProvider) logger() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}
