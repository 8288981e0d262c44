package report

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/comparator"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/logger"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/redis"
)

const keyPrefix = "report:"

// Cache memoises comparison reports in Redis keyed by dataset checksum
// and codec pair, so repeated requests over the same dataset skip the
// encode pass entirely.
type Cache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a report cache over an existing Redis client.
func NewCache(client *pkgredis.Client, cfg config.RedisConfig) *Cache {
	return &Cache{
		client: client,
		cfg:    cfg,
		logger: logger.WithComponent("report-cache"),
	}
}

// Get returns the cached report for the dataset/codec combination.
func (c *Cache) Get(ctx context.Context, checksum, gapCodec, freqCodec string) (*comparator.Report, bool) {
	key := buildKey(checksum, gapCodec, freqCodec)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var r comparator.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "key", key)
	return &r, true
}

// Set stores a report under its dataset/codec key.
func (c *Cache) Set(ctx context.Context, r *comparator.Report) {
	key := buildKey(r.DatasetChecksum, r.Gaps.Codec, r.Frequencies.Codec)
	data, err := json.Marshal(r)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached report or runs computeFn once for
// concurrent identical requests, caching the result. The bool reports
// whether the value came from cache.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	checksum, gapCodec, freqCodec string,
	computeFn func() (*comparator.Report, error),
) (*comparator.Report, bool, error) {
	if r, ok := c.Get(ctx, checksum, gapCodec, freqCodec); ok {
		return r, true, nil
	}
	key := buildKey(checksum, gapCodec, freqCodec)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if r, ok := c.Get(ctx, checksum, gapCodec, freqCodec); ok {
			return r, nil
		}
		r, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, r)
		return r, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*comparator.Report), false, nil
}

// Invalidate removes all cached reports.
func (c *Cache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating report cache: %w", err)
	}
	c.logger.Info("report cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns hit and miss counts since startup.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func buildKey(checksum, gapCodec, freqCodec string) string {
	raw := fmt.Sprintf("%s|gaps=%s|freqs=%s", checksum, gapCodec, freqCodec)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
