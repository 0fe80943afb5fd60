package hitcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/db"
	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/engine"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
	"github.com/kailas-cloud/searchsync/internal/domain/settings"
	"github.com/kailas-cloud/searchsync/internal/metrics"
)

const keyPrefix = "searchsync:hits:"

// store is the consumer interface for the hit cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Recorder counts cache lookups by result.
type Recorder interface {
	CacheResult(result string)
}

// Transport caches search responses in a key-value store.
// Every write bumps a per-index generation so cached pages never outlive it.
type Transport struct {
	inner   engine.Transport
	store   store
	ttl     time.Duration
	metrics Recorder
	logger  *zap.Logger
}

// New creates a caching decorator. metrics and logger can be nil.
func New(inner engine.Transport, s store, ttl time.Duration, metrics Recorder, logger *zap.Logger) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{inner: inner, store: s, ttl: ttl, metrics: metrics, logger: logger}
}

// SaveDocuments delegates and invalidates the index's cached pages.
func (c *Transport) SaveDocuments(ctx context.Context, index string, docs []document.Document) error {
	defer c.bump(ctx, index)
	return c.inner.SaveDocuments(ctx, index, docs) //nolint:wrapcheck // decorator
}

// DeleteDocument delegates and invalidates the index's cached pages.
func (c *Transport) DeleteDocument(ctx context.Context, index, objectID string) error {
	defer c.bump(ctx, index)
	return c.inner.DeleteDocument(ctx, index, objectID) //nolint:wrapcheck // decorator
}

// SetSettings delegates and invalidates the index's cached pages.
func (c *Transport) SetSettings(ctx context.Context, index string, s settings.Settings) error {
	defer c.bump(ctx, index)
	return c.inner.SetSettings(ctx, index, s) //nolint:wrapcheck // decorator
}

// Search returns a cached response or calls the inner transport.
func (c *Transport) Search(ctx context.Context, index, q string, p query.Params) (*query.Response, error) {
	gen, err := c.generation(ctx, index)
	if err != nil {
		c.record(metrics.CacheError)
		c.logger.Warn("Failed to read hit cache generation", zap.String("index", index), zap.Error(err))
		return c.inner.Search(ctx, index, q, p) //nolint:wrapcheck // decorator
	}

	key, err := cacheKey(index, gen, q, p)
	if err != nil {
		return nil, err
	}

	if resp, ok := c.get(ctx, key); ok {
		c.record(metrics.CacheHit)
		return resp, nil
	}
	c.record(metrics.CacheMiss)

	resp, err := c.inner.Search(ctx, index, q, p)
	if err != nil {
		return nil, err //nolint:wrapcheck // decorator
	}
	c.put(ctx, key, resp)
	return resp, nil
}

func (c *Transport) record(result string) {
	if c.metrics != nil {
		c.metrics.CacheResult(result)
	}
}

func generationKey(index string) string {
	return keyPrefix + "gen:" + index
}

func (c *Transport) generation(ctx context.Context, index string) (int64, error) {
	data, err := c.store.Get(ctx, generationKey(index))
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get generation: %w", err)
	}
	gen, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse generation %q: %w", data, err)
	}
	return gen, nil
}

func (c *Transport) bump(ctx context.Context, index string) {
	if _, err := c.store.IncrBy(ctx, generationKey(index), 1); err != nil {
		c.logger.Warn("Failed to invalidate hit cache", zap.String("index", index), zap.Error(err))
	}
}

func cacheKey(index string, gen int64, q string, p query.Params) (string, error) {
	data, err := json.Marshal(struct {
		Index      string       `json:"i"`
		Generation int64        `json:"g"`
		Query      string       `json:"q"`
		Params     query.Params `json:"p"`
	}{index, gen, q, p})
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	h := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(h[:]), nil
}

func (c *Transport) get(ctx context.Context, key string) (*query.Response, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached hits", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var resp query.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Warn("Failed to parse cached hits", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &resp, true
}

func (c *Transport) put(ctx context.Context, key string, resp *query.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("Failed to encode hits for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache hits", zap.String("key", key), zap.Error(err))
	}
}
