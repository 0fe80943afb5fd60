package searchsync

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const defaultHitCacheTTL = 5 * time.Minute

// KVStore is the key-value store behind the hit cache.
// The redis store in this module satisfies it.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Option configures the Backend.
type Option interface {
	apply(*backendConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*backendConfig)

func (f optionFunc) apply(c *backendConfig) { f(c) }

type backendConfig struct {
	index         string
	indexSettings map[string]any

	algolia   *credentials
	meili     *credentials
	transport Transport

	registry *Registry
	store    ObjectStore

	cache    KVStore
	cacheTTL time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

type credentials struct {
	endpoint string
	key      string
}

// WithIndexName sets the index all types are written to. Required.
func WithIndexName(name string) Option {
	return optionFunc(func(c *backendConfig) {
		c.index = name
	})
}

// WithAlgolia targets an Algolia application.
func WithAlgolia(appID, adminKey string) Option {
	return optionFunc(func(c *backendConfig) {
		c.algolia = &credentials{endpoint: appID, key: adminKey}
	})
}

// WithMeilisearch targets a Meilisearch server.
func WithMeilisearch(host, apiKey string) Option {
	return optionFunc(func(c *backendConfig) {
		c.meili = &credentials{endpoint: host, key: apiKey}
	})
}

// WithTransport uses a caller-provided transport.
func WithTransport(t Transport) Option {
	return optionFunc(func(c *backendConfig) {
		c.transport = t
	})
}

// WithIndexSettings sets the base index settings. The map is never mutated;
// faceting attributes for the registered types are appended on top.
func WithIndexSettings(s map[string]any) Option {
	return optionFunc(func(c *backendConfig) {
		c.indexSettings = s
	})
}

// WithRegistry sets the indexed types. Required.
func WithRegistry(r *Registry) Option {
	return optionFunc(func(c *backendConfig) {
		c.registry = r
	})
}

// WithObjectStore sets the store search hits are loaded from. Required.
func WithObjectStore(s ObjectStore) Option {
	return optionFunc(func(c *backendConfig) {
		c.store = s
	})
}

// WithHitCache caches search responses in kv. Writes through the backend
// invalidate cached pages. ttl <= 0 uses 5 minutes.
func WithHitCache(kv KVStore, ttl time.Duration) Option {
	return optionFunc(func(c *backendConfig) {
		c.cache = kv
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *backendConfig) {
		c.logger = l
	})
}

// WithPrometheus registers transport, reconciliation and cache metrics
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *backendConfig) {
		c.metricsReg = reg
	})
}
