package searchsync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain/engine"
	"github.com/kailas-cloud/searchsync/internal/metrics"
	"github.com/kailas-cloud/searchsync/internal/repository/hitcache"
	"github.com/kailas-cloud/searchsync/internal/transport/algolia"
	"github.com/kailas-cloud/searchsync/internal/transport/meili"
	indexuc "github.com/kailas-cloud/searchsync/internal/usecase/index"
	searchuc "github.com/kailas-cloud/searchsync/internal/usecase/search"
	settingsuc "github.com/kailas-cloud/searchsync/internal/usecase/settings"
	transportuc "github.com/kailas-cloud/searchsync/internal/usecase/transport"
)

// Backend is the search backend entry point. It is immutable after New
// and safe for concurrent use.
type Backend struct {
	registry *Registry
	index    *Index
	settings *settingsuc.Service
	search   *searchuc.Service
	logger   *zap.Logger
}

// New validates the options and wires a Backend.
func New(opts ...Option) (*Backend, error) {
	cfg := &backendConfig{cacheTTL: defaultHitCacheTTL}
	for _, o := range opts {
		o.apply(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var m *metrics.Search
	if cfg.metricsReg != nil {
		var err error
		if m, err = metrics.NewSearch(cfg.metricsReg); err != nil {
			return nil, fmt.Errorf("searchsync: register metrics: %w", err)
		}
	}

	raw, name := cfg.rawTransport()
	var t engine.Transport = transportuc.NewInstrumented(raw, name, m, logger)
	if cfg.cache != nil {
		ttl := cfg.cacheTTL
		if ttl <= 0 {
			ttl = defaultHitCacheTTL
		}
		t = hitcache.New(t, cfg.cache, ttl, m, logger)
	}

	logger.Info("Search backend configured",
		zap.String("index", cfg.index),
		zap.String("engine", name),
		zap.Int("types", cfg.registry.Len()),
		zap.Bool("hit_cache", cfg.cache != nil),
	)

	return &Backend{
		registry: cfg.registry,
		index:    &Index{svc: indexuc.New(t, cfg.index, logger)},
		settings: settingsuc.New(t, cfg.index, cfg.indexSettings, cfg.registry, logger),
		search:   searchuc.New(t, cfg.store, cfg.registry, cfg.index, m, logger),
		logger:   logger,
	}, nil
}

func (c *backendConfig) validate() error {
	if c.index == "" {
		return fmt.Errorf("searchsync: index name required (use WithIndexName): %w", ErrInvalidConfig)
	}
	if c.registry == nil {
		return fmt.Errorf("searchsync: type registry required (use WithRegistry): %w", ErrInvalidConfig)
	}
	if c.store == nil {
		return fmt.Errorf("searchsync: object store required (use WithObjectStore): %w", ErrInvalidConfig)
	}
	n := 0
	for _, set := range []bool{c.algolia != nil, c.meili != nil, c.transport != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf(
			"searchsync: exactly one of WithAlgolia, WithMeilisearch or WithTransport required, got %d: %w",
			n, ErrInvalidConfig,
		)
	}
	if c.algolia != nil && (c.algolia.endpoint == "" || c.algolia.key == "") {
		return fmt.Errorf("searchsync: algolia application id and admin key required: %w", ErrInvalidConfig)
	}
	if c.meili != nil && c.meili.endpoint == "" {
		return fmt.Errorf("searchsync: meilisearch host required: %w", ErrInvalidConfig)
	}
	return nil
}

func (c *backendConfig) rawTransport() (engine.Transport, string) {
	switch {
	case c.algolia != nil:
		return algolia.New(c.algolia.endpoint, c.algolia.key), "algolia"
	case c.meili != nil:
		return meili.New(c.meili.endpoint, c.meili.key), "meilisearch"
	default:
		return c.transport, "custom"
	}
}

// IndexName returns the target index.
func (b *Backend) IndexName() string { return b.index.Name() }

// Registry returns the indexed types.
func (b *Backend) Registry() *Registry { return b.registry }

// Settings returns the index settings the backend pushes on rebuild.
func (b *Backend) Settings() Settings { return b.settings.Compute() }

// Add indexes one instance.
func (b *Backend) Add(ctx context.Context, inst Instance) error {
	return b.index.Add(ctx, inst)
}

// AddBulk indexes a batch of instances of typ in a single write.
// The hierarchy root sentinel is skipped. It returns the number of documents sent.
func (b *Backend) AddBulk(ctx context.Context, typ *Type, insts []Instance) (int, error) {
	return b.index.AddBulk(ctx, typ, insts)
}

// Delete removes an instance's document.
func (b *Backend) Delete(ctx context.Context, inst Instance) error {
	return b.index.Delete(ctx, inst)
}

// Search returns a lazy result set for q within c. Nothing is sent until
// the result set is read.
func (b *Backend) Search(q string, c Collection) *Results {
	return b.search.Search(q, c)
}

// RefreshIndex is a no-op; hosted indexes need no explicit refresh.
func (b *Backend) RefreshIndex(context.Context) error { return nil }

// Rebuilder returns the full-reindex lifecycle handle.
func (b *Backend) Rebuilder() *Rebuilder { return &Rebuilder{backend: b} }

// Rebuild pushes settings and reindexes every registered type from src.
// It returns the number of documents sent.
func (b *Backend) Rebuild(ctx context.Context, src Enumerator) (int, error) {
	r := b.Rebuilder()
	idx, err := r.Start(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, t := range b.registry.Types() {
		insts, err := src.All(ctx, t)
		if err != nil {
			return total, fmt.Errorf("load %s: %w", t, err)
		}
		n, err := idx.AddBulk(ctx, t, insts)
		if err != nil {
			return total, fmt.Errorf("index %s: %w", t, err)
		}
		total += n
		b.logger.Info("Type reindexed", zap.Stringer("type", t), zap.Int("documents", n))
	}

	if err := r.Finish(ctx); err != nil {
		return total, err
	}
	return total, nil
}

// Rebuilder drives a full reindex: Start, bulk writes on the returned
// Index, then Finish.
type Rebuilder struct {
	backend *Backend
}

// Start pushes the computed index settings and returns the write handle.
func (r *Rebuilder) Start(ctx context.Context) (*Index, error) {
	if err := r.backend.settings.Sync(ctx); err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}
	return r.backend.index, nil
}

// Finish completes the rebuild. Writes are visible as soon as they land,
// so there is nothing to swap.
func (r *Rebuilder) Finish(context.Context) error { return nil }

// Index writes documents to the backend's index.
type Index struct {
	svc *indexuc.Service
}

// Name returns the index name.
func (i *Index) Name() string { return i.svc.Name() }

// Add indexes one instance.
func (i *Index) Add(ctx context.Context, inst Instance) error {
	return i.svc.Add(ctx, inst)
}

// AddBulk indexes a batch of instances in a single write.
func (i *Index) AddBulk(ctx context.Context, typ *Type, insts []Instance) (int, error) {
	return i.svc.AddBulk(ctx, typ, insts)
}

// Delete removes an instance's document.
func (i *Index) Delete(ctx context.Context, inst Instance) error {
	return i.svc.Delete(ctx, inst)
}
