package algolia

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/engine"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
	"github.com/kailas-cloud/searchsync/internal/domain/settings"
)

// Compile-time check: Client implements engine.Transport.
var _ engine.Transport = (*Client)(nil)

// index is the subset of *search.Index used by the transport.
type index interface {
	SaveObjects(objects interface{}, opts ...interface{}) (search.GroupBatchRes, error)
	DeleteObject(objectID string, opts ...interface{}) (search.DeleteTaskRes, error)
	SetSettings(settings search.Settings, opts ...interface{}) (search.UpdateTaskRes, error)
	Search(query string, opts ...interface{}) (search.QueryRes, error)
}

// Client is the Algolia transport. It holds no per-index state.
type Client struct {
	open func(name string) index
}

// New creates an Algolia client with the application id and admin API key.
func New(appID, adminKey string) *Client {
	c := search.NewClient(appID, adminKey)
	return &Client{open: func(name string) index { return c.InitIndex(name) }}
}

// SaveDocuments upserts documents in one batch.
func (c *Client) SaveDocuments(ctx context.Context, name string, docs []document.Document) error {
	if _, err := c.open(name).SaveObjects(docs, ctx); err != nil {
		return fmt.Errorf("algolia save objects: %w", err)
	}
	return nil
}

// DeleteDocument removes one document.
func (c *Client) DeleteDocument(ctx context.Context, name, objectID string) error {
	if _, err := c.open(name).DeleteObject(objectID, ctx); err != nil {
		return fmt.Errorf("algolia delete object: %w", err)
	}
	return nil
}

// SetSettings replaces the index settings.
func (c *Client) SetSettings(ctx context.Context, name string, s settings.Settings) error {
	native, err := toSettings(s)
	if err != nil {
		return err
	}
	if _, err := c.open(name).SetSettings(native, ctx); err != nil {
		return fmt.Errorf("algolia set settings: %w", err)
	}
	return nil
}

// Search runs a query with the compiled parameters.
func (c *Client) Search(ctx context.Context, name, q string, p query.Params) (*query.Response, error) {
	res, err := c.open(name).Search(q, searchOptions(ctx, p)...)
	if err != nil {
		return nil, fmt.Errorf("algolia search: %w", err)
	}
	return toResponse(res), nil
}

func searchOptions(ctx context.Context, p query.Params) []interface{} {
	return []interface{}{
		ctx,
		opt.Filters(p.Filters),
		opt.AttributesToRetrieve(p.AttributesToRetrieve...),
		opt.AttributesToHighlight(p.AttributesToHighlight...),
	}
}

// toSettings converts the settings map through its JSON form, which is
// the shape Algolia documents settings in.
func toSettings(s settings.Settings) (search.Settings, error) {
	var native search.Settings
	data, err := json.Marshal(s)
	if err != nil {
		return native, fmt.Errorf("encode settings: %w", err)
	}
	if err := json.Unmarshal(data, &native); err != nil {
		return native, fmt.Errorf("decode algolia settings: %w", err)
	}
	return native, nil
}

func toResponse(res search.QueryRes) *query.Response {
	hits := make([]query.Hit, len(res.Hits))
	for i, h := range res.Hits {
		hits[i] = query.Hit(h)
	}
	return &query.Response{
		Hits:        hits,
		NbHits:      res.NbHits,
		Page:        res.Page,
		NbPages:     res.NbPages,
		HitsPerPage: res.HitsPerPage,
		Facets:      res.Facets,
	}
}
