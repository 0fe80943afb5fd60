package meili

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/meilisearch/meilisearch-go"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/engine"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
	"github.com/kailas-cloud/searchsync/internal/domain/settings"
)

// Compile-time check: Client implements engine.Transport.
var _ engine.Transport = (*Client)(nil)

// PrimaryKey is the Meilisearch document id attribute. Meilisearch ids only
// allow [A-Za-z0-9_-], so it holds the hex-encoded objectID.
const PrimaryKey = "id"

// Client is the Meilisearch transport.
type Client struct {
	sm meilisearch.ServiceManager
}

// New creates a Meilisearch client.
func New(host, apiKey string) *Client {
	return &Client{sm: meilisearch.New(host, meilisearch.WithAPIKey(apiKey))}
}

// SaveDocuments adds or replaces documents in one task.
func (c *Client) SaveDocuments(ctx context.Context, index string, docs []document.Document) error {
	pk := PrimaryKey
	_, err := c.sm.Index(index).AddDocumentsWithContext(ctx, toDocuments(docs), &meilisearch.DocumentOptions{PrimaryKey: &pk})
	if err != nil {
		return fmt.Errorf("meilisearch add documents: %w", err)
	}
	return nil
}

// DeleteDocument removes one document.
func (c *Client) DeleteDocument(ctx context.Context, index, objectID string) error {
	if _, err := c.sm.Index(index).DeleteDocumentWithContext(ctx, DocumentID(objectID), nil); err != nil {
		return fmt.Errorf("meilisearch delete document: %w", err)
	}
	return nil
}

// SetSettings maps facet and searchable attributes onto the index.
// Other Algolia-only keys have no Meilisearch counterpart and are ignored.
func (c *Client) SetSettings(ctx context.Context, index string, s settings.Settings) error {
	idx := c.sm.Index(index)

	filterable := filterableAttributes(s)
	if _, err := idx.UpdateFilterableAttributesWithContext(ctx, &filterable); err != nil {
		return fmt.Errorf("meilisearch update filterable attributes: %w", err)
	}

	if searchable := searchableAttributes(s); len(searchable) > 0 {
		if _, err := idx.UpdateSearchableAttributesWithContext(ctx, &searchable); err != nil {
			return fmt.Errorf("meilisearch update searchable attributes: %w", err)
		}
	}
	return nil
}

// Search runs a query with the compiled parameters.
func (c *Client) Search(ctx context.Context, index, q string, p query.Params) (*query.Response, error) {
	req := &meilisearch.SearchRequest{
		Filter:                translateFilter(p.Filters),
		AttributesToRetrieve:  p.AttributesToRetrieve,
		AttributesToHighlight: p.AttributesToHighlight,
	}
	res, err := c.sm.Index(index).SearchWithContext(ctx, q, req)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	hits := make([]query.Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := make(query.Hit, len(h))
		for k, v := range h {
			hit[k] = decode(v)
		}
		hits = append(hits, hit)
	}
	return &query.Response{
		Hits:        hits,
		NbHits:      int(res.EstimatedTotalHits),
		HitsPerPage: len(hits),
		NbPages:     1,
	}, nil
}

// DocumentID derives the Meilisearch id from an objectID.
func DocumentID(objectID string) string {
	return hex.EncodeToString([]byte(objectID))
}

func toDocuments(docs []document.Document) []map[string]any {
	out := make([]map[string]any, len(docs))
	for i, d := range docs {
		m := make(map[string]any, len(d)+1)
		for k, v := range d {
			m[k] = v
		}
		m[PrimaryKey] = DocumentID(d.ObjectID())
		out[i] = m
	}
	return out
}

func filterableAttributes(s settings.Settings) []any {
	facets := s.Faceting()
	out := make([]any, 0, len(facets))
	for _, f := range facets {
		out = append(out, settings.FacetAttribute(f))
	}
	return out
}

func searchableAttributes(s settings.Settings) []string {
	raw, ok := s["searchableAttributes"]
	if !ok {
		return nil
	}
	attrs := settings.Settings{settings.KeyFaceting: raw}.Faceting()
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		// "title,introduction" ranks both at the same level in Algolia.
		for _, part := range strings.Split(a, ",") {
			out = append(out, settings.FacetAttribute(strings.TrimSpace(part)))
		}
	}
	return out
}

// translateFilter rewrites Algolia "attr:value" clauses joined by AND
// into Meilisearch filter syntax.
func translateFilter(f string) string {
	if f == "" {
		return ""
	}
	clauses := strings.Split(f, " AND ")
	for i, c := range clauses {
		attr, value, ok := strings.Cut(strings.TrimSpace(c), ":")
		if !ok {
			continue
		}
		if _, err := strconv.ParseBool(value); err != nil {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				value = strconv.Quote(value)
			}
		}
		clauses[i] = attr + " = " + value
	}
	return strings.Join(clauses, " AND ")
}

// decode unwraps raw JSON hit values.
func decode(v any) any {
	var raw []byte
	switch x := v.(type) {
	case json.RawMessage:
		raw = x
	case []byte:
		raw = x
	default:
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	return out
}
