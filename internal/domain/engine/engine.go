package engine

import (
	"context"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
	"github.com/kailas-cloud/searchsync/internal/domain/settings"
)

// Transport operation names, used in errors, logs and metric labels.
const (
	OpSave     = "save"
	OpDelete   = "delete"
	OpSettings = "settings"
	OpSearch   = "search"
)

// Transport is the client of a hosted search index.
type Transport interface {
	SaveDocuments(ctx context.Context, index string, docs []document.Document) error
	DeleteDocument(ctx context.Context, index, objectID string) error
	SetSettings(ctx context.Context, index string, s settings.Settings) error
	Search(ctx context.Context, index, q string, p query.Params) (*query.Response, error)
}
