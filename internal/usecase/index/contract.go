package index

import (
	"context"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
)

// Writer persists documents in the search index.
type Writer interface {
	SaveDocuments(ctx context.Context, index string, docs []document.Document) error
	DeleteDocument(ctx context.Context, index, objectID string) error
}
