package search

import (
	"context"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
)

// Searcher runs a compiled query against the search index.
type Searcher interface {
	Search(ctx context.Context, index, q string, p query.Params) (*query.Response, error)
}

// ObjectStore loads host objects by id. It returns only instances that pass
// the collection's predicate, in the order of ids.
type ObjectStore interface {
	FetchOrdered(ctx context.Context, c schema.Collection, ids []string) ([]schema.Instance, error)
}

// Resolver maps a qualified type name to a registered type.
type Resolver interface {
	Resolve(name string) (*schema.Type, error)
}

// SkipRecorder counts hits dropped during reconciliation.
type SkipRecorder interface {
	SkipHit(reason string)
}
