package search

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
	"github.com/kailas-cloud/searchsync/internal/domain/search/facet"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
)

var errNoResponse = errors.New("transport returned no response")

// Results is a lazily executed search over one collection. The first read
// runs the query; later reads reuse the materialized instances.
// A Results value is not safe for concurrent use.
type Results struct {
	svc        *Service
	query      string
	collection schema.Collection
	cache      *cached
}

type cached struct {
	instances []schema.Instance
	total     int
}

// Query returns the query text.
func (r *Results) Query() string { return r.query }

// Collection returns the searched collection.
func (r *Results) Collection() schema.Collection { return r.collection }

// Results returns the matching instances in relevance order.
func (r *Results) Results(ctx context.Context) ([]schema.Instance, error) {
	c, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]schema.Instance, len(c.instances))
	copy(out, c.instances)
	return out, nil
}

// Count returns the number of matching instances.
func (r *Results) Count(ctx context.Context) (int, error) {
	c, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(c.instances), nil
}

// Total returns the number of hits the search service reported,
// before reconciliation.
func (r *Results) Total(ctx context.Context) (int, error) {
	c, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return c.total, nil
}

// Facet counts matching instances per value of a filter field.
func (r *Results) Facet(ctx context.Context, field string) ([]facet.Count, error) {
	t := r.collection.Type
	f, ok := t.FilterField(field)
	if !ok {
		return nil, &domain.FilterFieldError{Field: field, Type: t.QualifiedName()}
	}
	c, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return facet.Tally(c.instances, f), nil
}

func (r *Results) load(ctx context.Context) (*cached, error) {
	if r.cache != nil {
		return r.cache, nil
	}

	q, params := query.Compile(r.query)
	resp, err := r.svc.searcher.Search(ctx, r.svc.index, q, params)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if resp == nil {
		return nil, domain.NewTransportError("search", errNoResponse)
	}

	ids, pos := r.svc.reconcile(resp.Hits, r.collection.Type)

	var insts []schema.Instance
	if len(ids) > 0 {
		insts, err = r.svc.store.FetchOrdered(ctx, r.collection, ids)
		if err != nil {
			return nil, fmt.Errorf("fetch objects: %w", err)
		}
		insts = order(insts, pos)
	}

	r.cache = &cached{instances: insts, total: resp.NbHits}
	return r.cache, nil
}

// order sorts instances by hit position and drops ids that were not requested.
func order(insts []schema.Instance, pos map[string]int) []schema.Instance {
	out := make([]schema.Instance, 0, len(insts))
	for _, inst := range insts {
		if _, ok := pos[inst.SearchID()]; ok {
			out = append(out, inst)
		}
	}
	slices.SortStableFunc(out, func(a, b schema.Instance) int {
		return pos[a.SearchID()] - pos[b.SearchID()]
	})
	return out
}
