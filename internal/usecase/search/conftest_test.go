package search

import (
	"context"
	"slices"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
)

// --- Mocks ---

type mockSearcher struct {
	resp   *query.Response
	err    error
	calls  int
	index  string
	query  string
	params query.Params
}

func (m *mockSearcher) Search(_ context.Context, index, q string, p query.Params) (*query.Response, error) {
	m.calls++
	m.index, m.query, m.params = index, q, p
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// mockStore returns matching objects in storage order, ignoring the
// requested order, to exercise the reconciler's own sort.
type mockStore struct {
	objects []schema.Instance
	allow   func(schema.Instance) bool
	err     error
	calls   int
	lastIDs []string
}

func (m *mockStore) FetchOrdered(_ context.Context, c schema.Collection, ids []string) ([]schema.Instance, error) {
	m.calls++
	m.lastIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	var out []schema.Instance
	for _, o := range m.objects {
		if !o.SearchType().IsSubtypeOf(c.Type) || !slices.Contains(ids, o.SearchID()) {
			continue
		}
		if m.allow != nil && !m.allow(o) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type mockSkips struct{ reasons []string }

func (m *mockSkips) SkipHit(reason string) { m.reasons = append(m.reasons, reason) }

// --- Fixtures ---

var (
	pageType  = schema.MustType("wagtailcore", "Page", nil, schema.NewFilter("live", nil))
	blogType  = schema.MustType("tests", "BlogPage", pageType, schema.NewFilter("category", nil))
	eventType = schema.MustType("tests", "EventPage", pageType, schema.NewText("venue", nil))
)

type obj struct {
	id    string
	typ   *schema.Type
	attrs map[string]any
}

func (o *obj) SearchID() string         { return o.id }
func (o *obj) SearchType() *schema.Type { return o.typ }

func (o *obj) SearchValue(name string) (any, bool) {
	v, ok := o.attrs[name]
	return v, ok
}

func newTestRegistry() *schema.Registry {
	reg, err := schema.NewRegistry(pageType, blogType, eventType)
	if err != nil {
		panic(err)
	}
	return reg
}

func hits(ids ...any) *query.Response {
	resp := &query.Response{NbHits: len(ids)}
	for _, id := range ids {
		resp.Hits = append(resp.Hits, query.Hit{"objectID": id})
	}
	return resp
}

func ids(insts []schema.Instance) []string {
	out := make([]string, len(insts))
	for i, inst := range insts {
		out[i] = inst.SearchID()
	}
	return out
}
