package algolia

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
	"github.com/kailas-cloud/searchsync/internal/domain/settings"
)

// --- Mocks ---

type mockIndex struct {
	saved    interface{}
	deleted  string
	settings search.Settings
	query    string
	opts     []interface{}
	res      search.QueryRes
	err      error
}

func (m *mockIndex) SaveObjects(objects interface{}, _ ...interface{}) (search.GroupBatchRes, error) {
	m.saved = objects
	return search.GroupBatchRes{}, m.err
}

func (m *mockIndex) DeleteObject(objectID string, _ ...interface{}) (search.DeleteTaskRes, error) {
	m.deleted = objectID
	return search.DeleteTaskRes{}, m.err
}

func (m *mockIndex) SetSettings(s search.Settings, _ ...interface{}) (search.UpdateTaskRes, error) {
	m.settings = s
	return search.UpdateTaskRes{}, m.err
}

func (m *mockIndex) Search(q string, opts ...interface{}) (search.QueryRes, error) {
	m.query = q
	m.opts = opts
	return m.res, m.err
}

func newTestClient(t *testing.T, idx *mockIndex) (*Client, *[]string) {
	t.Helper()
	var opened []string
	return &Client{open: func(name string) index {
		opened = append(opened, name)
		return idx
	}}, &opened
}

// --- Tests ---

func TestSaveDocuments(t *testing.T) {
	idx := &mockIndex{}
	c, opened := newTestClient(t, idx)

	docs := []document.Document{{"objectID": "tests.BlogPage:1"}}
	if err := c.SaveDocuments(context.Background(), "wagtail", docs); err != nil {
		t.Fatalf("SaveDocuments: %v", err)
	}
	if !reflect.DeepEqual(idx.saved, docs) {
		t.Errorf("saved = %v", idx.saved)
	}
	if !reflect.DeepEqual(*opened, []string{"wagtail"}) {
		t.Errorf("opened = %v", *opened)
	}
}

func TestDeleteDocument(t *testing.T) {
	idx := &mockIndex{}
	c, _ := newTestClient(t, idx)

	if err := c.DeleteDocument(context.Background(), "wagtail", "tests.BlogPage:1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if idx.deleted != "tests.BlogPage:1" {
		t.Errorf("deleted = %q", idx.deleted)
	}
}

func TestSetSettings(t *testing.T) {
	idx := &mockIndex{}
	c, _ := newTestClient(t, idx)

	s := settings.Settings{
		"attributesForFaceting": []string{"filterOnly(wagtail_managed)", "locale", "model"},
	}
	if err := c.SetSettings(context.Background(), "wagtail", s); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}
	if idx.settings.AttributesForFaceting == nil {
		t.Fatal("attributesForFaceting not converted")
	}
	want := []string{"filterOnly(wagtail_managed)", "locale", "model"}
	if got := idx.settings.AttributesForFaceting.Get(); !reflect.DeepEqual(got, want) {
		t.Errorf("attributesForFaceting = %v", got)
	}
}

func TestSetSettings_Unencodable(t *testing.T) {
	c, _ := newTestClient(t, &mockIndex{})

	err := c.SetSettings(context.Background(), "wagtail", settings.Settings{"bad": make(chan int)})
	if err == nil {
		t.Fatal("expected encode error")
	}
}

func TestSearch(t *testing.T) {
	idx := &mockIndex{res: search.QueryRes{
		Hits: []map[string]interface{}{
			{"objectID": "tests.BlogPage:1"},
			{"objectID": "tests.BlogPage:2"},
		},
		NbHits:      2,
		NbPages:     1,
		HitsPerPage: 20,
	}}
	c, _ := newTestClient(t, idx)

	q, p := query.Compile("Apples")
	resp, err := c.Search(context.Background(), "wagtail", q, p)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if idx.query != "Apples" {
		t.Errorf("query = %q", idx.query)
	}
	if len(idx.opts) != 4 {
		t.Fatalf("opts = %d, want ctx + 3 options", len(idx.opts))
	}
	if f, ok := idx.opts[1].(*opt.FiltersOption); !ok || f.Get() != "wagtail_managed:true" {
		t.Errorf("filters option = %#v", idx.opts[1])
	}
	if a, ok := idx.opts[2].(*opt.AttributesToRetrieveOption); !ok || !reflect.DeepEqual(a.Get(), []string{"objectID"}) {
		t.Errorf("attributesToRetrieve option = %#v", idx.opts[2])
	}

	if resp.NbHits != 2 || resp.HitsPerPage != 20 || len(resp.Hits) != 2 {
		t.Errorf("response = %+v", resp)
	}
	if id, _ := resp.Hits[1].ObjectID(); id != "tests.BlogPage:2" {
		t.Errorf("hits[1] = %v", resp.Hits[1])
	}
}

func TestErrorsAreWrapped(t *testing.T) {
	cause := errors.New("403 invalid api key")
	c, _ := newTestClient(t, &mockIndex{err: cause})
	ctx := context.Background()

	if err := c.SaveDocuments(ctx, "wagtail", nil); !errors.Is(err, cause) {
		t.Errorf("SaveDocuments error = %v", err)
	}
	if err := c.DeleteDocument(ctx, "wagtail", "x:1"); !errors.Is(err, cause) {
		t.Errorf("DeleteDocument error = %v", err)
	}
	if err := c.SetSettings(ctx, "wagtail", settings.Settings{}); !errors.Is(err, cause) {
		t.Errorf("SetSettings error = %v", err)
	}
	_, p := query.Compile("x")
	if _, err := c.Search(ctx, "wagtail", "x", p); !errors.Is(err, cause) {
		t.Errorf("Search error = %v", err)
	}
}
