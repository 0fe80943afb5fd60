package index

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// --- Mocks ---

type mockWriter struct {
	saved     [][]document.Document
	deleted   []string
	lastIndex string
	saveErr   error
	deleteErr error
}

func (m *mockWriter) SaveDocuments(_ context.Context, index string, docs []document.Document) error {
	m.lastIndex = index
	m.saved = append(m.saved, docs)
	return m.saveErr
}

func (m *mockWriter) DeleteDocument(_ context.Context, index, objectID string) error {
	m.lastIndex = index
	m.deleted = append(m.deleted, objectID)
	return m.deleteErr
}

var pageType = schema.MustType("wagtailcore", "Page", nil, schema.NewText("title", nil))

type page struct {
	id   string
	root bool
}

func (p page) SearchID() string         { return p.id }
func (p page) SearchType() *schema.Type { return pageType }
func (p page) IsRoot() bool             { return p.root }

func (p page) SearchValue(name string) (any, bool) {
	if name == "title" {
		return "Page " + p.id, true
	}
	return nil, false
}

// --- Tests ---

func TestAdd(t *testing.T) {
	w := &mockWriter{}
	svc := New(w, "wagtail", nil)

	if err := svc.Add(context.Background(), page{id: "2"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(w.saved) != 1 || len(w.saved[0]) != 1 {
		t.Fatalf("saved = %v", w.saved)
	}
	if w.saved[0][0].ObjectID() != "wagtailcore.Page:2" {
		t.Errorf("objectID = %q", w.saved[0][0].ObjectID())
	}
	if w.lastIndex != "wagtail" {
		t.Errorf("index = %q", w.lastIndex)
	}
}

func TestAddBulk_SkipsRootInOneCall(t *testing.T) {
	w := &mockWriter{}
	svc := New(w, "wagtail", nil)

	n, err := svc.AddBulk(context.Background(), pageType, []schema.Instance{
		page{id: "1", root: true},
		page{id: "2"},
		page{id: "3"},
	})
	if err != nil {
		t.Fatalf("AddBulk: %v", err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
	if len(w.saved) != 1 {
		t.Fatalf("expected one outbound batch, got %d", len(w.saved))
	}
	batch := w.saved[0]
	if len(batch) != 2 || batch[0].ObjectID() != "wagtailcore.Page:2" || batch[1].ObjectID() != "wagtailcore.Page:3" {
		t.Errorf("batch = %v", batch)
	}
}

func TestAddBulk_EmptyIsNoop(t *testing.T) {
	w := &mockWriter{}
	svc := New(w, "wagtail", nil)

	n, err := svc.AddBulk(context.Background(), pageType, []schema.Instance{page{id: "1", root: true}})
	if err != nil || n != 0 {
		t.Fatalf("AddBulk = %d, %v", n, err)
	}
	if len(w.saved) != 0 {
		t.Error("empty batch must not reach the transport")
	}
}

func TestAddBulk_Error(t *testing.T) {
	w := &mockWriter{saveErr: errors.New("network down")}
	svc := New(w, "wagtail", nil)

	_, err := svc.AddBulk(context.Background(), pageType, []schema.Instance{page{id: "2"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, w.saveErr) {
		t.Errorf("error chain lost cause: %v", err)
	}
}

func TestDelete(t *testing.T) {
	w := &mockWriter{}
	svc := New(w, "wagtail", nil)

	if err := svc.Delete(context.Background(), page{id: "9"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(w.deleted) != 1 || w.deleted[0] != "wagtailcore.Page:9" {
		t.Errorf("deleted = %v", w.deleted)
	}
}

func TestDelete_Error(t *testing.T) {
	w := &mockWriter{deleteErr: errors.New("boom")}
	svc := New(w, "wagtail", nil)

	if err := svc.Delete(context.Background(), page{id: "9"}); !errors.Is(err, w.deleteErr) {
		t.Errorf("Delete error = %v", err)
	}
}
