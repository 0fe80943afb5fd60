package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/searchsync/internal/domain"
	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
	"github.com/kailas-cloud/searchsync/internal/domain/settings"
)

// --- Mocks ---

type mockTransport struct {
	saveFn     func(ctx context.Context, index string, docs []document.Document) error
	deleteFn   func(ctx context.Context, index, objectID string) error
	settingsFn func(ctx context.Context, index string, s settings.Settings) error
	searchFn   func(ctx context.Context, index, q string, p query.Params) (*query.Response, error)
}

func (m *mockTransport) SaveDocuments(ctx context.Context, index string, docs []document.Document) error {
	return m.saveFn(ctx, index, docs)
}

func (m *mockTransport) DeleteDocument(ctx context.Context, index, objectID string) error {
	return m.deleteFn(ctx, index, objectID)
}

func (m *mockTransport) SetSettings(ctx context.Context, index string, s settings.Settings) error {
	return m.settingsFn(ctx, index, s)
}

func (m *mockTransport) Search(ctx context.Context, index, q string, p query.Params) (*query.Response, error) {
	return m.searchFn(ctx, index, q, p)
}

type observation struct {
	op  string
	err error
}

type mockRecorder struct {
	observed []observation
	indexed  int
}

func (m *mockRecorder) ObserveTransport(op string, _ time.Duration, err error) {
	m.observed = append(m.observed, observation{op: op, err: err})
}

func (m *mockRecorder) Indexed(n int) { m.indexed += n }

func newTestInstrumented(t *testing.T, inner *mockTransport) (*Instrumented, *mockRecorder, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	rec := &mockRecorder{}
	return NewInstrumented(inner, "fake", rec, zap.New(core)), rec, logs
}

// --- Tests ---

func TestInstrumented_SaveDocuments(t *testing.T) {
	inner := &mockTransport{
		saveFn: func(_ context.Context, _ string, _ []document.Document) error { return nil },
	}
	tr, rec, logs := newTestInstrumented(t, inner)

	docs := []document.Document{{"objectID": "a:1"}, {"objectID": "a:2"}}
	if err := tr.SaveDocuments(context.Background(), "idx", docs); err != nil {
		t.Fatalf("SaveDocuments: %v", err)
	}
	if rec.indexed != 2 {
		t.Errorf("indexed = %d", rec.indexed)
	}
	if len(rec.observed) != 1 || rec.observed[0].op != "save" {
		t.Errorf("observed = %v", rec.observed)
	}
	if logs.FilterMessage("Search transport request completed").Len() != 1 {
		t.Error("expected a debug log entry")
	}
}

func TestInstrumented_WrapsErrors(t *testing.T) {
	cause := errors.New("503 service unavailable")
	inner := &mockTransport{
		deleteFn: func(_ context.Context, _, _ string) error { return cause },
	}
	tr, rec, logs := newTestInstrumented(t, inner)

	err := tr.DeleteDocument(context.Background(), "idx", "a:1")
	if !errors.Is(err, domain.ErrTransport) || !errors.Is(err, cause) {
		t.Fatalf("expected TransportError wrapping cause, got %v", err)
	}
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Op != "delete" {
		t.Errorf("TransportError = %+v", te)
	}
	if rec.observed[0].err == nil {
		t.Error("failure not recorded")
	}
	entries := logs.FilterMessage("Search transport request failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error log, got %d", len(entries))
	}
	if entries[0].ContextMap()["object_id"] != "a:1" {
		t.Errorf("log fields = %v", entries[0].ContextMap())
	}
}

func TestInstrumented_SaveErrorNotCounted(t *testing.T) {
	inner := &mockTransport{
		saveFn: func(_ context.Context, _ string, _ []document.Document) error { return errors.New("boom") },
	}
	tr, rec, _ := newTestInstrumented(t, inner)

	if err := tr.SaveDocuments(context.Background(), "idx", []document.Document{{}}); err == nil {
		t.Fatal("expected error")
	}
	if rec.indexed != 0 {
		t.Errorf("indexed = %d, want 0", rec.indexed)
	}
}

func TestInstrumented_Search(t *testing.T) {
	want := &query.Response{Hits: []query.Hit{{"objectID": "a:1"}}, NbHits: 1}
	inner := &mockTransport{
		searchFn: func(_ context.Context, index, q string, _ query.Params) (*query.Response, error) {
			if index != "idx" || q != "apples" {
				t.Errorf("index=%q q=%q", index, q)
			}
			return want, nil
		},
	}
	tr, rec, _ := newTestInstrumented(t, inner)

	_, p := query.Compile("apples")
	got, err := tr.Search(context.Background(), "idx", "apples", p)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got != want {
		t.Errorf("Search() = %v", got)
	}
	if rec.observed[0].op != "search" {
		t.Errorf("op = %q", rec.observed[0].op)
	}
}

func TestInstrumented_SetSettings(t *testing.T) {
	var got settings.Settings
	inner := &mockTransport{
		settingsFn: func(_ context.Context, _ string, s settings.Settings) error {
			got = s
			return nil
		},
	}
	tr, _, _ := newTestInstrumented(t, inner)

	s := settings.Settings{"attributesForFaceting": []string{"locale"}}
	if err := tr.SetSettings(context.Background(), "idx", s); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}
	if got == nil {
		t.Error("settings not forwarded")
	}
}

func TestInstrumented_NilRecorder(t *testing.T) {
	inner := &mockTransport{
		deleteFn: func(_ context.Context, _, _ string) error { return nil },
	}
	tr := NewInstrumented(inner, "fake", nil, nil)
	if err := tr.DeleteDocument(context.Background(), "idx", "a:1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
}
