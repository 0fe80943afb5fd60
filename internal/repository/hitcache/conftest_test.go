package hitcache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/db"
	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
	"github.com/kailas-cloud/searchsync/internal/domain/settings"
)

// mockTransport counts inner calls.
type mockTransport struct {
	resp        *query.Response
	searchErr   error
	writeErr    error
	searchCalls int
	writeCalls  int
}

func (m *mockTransport) SaveDocuments(_ context.Context, _ string, _ []document.Document) error {
	m.writeCalls++
	return m.writeErr
}

func (m *mockTransport) DeleteDocument(_ context.Context, _, _ string) error {
	m.writeCalls++
	return m.writeErr
}

func (m *mockTransport) SetSettings(_ context.Context, _ string, _ settings.Settings) error {
	m.writeCalls++
	return m.writeErr
}

func (m *mockTransport) Search(_ context.Context, _, _ string, _ query.Params) (*query.Response, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.resp, nil
}

// mockKVStore is an in-memory store; the *Fn hooks override behavior.
type mockKVStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getFn  func(ctx context.Context, key string) ([]byte, error)
	setFn  func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	incrFn func(ctx context.Context, key string, val int64) (int64, error)
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockKVStore) IncrBy(ctx context.Context, key string, val int64) (int64, error) {
	if m.incrFn != nil {
		return m.incrFn(ctx, key, val)
	}
	n, _ := strconv.ParseInt(string(m.data[key]), 10, 64)
	n += val
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

type mockRecorder struct{ results []string }

func (m *mockRecorder) CacheResult(result string) { m.results = append(m.results, result) }

func newTestTransport(t *testing.T) (*Transport, *mockTransport, *mockKVStore, *mockRecorder) {
	t.Helper()
	inner := &mockTransport{resp: &query.Response{
		Hits:   []query.Hit{{"objectID": "tests.BlogPage:1"}},
		NbHits: 1,
	}}
	kv := newMockKVStore()
	rec := &mockRecorder{}
	return New(inner, kv, time.Minute, rec, zap.NewNop()), inner, kv, rec
}
