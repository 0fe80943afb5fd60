package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSearch_ObserveTransport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewSearch(reg)
	if err != nil {
		t.Fatalf("NewSearch: %v", err)
	}

	m.ObserveTransport("search", 10*time.Millisecond, nil)
	m.ObserveTransport("search", 10*time.Millisecond, errors.New("boom"))
	m.ObserveTransport("save", time.Millisecond, nil)

	if got := testutil.ToFloat64(m.transportRequests.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("search/ok = %v", got)
	}
	if got := testutil.ToFloat64(m.transportRequests.WithLabelValues("search", "error")); got != 1 {
		t.Errorf("search/error = %v", got)
	}
	if got := testutil.CollectAndCount(m.transportDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestSearch_Counters(t *testing.T) {
	m, err := NewSearch(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewSearch: %v", err)
	}

	m.SkipHit("malformed")
	m.SkipHit("malformed")
	m.Indexed(3)
	m.Indexed(0)
	m.CacheResult(CacheHit)

	if got := testutil.ToFloat64(m.hitsSkipped.WithLabelValues("malformed")); got != 2 {
		t.Errorf("hits_skipped = %v", got)
	}
	if got := testutil.ToFloat64(m.documentsIndexed); got != 3 {
		t.Errorf("documents_indexed = %v", got)
	}
	if got := testutil.ToFloat64(m.hitCache.WithLabelValues(CacheHit)); got != 1 {
		t.Errorf("hit_cache = %v", got)
	}
}

func TestNewSearch_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewSearch(reg)
	if err != nil {
		t.Fatalf("first NewSearch: %v", err)
	}
	b, err := NewSearch(reg)
	if err != nil {
		t.Fatalf("second NewSearch: %v", err)
	}

	a.Indexed(1)
	b.Indexed(1)
	if got := testutil.ToFloat64(a.documentsIndexed); got != 2 {
		t.Errorf("shared counter = %v, want 2", got)
	}
}

func TestSearch_NilSafe(t *testing.T) {
	var m *Search
	m.ObserveTransport("search", time.Second, nil)
	m.SkipHit("x")
	m.Indexed(1)
	m.CacheResult(CacheMiss)
}
