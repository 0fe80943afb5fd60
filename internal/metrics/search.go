package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Hit cache results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Search holds the adapter's collectors. A nil *Search records nothing.
type Search struct {
	transportRequests *prometheus.CounterVec
	transportDuration *prometheus.HistogramVec
	hitsSkipped       *prometheus.CounterVec
	documentsIndexed  prometheus.Counter
	hitCache          *prometheus.CounterVec
}

// NewSearch creates the collectors and registers them with reg,
// reusing collectors that are already registered.
func NewSearch(reg prometheus.Registerer) (*Search, error) {
	m := &Search{
		transportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "searchsync",
			Name:      "transport_requests_total",
			Help:      "Total search service requests by operation and status.",
		}, []string{"op", "status"}),
		transportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "searchsync",
			Name:      "transport_request_duration_seconds",
			Help:      "Search service request duration in seconds.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"op"}),
		hitsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "searchsync",
			Name:      "hits_skipped_total",
			Help:      "Search hits dropped during reconciliation, by reason.",
		}, []string{"reason"}),
		documentsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "searchsync",
			Name:      "documents_indexed_total",
			Help:      "Total documents sent to the search index.",
		}),
		hitCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "searchsync",
			Name:      "hit_cache_total",
			Help:      "Hit cache lookups by result.",
		}, []string{"result"}),
	}
	if err := registerOrReuse(reg, &m.transportRequests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.transportDuration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.hitsSkipped); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.documentsIndexed); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.hitCache); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveTransport records one search service call.
func (m *Search) ObserveTransport(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.transportRequests.WithLabelValues(op, status).Inc()
	m.transportDuration.WithLabelValues(op).Observe(d.Seconds())
}

// SkipHit counts a hit dropped during reconciliation.
func (m *Search) SkipHit(reason string) {
	if m == nil {
		return
	}
	m.hitsSkipped.WithLabelValues(reason).Inc()
}

// Indexed counts documents sent to the index.
func (m *Search) Indexed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.documentsIndexed.Add(float64(n))
}

// CacheResult counts a hit cache lookup.
func (m *Search) CacheResult(result string) {
	if m == nil {
		return
	}
	m.hitCache.WithLabelValues(result).Inc()
}
