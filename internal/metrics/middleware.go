package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const unmatchedRoute = "unmatched"

// HTTP holds the API server collectors.
type HTTP struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

// NewHTTP creates the HTTP collectors and registers them with reg.
func NewHTTP(reg prometheus.Registerer) (*HTTP, error) {
	m := &HTTP{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "searchsync",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by route",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "route"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "searchsync",
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"method", "route", "code"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "searchsync",
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),
	}
	if err := registerOrReuse(reg, &m.requestDuration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.requestsTotal); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.inFlight); err != nil {
		return nil, err
	}
	return m, nil
}

// Middleware records latency, status codes and in-flight requests per chi route pattern.
func (m *HTTP) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routeLabel(r)
			m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		})
	}
}

// routeLabel reads the matched pattern after routing. Unrouted paths share
// one label so arbitrary URLs cannot grow the series count.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	switch p := rctx.RoutePattern(); p {
	case "", "/*":
		return unmatchedRoute
	default:
		return p
	}
}
