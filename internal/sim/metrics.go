package sim

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/structhealth/twinview/pkg/twin"
)

// Metrics exposes simulator metrics that are safe to scrape via Prometheus.
type Metrics struct {
	registry            *prometheus.Registry
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	ticksTotal          prometheus.Counter
	panelsByStatus      *prometheus.GaugeVec
	pingsTotal          prometheus.Counter
}

// NewMetrics creates a fresh registry with HTTP and world metrics registered.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twinview",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests processed by the simulator",
	}, []string{"method", "path", "status"})

	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "twinview",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served by the simulator",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	ticksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "twinview",
		Name:      "world_ticks_total",
		Help:      "Total number of world drift ticks",
	})

	panelsByStatus := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "twinview",
		Name:      "panels_by_status",
		Help:      "Current number of panels per status",
	}, []string{"status"})

	pingsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "twinview",
		Name:      "panel_pings_total",
		Help:      "Total number of accepted panel ping requests",
	})

	registry.MustRegister(
		httpRequests,
		httpRequestDuration,
		ticksTotal,
		panelsByStatus,
		pingsTotal,
	)

	return &Metrics{
		registry:            registry,
		httpRequests:        httpRequests,
		httpRequestDuration: httpRequestDuration,
		ticksTotal:          ticksTotal,
		panelsByStatus:      panelsByStatus,
		pingsTotal:          pingsTotal,
	}
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
}

// IncTick increments the world tick counter.
func (m *Metrics) IncTick() {
	if m == nil {
		return
	}
	m.ticksTotal.Inc()
}

// SetPanelCounts publishes the per-status panel gauge. Statuses absent
// from counts are reset to zero so recovered panels do not linger.
func (m *Metrics) SetPanelCounts(counts map[twin.PanelStatus]int) {
	if m == nil {
		return
	}
	for _, status := range []twin.PanelStatus{twin.PanelGood, twin.PanelWarning, twin.PanelCritical, twin.PanelOffline} {
		m.panelsByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}

// IncPing increments the accepted ping counter.
func (m *Metrics) IncPing() {
	if m == nil {
		return
	}
	m.pingsTotal.Inc()
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
