package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "respkv"

// Registry holds all application metrics.
//
// Methods are safe to call on a nil *Registry, which records nothing.
type Registry struct {
	registry *prometheus.Registry

	CommandsTotal     *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	ProtocolErrors    *prometheus.CounterVec
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns the /metrics handler of the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// NewRegistry creates a registry with the respkv metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands processed, by command name",
		}, []string{"command"}),

		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command dispatch latency in seconds",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"command"}),

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Currently open client connections",
		}),

		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Client connections accepted",
		}),

		ProtocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Decode faults that closed a connection, by kind",
		}, []string{"kind"}),
	}

	r.registry.MustRegister(
		r.CommandsTotal,
		r.CommandDuration,
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.ProtocolErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// MustRegister adds extra collectors, such as a StoreCollector.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	if r == nil {
		return
	}
	r.registry.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}

// ObserveCommand counts one dispatched command and records its latency.
func (r *Registry) ObserveCommand(command string, d time.Duration) {
	if r == nil {
		return
	}
	r.CommandsTotal.WithLabelValues(command).Inc()
	r.CommandDuration.WithLabelValues(command).Observe(d.Seconds())
}

// ConnOpened records an accepted connection.
func (r *Registry) ConnOpened() {
	if r == nil {
		return
	}
	r.ConnectionsTotal.Inc()
	r.ConnectionsActive.Inc()
}

// ConnClosed records a closed connection.
func (r *Registry) ConnClosed() {
	if r == nil {
		return
	}
	r.ConnectionsActive.Dec()
}

// IncProtocolError counts a decode fault of the given kind
// ("protocol" or "limit").
func (r *Registry) IncProtocolError(kind string) {
	if r == nil {
		return
	}
	r.ProtocolErrors.WithLabelValues(kind).Inc()
}
