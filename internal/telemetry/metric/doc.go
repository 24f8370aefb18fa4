// Package metric provides Prometheus metrics for respkv.
//
//   - prometheus.go: registry, command and connection metrics, HTTP handler
//   - collector.go: store collector exporting key counts at scrape time
//
// Metrics are exposed at /metrics on the admin HTTP server.
package metric
