// Package httpserver provides the admin HTTP server for respkv.
//
// Endpoints:
//
//   - GET /health: liveness
//   - GET /ready: readiness of the RESP listener
//   - GET /metrics: Prometheus exposition
//
// Every request passes through the RequestID, AccessLog and Recover
// middlewares.
package httpserver
