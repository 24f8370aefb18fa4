// Package main provides the entry point for respkv-server.
//
// respkv-server serves a small Redis-compatible subset (PING, ECHO, GET,
// SET with PX) over RESP from an in-memory store, plus an admin HTTP
// endpoint for health and Prometheus metrics.
//
// Usage:
//
//	respkv-server --config /etc/respkv/server.yaml
//	respkv-server --addr 0.0.0.0:6379 --log-level debug
//
// Configuration is read from the YAML file, then RESPKV_* environment
// variables, then flags. Changing log.level in the file takes effect
// without a restart.
package main
