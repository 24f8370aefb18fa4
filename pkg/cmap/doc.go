// Package cmap provides a concurrent string-keyed map split into shards,
// each behind its own RWMutex, to reduce lock contention under many
// concurrent writers.
package cmap
