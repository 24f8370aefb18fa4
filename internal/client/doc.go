// Package client is a small RESP client for respkv servers.
//
// A Client owns one TCP connection and runs one request at a time. Pool
// shares a bounded set of Clients between goroutines using
// go-commons-pool, in the same way a cluster node keeps a pool per peer.
package client
