// Package redisserver provides the RESP-compatible TCP server for respkv.
//
// Each accepted connection gets its own goroutine. Bytes read from the
// socket are fed to a resp.Stream, every completed top-level token is
// passed to the Dispatcher in order, and the replies are flushed once per
// read.
//
// Supported commands:
//   - PING
//   - ECHO <message>
//   - GET <key>
//   - SET <key> <value> [PX <milliseconds>]
//
// Anything else is answered +OK unless strict mode is enabled.
package redisserver
