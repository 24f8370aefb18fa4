// Package shutdown coordinates graceful process termination.
//
// A Handler collects named hooks and runs them in reverse registration
// order, under a shared timeout, once SIGINT or SIGTERM arrives or the
// caller's context ends.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown("redis", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
