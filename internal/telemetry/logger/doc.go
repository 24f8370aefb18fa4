// Package logger provides structured logging for respkv.
//
// It wraps log/slog:
//
//   - logger.go: configuration, global level control, default logger
//   - context.go: context propagation of loggers and request IDs
//   - truncate.go: caps long string attributes such as echoed payloads
//
// The level is held in a process-wide slog.LevelVar, so SetLevel takes
// effect on every logger built by New, including ones already handed out.
package logger
