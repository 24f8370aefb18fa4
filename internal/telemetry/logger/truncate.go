package logger

import (
	"log/slog"
	"strconv"
)

// DefaultMaxValueLen is the default cap on logged string values.
const DefaultMaxValueLen = 256

// truncateAttr shortens string values longer than max, recording how many
// bytes were dropped. Groups are walked recursively.
func truncateAttr(a slog.Attr, max int) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if len(s) <= max {
			return a
		}
		return slog.String(a.Key, s[:max]+"...("+strconv.Itoa(len(s)-max)+" more bytes)")
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = truncateAttr(attr, max)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	default:
		return a
	}
}
