package redisserver

import (
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/pkg/cmap"
)

// limiterIdleTTL is how long an address may stay silent before its limiter
// is dropped.
const limiterIdleTTL = 3 * time.Minute

// ipLimiter applies a token-bucket limit per client IP.
type ipLimiter struct {
	limiters *cmap.Map[*ipEntry]
	limit    rate.Limit
	burst    int
	now      func() time.Time
	lastGC   atomic.Int64
}

type ipEntry struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64
}

// newIPLimiter allows perSecond commands per IP with an equal burst.
// It returns nil when perSecond is not positive.
func newIPLimiter(perSecond int) *ipLimiter {
	if perSecond <= 0 {
		return nil
	}
	return &ipLimiter{
		limiters: cmap.New[*ipEntry](),
		limit:    rate.Limit(perSecond),
		burst:    perSecond,
		now:      time.Now,
	}
}

// allow reports whether one more command from ip may run now.
func (l *ipLimiter) allow(ip string) bool {
	if l == nil {
		return true
	}

	now := l.now()
	l.sweep(now)

	e := l.limiters.GetOrCreate(ip, func() *ipEntry {
		return &ipEntry{lim: rate.NewLimiter(l.limit, l.burst)}
	})
	e.lastSeen.Store(now.UnixNano())
	return e.lim.AllowN(now, 1)
}

// sweep drops idle entries at most once per limiterIdleTTL.
func (l *ipLimiter) sweep(now time.Time) {
	last := l.lastGC.Load()
	if now.UnixNano()-last <= int64(limiterIdleTTL) {
		return
	}
	if !l.lastGC.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-limiterIdleTTL).UnixNano()
	l.limiters.DeleteIf(func(_ string, e *ipEntry) bool {
		return e.lastSeen.Load() < cutoff
	})
}

func (l *ipLimiter) size() int {
	return l.limiters.Count()
}

// hostOf strips the port from a remote address.
func hostOf(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
