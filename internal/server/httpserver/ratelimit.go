package httpserver

import (
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/reviewgate/internal/core/domain"
	"github.com/yndnr/reviewgate/internal/telemetry/logger"
	"github.com/yndnr/reviewgate/pkg/cmap"
)

// Limiter registry tuning.
const (
	limiterIdleTTL    = 10 * time.Minute
	limiterPruneEvery = 1024
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// LimiterRegistry holds one token bucket per client key.
type LimiterRegistry struct {
	limiters *cmap.Map[string, *limiterEntry]
	limit    rate.Limit
	burst    int
	calls    atomic.Uint64
	now      func() time.Time
}

// NewLimiterRegistry creates a registry allowing perSecond sustained
// requests with the given burst per key.
func NewLimiterRegistry(perSecond float64, burst int) *LimiterRegistry {
	if burst < 1 {
		burst = int(math.Max(1, math.Ceil(perSecond)))
	}
	return &LimiterRegistry{
		limiters: cmap.New[string, *limiterEntry](),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether key may proceed now. When it may not, it also
// returns the delay until the next token.
func (r *LimiterRegistry) Allow(key string) (bool, time.Duration) {
	now := r.now()
	e := r.getOrCreate(key, now)

	if r.calls.Add(1)%limiterPruneEvery == 0 {
		r.Prune(limiterIdleTTL)
	}

	res := e.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Prune drops limiters idle for longer than idle and returns how many.
func (r *LimiterRegistry) Prune(idle time.Duration) int {
	cutoff := r.now().Add(-idle).UnixNano()
	return r.limiters.DeleteWhere(func(_ string, e *limiterEntry) bool {
		return e.lastSeen.Load() < cutoff
	})
}

// Len returns the number of tracked keys.
func (r *LimiterRegistry) Len() int {
	return r.limiters.Count()
}

// getOrCreate returns key's entry marked as seen at now. A new entry is
// stamped before it is published so Prune never sees it unstamped.
func (r *LimiterRegistry) getOrCreate(key string, now time.Time) *limiterEntry {
	stamp := now.UnixNano()
	var fresh *limiterEntry
	for {
		if e, ok := r.limiters.Get(key); ok {
			e.lastSeen.Store(stamp)
			return e
		}
		if fresh == nil {
			fresh = &limiterEntry{limiter: rate.NewLimiter(r.limit, r.burst)}
			fresh.lastSeen.Store(stamp)
		}
		if r.limiters.SetIfAbsent(key, fresh) {
			return fresh
		}
	}
}

// RateLimit rejects requests from a client IP that exceeds the registry's
// budget with RG-SYS-4290 and a Retry-After header. The client IP is the one
// RequestID resolved; without it only the direct peer address is used.
func RateLimit(reg *LimiterRegistry) Middleware {
	return func(next http.Handler) http.Handler {
		if reg == nil || reg.limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := logger.ClientIPFromContext(r.Context())
			if ip == "" {
				ip = ClientIP(r, nil)
			}
			ok, delay := reg.Allow(ip)
			if !ok {
				secs := int(math.Ceil(delay.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeError(w, r, http.StatusTooManyRequests, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
