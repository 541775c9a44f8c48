package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitConfig sets per-client-IP throttling for a route group. PerMinute
// and Burst come from configuration so the auth and code-request groups can
// run different budgets. The per-account code-issuance cooldown is separate
// and lives in the code store.
type RateLimitConfig struct {
	PerMinute float64
	Burst     int
	IdleTTL   time.Duration
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	config  RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.PerMinute <= 0 {
		config.PerMinute = 60
	}
	if config.Burst <= 0 {
		config.Burst = int(config.PerMinute)
		if config.Burst < 1 {
			config.Burst = 1
		}
	}
	return &RateLimiter{
		clients: make(map[string]*clientBucket),
		config:  config,
	}
}

func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	bucket, ok := l.clients[ip]
	if !ok {
		bucket = &clientBucket{
			limiter: rate.NewLimiter(rate.Limit(l.config.PerMinute/60), l.config.Burst),
		}
		l.clients[ip] = bucket
		l.sweep(now)
	}
	bucket.lastSeen = now
	return bucket.limiter.Allow()
}

// sweep drops buckets idle past IdleTTL. Called with the lock held, only on
// new-client inserts, so steady traffic never pays for it.
func (l *RateLimiter) sweep(now time.Time) {
	if l.config.IdleTTL <= 0 {
		return
	}
	cutoff := now.Add(-l.config.IdleTTL)
	for ip, bucket := range l.clients {
		if bucket.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}
