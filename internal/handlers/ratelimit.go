package handlers

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Per-IP token buckets guarding the credential endpoints against
// brute-force attempts.

const visitorIdleEviction = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		visitors:  make(map[string]*visitor),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (rl *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.sweep(now)

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: now}
		return limiter
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops visitors idle past the eviction window, at most once per
// window. Caller holds the lock; running inline keeps the limiter free
// of background goroutines.
func (rl *ipRateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < visitorIdleEviction {
		return
	}
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdleEviction {
			delete(rl.visitors, ip)
		}
	}
	rl.lastSweep = now
}

// credentialRateLimit returns middleware limiting login/register
// submissions per client IP using the configured rps/burst.
func (h *Handler) credentialRateLimit() gin.HandlerFunc {
	limiter := newIPRateLimiter(h.cfg.RateLimit.RPS, h.cfg.RateLimit.Burst)

	return func(c *gin.Context) {
		ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			ip = c.Request.RemoteAddr
		}
		if !limiter.getLimiter(ip).Allow() {
			c.String(http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
