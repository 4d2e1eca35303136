package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per client IP. The check-in surface is the
// only rate-limited group: the floor scanner sits behind one shared IP, so
// rps and burst are tuned for a shared device rather than per-client use.
type RateLimiter struct {
	mu    sync.Mutex
	rps   rate.Limit
	burst int
	ttl   time.Duration
	byIP  map[string]*ipLimiter
	swept time.Time
}

type ipLimiter struct {
	limiter *rate.Limiter
	seen    time.Time
}

func NewRateLimiter(rps float64, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		rps:   rate.Limit(rps),
		burst: burst,
		ttl:   ttl,
		byIP:  make(map[string]*ipLimiter),
		swept: time.Now(),
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Sweep stale entries inline instead of keeping a background goroutine.
	if now.Sub(rl.swept) > rl.ttl {
		for addr, l := range rl.byIP {
			if now.Sub(l.seen) > rl.ttl {
				delete(rl.byIP, addr)
			}
		}
		rl.swept = now
	}

	l, ok := rl.byIP[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.byIP[ip] = l
	}
	l.seen = now

	return l.limiter.Allow()
}

func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	rl := NewRateLimiter(rps, burst, 3*time.Minute)

	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
