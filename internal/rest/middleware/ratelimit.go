package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// Public payment-link limits, per client IP
	paymentLinkRate  = rate.Limit(5)
	paymentLinkBurst = 10

	limiterIdleEviction = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket for unauthenticated routes.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewRateLimiter creates a rate limiter for public routes
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
	}
}

// Handler enforces the limit and returns 429 when exceeded
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"message": "Too many requests, please retry later"},
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cl, ok := rl.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(paymentLinkRate, paymentLinkBurst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now

	// Opportunistic eviction keeps the map bounded without a sweeper
	// goroutine.
	for key, entry := range rl.clients {
		if now.Sub(entry.lastSeen) > limiterIdleEviction {
			delete(rl.clients, key)
		}
	}

	return cl.limiter.Allow()
}
