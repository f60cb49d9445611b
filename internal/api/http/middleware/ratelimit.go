package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps a token bucket per client IP. Used on the OTP
// request endpoint so a caller cannot mint codes in a tight loop.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rate     rate.Limit
	burst    int
	lastSeen time.Duration
}

// NewRateLimiter allows r requests per second with the given burst.
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		rate:     r,
		burst:    burst,
		lastSeen: 10 * time.Minute,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cl, ok := rl.clients[clientIP]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[clientIP] = cl
	}
	cl.lastAccess = now

	// Opportunistic cleanup of idle clients.
	for ip, other := range rl.clients {
		if now.Sub(other.lastAccess) > rl.lastSeen {
			delete(rl.clients, ip)
		}
	}

	return cl.limiter.Allow()
}
