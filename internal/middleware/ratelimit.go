package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

// RateLimit returns a per-client-IP limiter, intended for the credential
// endpoints. Idle entries are swept during request handling, so the
// middleware owns no background goroutine.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		clients   = make(map[string]*limiterEntry)
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			ip = c.Request.RemoteAddr
		}

		mu.Lock()
		now := time.Now()
		if now.Sub(lastSweep) > limiterSweepInterval {
			for key, entry := range clients {
				if now.Sub(entry.last) > limiterIdleTTL {
					delete(clients, key)
				}
			}
			lastSweep = now
		}

		entry, ok := clients[ip]
		if !ok {
			entry = &limiterEntry{limiter: rate.NewLimiter(rps, burst)}
			clients[ip] = entry
		}
		entry.last = now
		mu.Unlock()

		if !entry.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests.",
			})
			return
		}
		c.Next()
	}
}
