package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type window struct {
	start time.Time
	count int
}

// RateLimiter counts requests per client IP in fixed windows.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  period,
	}
}

// allow records a request from ip and reports whether it is within the limit,
// plus how long until the current window resets.
func (rl *RateLimiter) allow(ip string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[ip]
	if !ok || now.Sub(w.start) >= rl.window {
		w = &window{start: now}
		rl.clients[ip] = w
		rl.sweep(now)
	}
	w.count++
	return w.count <= rl.limit, rl.window - now.Sub(w.start)
}

// sweep drops expired windows. Callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, w := range rl.clients {
		if now.Sub(w.start) >= rl.window {
			delete(rl.clients, ip)
		}
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, retry := rl.allow(ip, time.Now())
		if !ok {
			log.Warnf("[RateLimiter] %s exceeded %d requests on %s", ip, rl.limit, c.FullPath())
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too Many Requests",
				"message": "Rate limit exceeded. Please wait before making more requests.",
			})
			return
		}
		c.Next()
	}
}

var (
	GlobalRateLimiter = NewRateLimiter(100, time.Minute)
	StrictRateLimiter = NewRateLimiter(10, time.Minute) // contact form and login
)
