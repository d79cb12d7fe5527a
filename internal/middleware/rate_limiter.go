package middleware

import (
	"net/http"
	"sync"
	"time"

	"restopos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// visitor is one client's token bucket.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps a token bucket per client IP. Idle entries are purged by
// Purge, which the server calls periodically.
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	now      func() time.Time
}

// NewIPLimiter allows burst requests at once and then one every interval.
func NewIPLimiter(interval time.Duration, burst int) *IPLimiter {
	return &IPLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(interval),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *IPLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = l.now()
	return v.limiter.AllowN(v.lastSeen, 1)
}

// Purge drops visitors idle for longer than idle and returns how many went.
func (l *IPLimiter) Purge(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-idle)
	purged := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.visitors)).Msg("rate limiter purged")
	}
	return purged
}

// ── Login rate limiter ────────────────────────────────────────────────────────

// LoginRateLimiter limits PIN attempts per IP: a burst of 5, then one every
// 3 seconds (20 per minute sustained).
func LoginRateLimiter(l *IPLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// NewLoginLimiter returns the limiter LoginRateLimiter expects.
func NewLoginLimiter() *IPLimiter { return NewIPLimiter(3*time.Second, 5) }

// ── General API rate limiter ──────────────────────────────────────────────────

// RateLimiter is the general-purpose per-IP limiter for the rest of the API.
func RateLimiter(l *IPLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
