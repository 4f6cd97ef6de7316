package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// KeyedLimiter keeps one token bucket per key (session id).
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyedEntry
	rate     rate.Limit
	burst    int
	idle     time.Duration
}

type keyedEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter allows r events per second with bursts of b for every key.
func NewKeyedLimiter(r rate.Limit, b int) *KeyedLimiter {
	return &KeyedLimiter{
		limiters: make(map[string]*keyedEntry),
		rate:     r,
		burst:    b,
		idle:     10 * time.Minute,
	}
}

// GetLimiter returns the limiter for key, creating it on first use.
func (l *KeyedLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		e = &keyedEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

func (l *KeyedLimiter) Allow(key string) bool {
	return l.GetLimiter(key).Allow()
}

// Prune forgets keys unused for longer than the idle window.
func (l *KeyedLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := time.Now().Add(-l.idle)
	n := 0
	for k, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, k)
			n++
		}
	}
	return n
}

// Run prunes every interval until ctx is done.
func (l *KeyedLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Prune(); n > 0 {
				log.Debug().Str("module", "middleware.ratelimit").Int("pruned", n).Msg("pruned idle limiters")
			}
		}
	}
}

func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimit rejects requests from a session over its budget with 429.
// Must run after SessionID.
func RateLimit(l *KeyedLimiter) gin.HandlerFunc {
	return RateLimitFunc(l, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	})
}

// RateLimitFunc hands requests over budget to reject, which must abort the chain.
func RateLimitFunc(l *KeyedLimiter, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := string(SID(c))
		if sid == "" {
			sid = c.ClientIP()
		}
		if !l.Allow(sid) {
			log.Warn().Str("module", "middleware.ratelimit").Str("sid", sid).Str("path", c.FullPath()).Msg("rate limited")
			reject(c)
			return
		}
		c.Next()
	}
}
