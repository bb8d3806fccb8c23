package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	r        rate.Limit
	b        int
	idleTTL  time.Duration
	now      func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		r:        r,
		b:        b,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// GetLimiter returns the limiter of key, creating it on first use.
func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, exists := i.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.visitors[key] = v
	}
	v.lastSeen = i.now()
	return v.limiter
}

// Prune drops limiters idle for longer than idleTTL and returns how many were removed.
func (i *IPRateLimiter) Prune() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	removed := 0
	for k, v := range i.visitors {
		if now.Sub(v.lastSeen) > i.idleTTL {
			delete(i.visitors, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked clients.
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.visitors)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitByIP answers 429 once a client IP exceeds its budget.
func RateLimitByIP(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.GetLimiter(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				response.HandleError(w, auth.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
