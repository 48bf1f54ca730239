package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/diagnosis/founder-playbook/internal/http/response"
	"github.com/diagnosis/founder-playbook/internal/repo/postgres"
	"github.com/diagnosis/founder-playbook/pkg/logger"
)

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Scope    string                         // Prefix keeping separate limits apart
	Requests int                            // Max requests per window
	Window   time.Duration                  // Time window duration
	KeyFunc  func(r *http.Request) []string // Function to generate rate limit keys
	SkipFunc func(r *http.Request) bool     // Function to skip rate limiting
}

// RateLimiter provides rate limiting functionality
type RateLimiter struct {
	repo   postgres.RateLimitRepo
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(repo postgres.RateLimitRepo, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKeyFunc
	}
	return &RateLimiter{
		repo:   repo,
		config: config,
	}
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.config.Requests <= 0 || (rl.config.SkipFunc != nil && rl.config.SkipFunc(r)) {
				next.ServeHTTP(w, r)
				return
			}

			for _, key := range rl.config.KeyFunc(r) {
				if !rl.allow(r.Context(), key) {
					w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.config.Window.Seconds())))
					response.RateLimit(w, "Too many attempts. Please try again later.")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allow fails open: a store error never locks visitors out.
func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	count, err := rl.repo.Hit(ctx, rl.config.Scope+":"+key, rl.config.Window)
	if err != nil {
		logger.WarnContext(ctx, "Rate limit check failed, allowing request", "error", err, "scope", rl.config.Scope)
		return true
	}
	return count <= rl.config.Requests
}

// ClientIPKeyFunc limits by client IP.
func ClientIPKeyFunc(r *http.Request) []string {
	if ip := ClientIP(r); ip != "" {
		return []string{"ip:" + ip}
	}
	return nil
}

// ClientIP is the peer address of the connection. Forwarded headers are only
// honored when the router mounts chi's RealIP, which rewrites RemoteAddr.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
