// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// clientIdle is how long an unused per-client limiter is kept
	clientIdle = 10 * time.Minute
	// sweepEvery bounds how often idle clients are looked for
	sweepEvery = time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket each
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
	rps       rate.Limit
	burst     int
	now       func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether the client may make a request now
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now

	if now.Sub(rl.lastSweep) >= sweepEvery {
		rl.sweep(now)
	}

	return c.limiter.AllowN(now, 1)
}

// sweep drops idle clients. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > clientIdle {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects over-limit clients with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			w.Header().Set("Retry-After", "1")
			ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
