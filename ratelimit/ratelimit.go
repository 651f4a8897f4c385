// Package ratelimit provides the per-client limiter guarding the public
// submission endpoint. It is injected where needed rather than living as
// package-level state, so tests can swap in their own policy.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(key string) bool
}

// PerClient keeps one token bucket per client key, refilling at
// limit/window. Buckets idle for longer than the window are pruned on the
// next pass.
type PerClient struct {
	mu      sync.Mutex
	clients map[string]*client
	rate    rate.Limit
	burst   int
	window  time.Duration
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func PerClientLimiter(limit int, window time.Duration) *PerClient {
	return &PerClient{
		clients: make(map[string]*client),
		rate:    rate.Every(window / time.Duration(limit)),
		burst:   limit,
		window:  window,
	}
}

func (l *PerClient) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > l.window {
			delete(l.clients, k)
		}
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// Unlimited allows everything. Used when rate limiting is disabled and as a
// stand-in for tests.
type Unlimited struct{}

func (Unlimited) Allow(string) bool { return true }
