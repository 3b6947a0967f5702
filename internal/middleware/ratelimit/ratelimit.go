// Package ratelimit provides a fixed-window per-client rate limiter used to
// throttle mutating API calls.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
	StaleAfter        time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
		StaleAfter:        10 * time.Minute,
	}
}

// Limiter tracks request counts per client over a one-minute window.
type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*window
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	limit           int
	cleanupInterval time.Duration
	staleAfter      time.Duration
}

type window struct {
	lastRequest time.Time
	requests    int
}

// NewLimiter creates a limiter and starts its background cleanup goroutine.
// Call Stop when done.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config = DefaultConfig()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = 10 * time.Minute
	}

	l := &Limiter{
		clients:         make(map[string]*window),
		stopCleanup:     make(chan struct{}),
		limit:           config.RequestsPerMinute,
		cleanupInterval: config.CleanupInterval,
		staleAfter:      config.StaleAfter,
	}
	go l.startCleanup()
	return l
}

// Allow reports whether a request from the given client should proceed.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.clients[clientIP]

	if !exists {
		l.clients[clientIP] = &window{lastRequest: now, requests: 1}
		return true
	}

	// Reset the window after a minute of inactivity
	if now.Sub(w.lastRequest) > time.Minute {
		w.requests = 1
		w.lastRequest = now
		return true
	}

	w.requests++
	w.lastRequest = now

	return w.requests <= l.limit
}

// ActiveClients returns the number of currently tracked clients
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop shuts down the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.shutdownOnce.Do(func() {
		close(l.stopCleanup)
	})
}

func (l *Limiter) startCleanup() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictStale()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *Limiter) evictStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.staleAfter)
	for ip, w := range l.clients {
		if w.lastRequest.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}
