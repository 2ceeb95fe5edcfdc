// Package ratelimit provides per-client token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket. Callers hold Limiter.mu.
type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	last       time.Time
}

func (b *bucket) refill(now time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.last).Seconds()*b.refillRate)
	b.last = now
}

// take consumes a token if one is available.
func (b *bucket) take(now time.Time) bool {
	b.refill(now)
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// resetAt returns when the bucket will be full again.
func (b *bucket) resetAt(now time.Time) time.Time {
	missing := b.capacity - b.tokens
	if missing <= 0 || b.refillRate <= 0 {
		return now
	}
	return now.Add(time.Duration(missing / b.refillRate * float64(time.Second)))
}

// Info describes the limit applied to a request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client and rule.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop chan struct{}
	once sync.Once
}

// NewLimiter creates a limiter. A nil config enables a 600/min default limit.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{Enabled: true, DefaultLimit: 600, DefaultWindow: time.Minute}
	}
	if config.IdleAfter <= 0 {
		config.IdleAfter = time.Hour
	}
	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow consumes a token for clientID on the route identified by method and path.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	cfg := l.config
	if !cfg.Enabled || cfg.Allow[clientID] {
		return true, Info{Allowed: true}
	}
	if cfg.Deny[clientID] {
		return false, Info{}
	}

	rule := Match(method, path, cfg.Rules)
	key := clientID + "|*"
	if rule == nil {
		rule = &Rule{Limit: cfg.DefaultLimit, Window: cfg.DefaultWindow}
	} else {
		key = clientID + "|" + rule.Method + " " + rule.Prefix + rule.Suffix
	}
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		capacity := rule.Burst
		if capacity <= 0 {
			capacity = rule.Limit
		}
		b = &bucket{
			capacity:   float64(capacity),
			refillRate: float64(rule.Limit) / rule.Window.Seconds(),
			tokens:     float64(capacity),
			last:       now,
		}
		l.buckets[key] = b
	}
	allowed := b.take(now)
	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: int(b.tokens),
		ResetTime: b.resetAt(now),
	}
	if !allowed && b.refillRate > 0 {
		info.RetryAfter = time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	}
	l.mu.Unlock()

	return allowed, info
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets untouched for longer than IdleAfter.
func (l *Limiter) evictIdle() {
	cutoff := l.now().Add(-l.config.IdleAfter)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.last.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
