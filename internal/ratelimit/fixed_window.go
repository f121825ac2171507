// Package ratelimit throttles public contact-form submissions per client
// identifier.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter gates submissions per client identifier. Allow reports whether
// the identifier is still under quota, consuming one slot when it is.
type Limiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
}

// FixedWindow counts submissions per identifier in fixed windows held in
// process memory. State is lost on restart and is not shared across
// instances; use RedisLimiter when running more than one.
type FixedWindow struct {
	mu        sync.Mutex
	entries   map[string]*windowEntry
	window    time.Duration
	threshold int
	now       func() time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewFixedWindow creates a limiter allowing threshold submissions per
// window per identifier.
func NewFixedWindow(window time.Duration, threshold int) *FixedWindow {
	fw := &FixedWindow{
		entries:   make(map[string]*windowEntry),
		window:    window,
		threshold: threshold,
		now:       time.Now,
	}
	// Periodically evict expired entries to prevent memory growth.
	go fw.cleanup()
	return fw
}

// Allow implements Limiter. A fresh or expired window is replaced with
// count 1; a window at the threshold is left untouched.
func (f *FixedWindow) Allow(ctx context.Context, identifier string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	e, ok := f.entries[identifier]
	if !ok || now.After(e.resetAt) {
		f.entries[identifier] = &windowEntry{count: 1, resetAt: now.Add(f.window)}
		return true, nil
	}
	if e.count >= f.threshold {
		return false, nil
	}
	e.count++
	return true, nil
}

func (f *FixedWindow) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		f.mu.Lock()
		now := f.now()
		for id, e := range f.entries {
			if now.After(e.resetAt) {
				delete(f.entries, id)
			}
		}
		f.mu.Unlock()
	}
}
