package rate

import (
	"sync"
	"time"
)

// Config holds login limiter tuning parameters.
type Config struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

// attempt tracks failed logins from one origin address. lockedUntil != 0
// implies count >= MaxAttempts. Timestamps are epoch milliseconds.
type attempt struct {
	count        int
	firstAttempt int64
	lockedUntil  int64
}

// Limiter throttles failed login attempts per origin address inside a
// sliding window, escalating to a timed lockout when the attempt budget is
// exhausted. It has no fallible path: it degrades to "allow" only through
// the absence of a record, never by swallowing an error.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string]attempt
	config   Config
	now      func() int64
}

// New creates a login [Limiter] with the given configuration.
func New(cfg Config) *Limiter {
	return &Limiter{
		attempts: make(map[string]attempt),
		config:   cfg,
		now:      epochMillis,
	}
}

func epochMillis() int64 {
	return time.Now().UnixMilli()
}

// Allow reports whether a login attempt from the address is admitted.
// Records whose lockout or window has lapsed are purged on the way.
func (l *Limiter) Allow(address string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.attempts[address]
	if !ok {
		return true
	}

	now := l.now()
	if a.lockedUntil > 0 && now < a.lockedUntil {
		return false
	}
	if a.lockedUntil > 0 && now >= a.lockedUntil {
		delete(l.attempts, address)
		return true
	}
	if now-a.firstAttempt > l.config.Window.Milliseconds() {
		delete(l.attempts, address)
		return true
	}

	return a.count < l.config.MaxAttempts
}

// RecordFailure counts a failed login from the address. A fresh record (or
// one whose window has lapsed) restarts at count 1; reaching MaxAttempts
// arms the lockout.
func (l *Limiter) RecordFailure(address string) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.attempts[address]
	if !ok || now-existing.firstAttempt > l.config.Window.Milliseconds() {
		l.attempts[address] = attempt{count: 1, firstAttempt: now}
		return
	}

	existing.count++
	if existing.count >= l.config.MaxAttempts {
		existing.lockedUntil = now + l.config.Lockout.Milliseconds()
	}
	l.attempts[address] = existing
}

// Reset clears the record for the address. Called on successful login.
func (l *Limiter) Reset(address string) {
	l.mu.Lock()
	delete(l.attempts, address)
	l.mu.Unlock()
}

// Sweep removes records past their lockout or, when not locked, past
// their attempt window. Called by the periodic reclaimer.
func (l *Limiter) Sweep() {
	now := l.now()

	l.mu.Lock()
	for address, a := range l.attempts {
		if a.lockedUntil > 0 {
			if now >= a.lockedUntil {
				delete(l.attempts, address)
			}
			continue
		}
		if now-a.firstAttempt > l.config.Window.Milliseconds() {
			delete(l.attempts, address)
		}
	}
	l.mu.Unlock()
}

// Len reports the number of tracked addresses.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}
