// Package ratelimit bounds outbound Things commands to a sliding-window
// call budget. Things silently drops or errors commands beyond an
// undocumented threshold, so every dispatch - original or compensating -
// must go through the same limiter before the external call is issued.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Defaults matching the observed Things URL scheme limit.
const (
	DefaultMaxCalls = 250
	DefaultWindow   = 10 * time.Second
)

// CapacityError is returned by Acquire when the call budget is exhausted.
// It is always recoverable: the caller can retry after RetryAfter.
type CapacityError struct {
	MaxCalls   int
	Window     time.Duration
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *CapacityError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d calls in %s window, retry after %s",
		e.MaxCalls, e.Window, e.RetryAfter)
}

// IsCapacityError returns true if the error is a CapacityError.
// Uses errors.As to handle wrapped errors.
func IsCapacityError(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}

// Limiter enforces a maximum number of calls per trailing time window.
//
// The limiter never blocks or sleeps internally: Acquire fails fast with a
// CapacityError and the caller decides whether to surface it or retry after
// WaitTime. Safe for concurrent use, though the CLI issues calls
// sequentially.
type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    []time.Time

	// now is swappable for deterministic tests.
	now func() time.Time
}

// New creates a limiter with the given budget. Non-positive arguments fall
// back to the package defaults.
func New(maxCalls int, window time.Duration) *Limiter {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
	}
}

// prune discards call timestamps that have left the trailing window.
// Callers must hold mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}

// CanAcquire reports whether a call would currently be admitted.
// It does not record a call.
func (l *Limiter) CanAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls) < l.maxCalls
}

// Acquire records one call, or fails with a CapacityError if the budget is
// already exhausted. It never waits.
func (l *Limiter) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.prune(now)
	if len(l.calls) >= l.maxCalls {
		return &CapacityError{
			MaxCalls:   l.maxCalls,
			Window:     l.window,
			RetryAfter: l.waitTime(now),
		}
	}
	l.calls = append(l.calls, now)
	return nil
}

// WaitTime returns how long until the oldest in-window call expires.
// Zero when the limiter is under budget. Callers use this to report a
// retry delay; the limiter never sleeps on their behalf.
func (l *Limiter) WaitTime() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.prune(now)
	return l.waitTime(now)
}

// waitTime computes the delay until capacity frees. Callers must hold mu
// and have pruned already.
func (l *Limiter) waitTime(now time.Time) time.Duration {
	if len(l.calls) < l.maxCalls {
		return 0
	}
	d := l.calls[0].Add(l.window).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// RemainingCapacity returns how many calls the current window still admits.
func (l *Limiter) RemainingCapacity() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	remaining := l.maxCalls - len(l.calls)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears all recorded calls. Administrative/test-only.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = l.calls[:0]
}

// defaultLimiter is the process-wide instance shared by callers that do
// not construct their own. It exists as a convenience; components accept
// an injected *Limiter and tests construct isolated instances.
var (
	defaultMu      sync.Mutex
	defaultLimiter = New(DefaultMaxCalls, DefaultWindow)
)

// Default returns the process-wide limiter.
func Default() *Limiter {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLimiter
}

// ResetDefault reinitializes the process-wide limiter. Test isolation:
// state recorded by one test must not leak into the next.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLimiter = New(DefaultMaxCalls, DefaultWindow)
}
