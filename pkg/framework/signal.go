package framework

import (
	"context"
	"time"
)

// Signal is a saturating binary signal: any number of Notify calls
// made while nobody waits collapse into one pending wake-up, and a
// single Wait consumes it.
// The zero value is not usable, create one with NewSignal.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a Signal with nothing pending.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Notify implements Notifier. It never blocks.
func (s *Signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Wait implements Waiter. It returns nil after consuming the pending
// wake-up, or ctx.Err() if the context is done first.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports whether a wake-up is pending.
func (s *Signal) Pending() bool {
	return len(s.ch) > 0
}

// Sleep pauses for d, returning early with ctx.Err() when ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
