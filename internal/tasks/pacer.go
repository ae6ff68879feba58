package tasks

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer pauses for a fixed delay after each per-item operation.
type Pacer struct {
	delay time.Duration
}

// NewPacer returns a [Pacer] that sleeps for delay on every Wait.
// A non-positive delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks for the full delay, measured from the call, or until ctx is done.
//
// Time spent on the operation before Wait does not shorten the pause.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.delay <= 0 {
		return ctx.Err()
	}

	limiter := rate.NewLimiter(rate.Every(p.delay), 1)
	limiter.Allow() // drain the burst token so the next one is a full delay away
	return limiter.Wait(ctx)
}
