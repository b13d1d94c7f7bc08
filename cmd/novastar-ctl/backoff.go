package main

import (
	"math/rand"
	"time"
)

// Rescan retry delays after a failed discovery.
const (
	retryInitial = 1 * time.Second
	retryFactor  = 2
	retryJitter  = 0.25
)

// retryBackoff grows the delay between failed rescans, never beyond the
// watch interval.
type retryBackoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
	jitter  float64
	rng     *rand.Rand
}

func newRetryBackoff(initial, max time.Duration) *retryBackoff {
	if initial <= 0 {
		initial = retryInitial
	}
	if initial > max {
		initial = max
	}
	return &retryBackoff{
		initial: initial,
		max:     max,
		current: initial,
		jitter:  retryJitter,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the delay before the next retry and advances the backoff.
func (b *retryBackoff) Next() time.Duration {
	delay := b.current
	if b.jitter > 0 {
		delay += time.Duration(float64(delay) * b.jitter * b.rng.Float64())
	}
	if delay > b.max {
		delay = b.max
	}

	b.current *= retryFactor
	if b.current > b.max {
		b.current = b.max
	}
	return delay
}

// Reset restarts the sequence after a successful rescan.
func (b *retryBackoff) Reset() {
	b.current = b.initial
}
