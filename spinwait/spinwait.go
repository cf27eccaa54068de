// Package spinwait provides a portable busy-wait backoff helper for the
// walctl bench harness. It is deliberately kept out of ring/ and
// snapshot/: those primitives never spin internally, and wiring a
// backoff policy into them would hide O(1) failures behind a retry the
// spec doesn't call for. This package exists purely so the CLI's
// throughput benchmark can drive a primitive at saturation without
// parking a goroutine on every miss.
//
// No architecture-specific assembly: runtime.Gosched() is enough for a
// benchmark harness and keeps this package buildable everywhere the
// Go toolchain targets, unlike a PAUSE/YIELD instruction hint would be.
package spinwait

import "runtime"

// Backoff is a simple spin-then-yield policy: the first few attempts
// spin tightly (cheap, low latency to notice success), then fall back
// to runtime.Gosched() to avoid starving other goroutines on a
// long-idle wait.
type Backoff struct {
	spins    int
	attempts int
}

// New returns a Backoff that spins tightly for spins attempts before
// yielding on every subsequent one.
func New(spins int) *Backoff {
	return &Backoff{spins: spins}
}

// Wait performs one backoff step. Call it once per failed attempt in a
// retry loop.
func (b *Backoff) Wait() {
	b.attempts++
	if b.attempts > b.spins {
		runtime.Gosched()
	}
}

// Reset clears the attempt counter, ready for another wait cycle.
func (b *Backoff) Reset() {
	b.attempts = 0
}
