// ============================================================================
// LOCK-FREE SPSC RING BUFFER
// ============================================================================
//
// Single-producer/single-consumer FIFO queue over a power-of-two slot
// array, generic over the payload type. Collapses what used to be one
// hand-duplicated ring type per fixed payload size into a single
// generic implementation: the sequence-based availability protocol
// doesn't care what T is, only that callers respect the SPSC contract.
//
// Architecture:
//   - Producer-owned tail and consumer-owned head on separate cache
//     lines, eliminating false sharing between the two roles.
//   - Each slot carries its own sequence number. A slot is writable by
//     the producer when seq == tail, and readable by the consumer when
//     seq == head+1. The consumer resets seq to head+len(buf) on pop,
//     marking the slot available again for the producer's next lap.
//   - One slot of the backing array is always held in reserve: usable
//     capacity is one less than the physical slot count. Push reports
//     full once mask elements are queued, never all len(buf).
//   - No CAS loops: both Push and Pop are single-pass, O(1), and never
//     retry internally. Push returns false when full and Pop returns
//     false when empty; the caller decides whether and how to wait.
//
// Safety model:
//   - Single producer, single consumer. Concurrent Push calls (or
//     concurrent Pop calls) corrupt the sequence protocol — this is a
//     contract violation the ring cannot detect at runtime.
package ring

import (
	"runtime"
	"sync/atomic"

	"github.com/UglyPusher/Cncl-RT-WAL/cacheline"
)

type slot[T any] struct {
	val T
	seq atomic.Uint64
}

// Ring is a fixed-capacity SPSC FIFO queue of T.
type Ring[T any] struct {
	_    [cacheline.Pad64]byte
	head atomic.Uint64 // consumer-owned

	_    [cacheline.Pad64 - 8]byte
	tail atomic.Uint64 // producer-owned

	_ [cacheline.Pad64 - 8]byte

	mask uint64
	step uint64
	buf  []slot[T]
}

// New allocates a ring with the given capacity, which must be a power
// of two. Panics otherwise.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("ring: capacity must be >0 and a power of two")
	}

	r := &Ring[T]{
		mask: uint64(capacity - 1),
		step: uint64(capacity),
		buf:  make([]slot[T], capacity),
	}
	for i := range r.buf {
		r.buf[i].seq.Store(uint64(i))
	}
	return r
}

// Push enqueues val. Returns false if the ring is at usable capacity
// (mask elements queued, one slot held in reserve); never blocks, never
// retries internally.
func (r *Ring[T]) Push(val T) bool {
	t := r.tail.Load()
	if t-r.head.Load() >= r.mask {
		return false
	}

	s := &r.buf[t&r.mask]
	if s.seq.Load() != t {
		return false
	}

	s.val = val
	s.seq.Store(t + 1)
	r.tail.Store(t + 1)
	return true
}

// Pop dequeues the oldest value. Returns false if the ring is empty.
func (r *Ring[T]) Pop() (T, bool) {
	h := r.head.Load()
	s := &r.buf[h&r.mask]

	if s.seq.Load() != h+1 {
		var zero T
		return zero, false
	}

	val := s.val
	s.seq.Store(h + r.step)
	r.head.Store(h + 1)
	return val, true
}

// PopWait busy-polls Pop until it succeeds, yielding the processor
// between attempts. Intended for dedicated consumer goroutines where
// blocking synchronization overhead is unacceptable; unsuitable for
// general-purpose code sharing a core with other work.
func (r *Ring[T]) PopWait() T {
	for {
		if v, ok := r.Pop(); ok {
			return v
		}
		runtime.Gosched()
	}
}

// Len returns a snapshot of the number of queued elements. Racy
// against a live producer or consumer; intended for metrics and
// diagnostics, not control flow.
func (r *Ring[T]) Len() int {
	tail := r.tail.Load()
	head := r.head.Load()
	return int(tail - head)
}

// Cap returns the ring's physical slot count, including the one slot
// held in reserve. Most callers want UsableCapacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// UsableCapacity returns the maximum number of elements the ring can
// hold at once - one less than Cap, the reserved slot that keeps Push
// reporting full before every physical slot is occupied.
func (r *Ring[T]) UsableCapacity() int {
	return int(r.mask)
}

// Empty reports whether the ring currently holds no elements. Racy
// against a live producer or consumer; intended for diagnostics, not
// control flow.
func (r *Ring[T]) Empty() bool {
	return r.Len() == 0
}

// Full reports whether the ring is at usable capacity. Racy against a
// live producer or consumer; intended for diagnostics, not control
// flow.
func (r *Ring[T]) Full() bool {
	return r.Len() >= r.UsableCapacity()
}
