// ============================================================================
// PING-PONG SNAPSHOT BUFFER (SPSC, LAST-WRITER-WINS)
// ============================================================================
//
// Two T-slots on separate cache lines, one atomic index selecting which
// slot is currently published. The producer always writes the slot the
// consumer is not reading, then flips the index with a single release
// store. There is no retry loop on either side: both Write and Read
// always succeed and run in O(1).
//
// Safety model:
//   - Single producer, single consumer. A second concurrent writer or
//     reader corrupts the alternation invariant — this is a contract
//     violation the type cannot detect at runtime.
//   - T must be a fixed-size, bit-wise-copyable value: no pointers with
//     side-effecting lifetimes, no embedded synchronization.
package snapshot

import (
	"sync/atomic"

	"github.com/UglyPusher/Cncl-RT-WAL/cacheline"
)

// PingPong holds two generations of T and the index of the published one.
// Producer and consumer handles are derived from it with NewProducer and
// NewConsumer; each may be derived at most once.
type PingPong[T any] struct {
	slot0 T
	_     [cacheline.Pad64]byte
	slot1 T
	_     [cacheline.Pad64]byte

	published atomic.Uint32 // 0 or 1: index of the slot currently visible to the reader
}

// NewPingPong returns a ping-pong buffer in its quiescent state: published
// index 0, both slots zero-valued.
func NewPingPong[T any]() *PingPong[T] {
	return &PingPong[T]{}
}

// PingPongProducer is the non-copyable producer-role handle.
type PingPongProducer[T any] struct {
	buf *PingPong[T]
	_   noCopy
}

// PingPongConsumer is the non-copyable consumer-role handle.
type PingPongConsumer[T any] struct {
	buf *PingPong[T]
	_   noCopy
}

// NewProducer derives the producer handle. Call at most once per buffer.
func (b *PingPong[T]) NewProducer() *PingPongProducer[T] {
	return &PingPongProducer[T]{buf: b}
}

// NewConsumer derives the consumer handle. Call at most once per buffer.
func (b *PingPong[T]) NewConsumer() *PingPongConsumer[T] {
	return &PingPongConsumer[T]{buf: b}
}

// Write publishes value as the newest snapshot. Always succeeds; wait-free;
// bounded by one copy of T plus three atomic operations.
func (p *PingPongProducer[T]) Write(value T) {
	buf := p.buf
	cur := buf.published.Load()
	next := cur ^ 1
	if next == 0 {
		buf.slot0 = value
	} else {
		buf.slot1 = value
	}
	buf.published.Store(next)
}

// Read returns the most recently published snapshot. Always succeeds. A
// read before any Write observes a zero-valued T — the type carries no
// "no data yet" flag; layer that in the caller if needed.
func (c *PingPongConsumer[T]) Read() T {
	buf := c.buf
	idx := buf.published.Load()
	if idx == 0 {
		return buf.slot0
	}
	return buf.slot1
}

// noCopy embeds into handle types to let `go vet` flag accidental copies
// via go vet's copylocks check (it implements sync.Locker's shape).
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
