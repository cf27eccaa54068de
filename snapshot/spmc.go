// ============================================================================
// SPMC SNAPSHOT CHANNEL (SINGLE PRODUCER, N CONSUMERS, LAST-WRITER-WINS)
// ============================================================================
//
// Generalizes PingPong to N independent readers sharing one producer. K =
// N+1 slots. Each reader holds at most one slot claimed at a time, so at
// any instant at most N of the K slots are claimed — the safe-slot lemma:
// a free slot for the writer always exists, because the busy set the
// writer samples can never reach K.
//
// A reader's claim is a two-step "claim, then verify" just like Mailbox:
// load the published index, announce the claim, then re-check the
// published index. If it moved, a writer may have raced ahead of the
// claim becoming visible and already overwritten the slot the reader
// loaded — the reader reports a miss rather than trust a possibly
// overwritten slot. Neither side ever retries or blocks: the writer is
// wait-free by the safe-slot lemma, and the reader is wait-free because
// a verify failure is a direct return, not a loop.
package snapshot

import (
	"sync/atomic"

	"github.com/UglyPusher/Cncl-RT-WAL/cacheline"
)

// maxSPMCReaders bounds N so the busy set fits in a uint64 bitmask.
const maxSPMCReaders = 63

// noSlot marks a reader as not currently claiming any slot.
const noSlot = ^uint32(0)

// spmcSlot pads one data slot out to its own cache line, the same
// isolation PingPong and Mailbox get from placing each slot behind an
// explicit padding field - here done per-element since the slot count
// is runtime-sized (K = readers+1) rather than fixed at two.
type spmcSlot[T any] struct {
	val T
	_   [cacheline.Pad64]byte
}

// SPMCChannel is the N-reader snapshot primitive.
type SPMCChannel[T any] struct {
	slots []spmcSlot[T]

	lastPublished atomic.Uint32
	preferred     uint32 // producer-only, no concurrent access

	readerClaim []atomic.Uint32 // one entry per reader, value in [0,k) or noSlot
}

// NewSPMCChannel returns a channel sized for readers concurrent consumers,
// backed by readers+1 slots. Panics if readers is out of [1, 63].
func NewSPMCChannel[T any](readers int) *SPMCChannel[T] {
	if readers < 1 || readers > maxSPMCReaders {
		panic("snapshot: SPMCChannel readers out of range [1,63]")
	}
	k := readers + 1
	ch := &SPMCChannel[T]{
		slots:       make([]spmcSlot[T], k),
		readerClaim: make([]atomic.Uint32, readers),
	}
	ch.lastPublished.Store(noSlot)
	for i := range ch.readerClaim {
		ch.readerClaim[i].Store(noSlot)
	}
	return ch
}

// SPMCProducer is the non-copyable producer-role handle.
type SPMCProducer[T any] struct {
	ch *SPMCChannel[T]
	_  noCopy
}

// SPMCConsumer is the non-copyable, per-reader-slot consumer handle.
type SPMCConsumer[T any] struct {
	ch    *SPMCChannel[T]
	index int
	_     noCopy
}

// NewProducer derives the producer handle. Call at most once per channel.
func (ch *SPMCChannel[T]) NewProducer() *SPMCProducer[T] {
	return &SPMCProducer[T]{ch: ch}
}

// NewConsumer derives the consumer handle for reader slot index. index
// must be in [0, readers) and used by exactly one goroutine; each index
// may be claimed by NewConsumer at most once.
func (ch *SPMCChannel[T]) NewConsumer(index int) *SPMCConsumer[T] {
	if index < 0 || index >= len(ch.readerClaim) {
		panic("snapshot: SPMCChannel consumer index out of range")
	}
	return &SPMCConsumer[T]{ch: ch, index: index}
}

// busySet returns the set of slot indices currently claimed by any
// reader, as a bitmask over slot indices (not reader indices).
func (ch *SPMCChannel[T]) busySet() uint64 {
	var busy uint64
	for i := range ch.readerClaim {
		if s := ch.readerClaim[i].Load(); s != noSlot {
			busy |= 1 << s
		}
	}
	return busy
}

// Publish writes value into a slot no reader currently holds and makes
// it the newest snapshot. Always succeeds in O(k); never blocks on a
// reader.
func (p *SPMCProducer[T]) Publish(value T) {
	ch := p.ch
	k := uint32(len(ch.slots))
	busy := ch.busySet()

	target := ch.preferred
	for i := uint32(0); i < k; i++ {
		candidate := (ch.preferred + i) % k
		if busy&(1<<candidate) == 0 {
			target = candidate
			break
		}
	}
	// The safe-slot lemma guarantees the loop above always finds a
	// candidate: at most len(readerClaim) = k-1 slots can be busy.

	ch.slots[target].val = value
	ch.lastPublished.Store(target)
	ch.preferred = (target + 1) % k
}

// TryRead returns the most recently published snapshot. Returns false
// if nothing has ever been published, or if a publish raced the claim -
// readers miss silently and never retry or block.
func (c *SPMCConsumer[T]) TryRead() (T, bool) {
	ch := c.ch
	claim := &ch.readerClaim[c.index]

	var zero T
	idx := ch.lastPublished.Load()
	if idx == noSlot {
		return zero, false
	}

	claim.Store(idx)

	// Verify: if the published slot moved between our load and our
	// claim becoming visible, a writer may already have targeted the
	// stale idx without seeing this claim. Release the claim and report
	// a miss rather than trust a possibly-overwritten slot.
	if ch.lastPublished.Load() != idx {
		claim.Store(noSlot)
		return zero, false
	}

	value := ch.slots[idx].val
	claim.Store(noSlot)
	return value, true
}
