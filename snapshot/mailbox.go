// ============================================================================
// CLAIM-VERIFY MAILBOX (SPSC, LAST-WRITER-WINS, EXPLICIT READ CLAIM)
// ============================================================================
//
// Two T-slots, like PingPong, but the reader makes its slot claim visible
// to the writer before touching the data. The writer picks its target as
// the complement of whatever lockState currently holds, which by the
// single-reader contract is always either UNLOCKED or the one slot the
// reader is mid-claim on - so the target is always the slot the reader
// cannot be touching. Publish is wait-free and never fails. TryRead backs
// that guarantee up with its own half: claim the published slot, then
// re-check that publication hasn't moved since the claim became visible;
// if it has, the writer raced ahead and the reader reports a miss instead
// of trusting a possibly-overwritten slot.
package snapshot

import (
	"errors"
	"sync/atomic"

	"github.com/UglyPusher/Cncl-RT-WAL/cacheline"
)

// none marks "not yet published" (pubState) or "no active claim"
// (lockState). Valid slot indices are 0 and 1, so 2 is safely outside
// that range.
const none = 2

// ErrMailboxEmpty is returned by TryRead when nothing has been published
// yet.
var ErrMailboxEmpty = errors.New("snapshot: mailbox empty")

// ErrMailboxMiss is returned by TryRead when the writer published a new
// value between the claim and its verification. The claim is released
// before returning; the reader holds its previous (sticky) state and
// should not retry within the same tick.
var ErrMailboxMiss = errors.New("snapshot: mailbox publication race, miss")

// Mailbox is the claim-verify two-slot primitive.
type Mailbox[T any] struct {
	slot0 T
	_     [cacheline.Pad64]byte
	slot1 T
	_     [cacheline.Pad64]byte

	pubState atomic.Uint32
	_        [cacheline.Pad64]byte
	lockState atomic.Uint32
}

// NewMailbox returns a mailbox with nothing published and no active claim.
func NewMailbox[T any]() *Mailbox[T] {
	m := &Mailbox[T]{}
	m.pubState.Store(none)
	m.lockState.Store(none)
	return m
}

// MailboxProducer is the non-copyable producer-role handle.
type MailboxProducer[T any] struct {
	box *Mailbox[T]
	_   noCopy
}

// MailboxConsumer is the non-copyable consumer-role handle.
type MailboxConsumer[T any] struct {
	box *Mailbox[T]
	_   noCopy
}

// NewProducer derives the producer handle. Call at most once per mailbox.
func (m *Mailbox[T]) NewProducer() *MailboxProducer[T] {
	return &MailboxProducer[T]{box: m}
}

// NewConsumer derives the consumer handle. Call at most once per mailbox.
func (m *Mailbox[T]) NewConsumer() *MailboxConsumer[T] {
	return &MailboxConsumer[T]{box: m}
}

// Publish writes value into the slot the reader is not currently holding
// and makes it the new published slot. Wait-free, O(1), never fails.
func (p *MailboxProducer[T]) Publish(value T) {
	box := p.box

	// Step 1: choose the slot the reader cannot currently hold. Default
	// to slot 1 unless the reader is claiming exactly that slot.
	target := uint32(1)
	if box.lockState.Load() == 1 {
		target = 0
	}

	// Step 2: if target is still the published slot, invalidate it
	// before overwriting - target != lockState by construction, so no
	// reader can start a claim on it between here and the write below.
	if box.pubState.Load() == target {
		box.pubState.Store(none)
	}

	// Step 3: write data, then publish.
	if target == 0 {
		box.slot0 = value
	} else {
		box.slot1 = value
	}
	box.pubState.Store(target)
}

// TryRead claims the published slot, verifies the claim wasn't
// invalidated by a racing publish, copies it out, and releases the
// claim. Returns ErrMailboxEmpty if nothing has been published yet, or
// ErrMailboxMiss if a publish raced the claim. lockState is back to none
// before TryRead returns, regardless of outcome.
func (c *MailboxConsumer[T]) TryRead() (T, error) {
	box := c.box
	var zero T

	p1 := box.pubState.Load()
	if p1 == none {
		return zero, ErrMailboxEmpty
	}

	box.lockState.Store(p1)

	// Verify: if the published slot moved between our load and our
	// claim becoming visible, the writer may already have targeted the
	// stale p1 without seeing this claim.
	p2 := box.pubState.Load()
	if p2 != p1 {
		box.lockState.Store(none)
		return zero, ErrMailboxMiss
	}

	var value T
	if p1 == 0 {
		value = box.slot0
	} else {
		value = box.slot1
	}

	box.lockState.Store(none)
	return value, nil
}
