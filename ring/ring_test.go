package ring

import (
	"runtime"
	"testing"
	"time"
)

// TestNewPanicsOnBadSize verifies that the constructor rejects capacities
// that are either non-power-of-two or <= 0.
func TestNewPanicsOnBadSize(t *testing.T) {
	bad := []int{0, 3, 1000}
	for _, sz := range bad {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("New(%d) should panic", sz)
				}
			}()
			_ = New[int](sz)
		}()
	}
}

// TestPushPopRoundTrip performs a minimal sanity round-trip on a size-8
// ring: push one element, pop it, confirm the ring is empty afterwards.
func TestPushPopRoundTrip(t *testing.T) {
	r := New[[32]byte](8)
	val := [32]byte{1, 2, 3}

	if !r.Push(val) {
		t.Fatal("first push must succeed")
	}
	got, ok := r.Pop()
	if !ok || got != val {
		t.Fatalf("got (%v, %v), want (%v, true)", got, ok, val)
	}
	if _, ok := r.Pop(); ok {
		t.Fatal("ring should now be empty")
	}
}

// TestPushFailsWhenFull fills the ring to its usable capacity (one slot
// short of the physical capacity 16 has 15 usable: push 15 items, and
// the 16th push returns false) and checks that a further Push returns
// false (non-blocking back-pressure).
func TestPushFailsWhenFull(t *testing.T) {
	r := New[int](16)
	for i := 0; i < 15; i++ {
		if !r.Push(i) {
			t.Fatalf("push %d unexpectedly failed", i)
		}
	}
	if !r.Full() {
		t.Fatal("ring should report Full() after 15 pushes into capacity 16")
	}
	if r.Push(99) {
		t.Fatal("push into full ring should return false")
	}
}

// TestPopWaitBlocksUntilItem launches a goroutine that pushes after a
// tiny delay, then asserts PopWait blocks and eventually returns it.
func TestPopWaitBlocksUntilItem(t *testing.T) {
	r := New[int](2)
	const want = 42

	go func() {
		time.Sleep(5 * time.Millisecond)
		r.Push(want)
	}()

	if got := r.PopWait(); got != want {
		t.Fatalf("PopWait() = %d, want %d", got, want)
	}
}

// TestPopEmptyReturnsFalse confirms Pop on an empty ring returns false.
func TestPopEmptyReturnsFalse(t *testing.T) {
	r := New[int](4)
	if _, ok := r.Pop(); ok {
		t.Fatal("Pop on empty ring returned ok = true")
	}
}

// TestWrapAround exercises more than mask+1 iterations to ensure
// head/tail wrap correctly and masking math is sound.
func TestWrapAround(t *testing.T) {
	const size = 4
	r := New[byte](size)
	for i := 0; i < 10; i++ {
		val := byte(i)
		if !r.Push(val) {
			t.Fatalf("push %d failed unexpectedly", i)
		}
		got, ok := r.Pop()
		if !ok || got != val {
			t.Fatalf("iteration %d: got (%v, %v), want (%v, true)", i, got, ok, val)
		}
	}
}

func TestLenAndCap(t *testing.T) {
	r := New[int](8)
	if r.Cap() != 8 {
		t.Fatalf("Cap() = %d, want 8", r.Cap())
	}
	if r.UsableCapacity() != 7 {
		t.Fatalf("UsableCapacity() = %d, want 7", r.UsableCapacity())
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	if !r.Empty() {
		t.Fatal("Empty() = false on a freshly created ring")
	}
	r.Push(1)
	r.Push(2)
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if r.Empty() {
		t.Fatal("Empty() = true with 2 elements queued")
	}
	r.Pop()
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

// TestFullReflectsUsableCapacityNotPhysicalCapacity confirms Full()
// trips at usable capacity, one slot before the backing array is
// physically full.
func TestFullReflectsUsableCapacityNotPhysicalCapacity(t *testing.T) {
	r := New[int](4)
	for i := 0; i < r.UsableCapacity(); i++ {
		if r.Full() {
			t.Fatalf("Full() = true early, after %d of %d usable slots", i, r.UsableCapacity())
		}
		if !r.Push(i) {
			t.Fatalf("push %d unexpectedly failed", i)
		}
	}
	if !r.Full() {
		t.Fatal("Full() = false at usable capacity")
	}
	if r.Push(99) {
		t.Fatal("push past usable capacity should fail")
	}
}

// TestConcurrentPushPopNoLossNoDuplicationInOrder is the ring's SPSC
// stress test: a producer goroutine pushes a long monotonically
// increasing run of values while a consumer goroutine drains them
// concurrently, both spinning (with a Gosched backoff) on a miss rather
// than retrying in a tight busy-loop. Every value popped must equal the
// next expected value in sequence - no loss, no duplication, no
// reordering - and the total number of pops must equal the number of
// pushes.
func TestConcurrentPushPopNoLossNoDuplicationInOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test skipped in short mode")
	}

	const n = 200000
	r := New[uint64](256)

	done := make(chan struct{})
	go func() {
		for i := uint64(0); i < n; i++ {
			for !r.Push(i) {
				runtime.Gosched()
			}
		}
		close(done)
	}()

	for next := uint64(0); next < n; next++ {
		var got uint64
		var ok bool
		for {
			if got, ok = r.Pop(); ok {
				break
			}
			runtime.Gosched()
		}
		if got != next {
			t.Fatalf("pop %d returned %d, want %d (loss, duplication, or reorder)", next, got, next)
		}
	}

	<-done
	if _, ok := r.Pop(); ok {
		t.Fatal("ring should be empty after draining exactly n pushes")
	}
}
