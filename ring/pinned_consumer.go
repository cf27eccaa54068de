// pinned_consumer.go
//
// Low-latency dedicated consumer for a Ring.
//
//   - Runs on its own OS thread, optionally pinned to a CPU core.
//   - Stays in hot-spin (tight loop, no yield) while the producer
//     keeps signaling activity within hotSpinGrace of the last delivered
//     item.
//   - Once the grace window lapses and activity has gone quiet, it
//     drops to cold-spin: runtime.Gosched() between polls to avoid
//     burning a full core on an idle feed.
//   - Exits once stop is observed and closes done exactly once.
//
// All cross-goroutine state is a *atomic.Bool; no other synchronization
// appears in the hot path.
package ring

import (
	"runtime"
	"sync/atomic"
	"time"
)

const (
	hotSpinGrace = 15 * time.Second
)

// PinnedConsumer drains r on a dedicated goroutine until stop reports
// true, invoking fn for every item. hot, when true, keeps the consumer
// in a tight spin regardless of how long it has been idle — set it from
// the producer side during a known burst to avoid the cold-spin
// transition's extra latency. core pins the OS thread via pinToCore
// when core >= 0; pass -1 to skip affinity pinning.
func PinnedConsumer[T any](core int, r *Ring[T], hot, stop *AtomicFlag, fn func(T), done chan<- struct{}) {
	go func() {
		runtime.LockOSThread()
		if core >= 0 {
			pinToCore(core)
		}
		defer func() {
			runtime.UnlockOSThread()
			close(done)
		}()

		last := time.Now()

		for {
			if v, ok := r.Pop(); ok {
				fn(v)
				last = time.Now()
				continue
			}

			if stop.Load() {
				return
			}

			if hot.Load() || time.Since(last) <= hotSpinGrace {
				continue // hot-spin: no yield
			}

			runtime.Gosched() // cold-spin: be a good neighbor
		}
	}()
}

// AtomicFlag is a minimal boolean handle shared between PinnedConsumer
// and its producer. A caller driving a lifecycle.Lifecycle alongside a
// Ring mirrors state transitions into one of these with Store.
type AtomicFlag struct {
	v atomic.Bool
}

// NewAtomicFlag returns a flag initialized to initial.
func NewAtomicFlag(initial bool) *AtomicFlag {
	f := &AtomicFlag{}
	f.v.Store(initial)
	return f
}

// Load reports the flag's current value.
func (f *AtomicFlag) Load() bool {
	return f.v.Load()
}

// Store sets the flag's value.
func (f *AtomicFlag) Store(v bool) {
	f.v.Store(v)
}
