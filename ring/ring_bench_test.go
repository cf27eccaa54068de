// ring_bench_test.go
//
// Benchmarks for four scenarios:
//   - Push      - producer-only enqueue latency
//   - Pop       - consumer-only dequeue latency
//   - PushPop   - round-trip inside one goroutine
//   - CrossCore - producer & consumer pinned to two CPUs
//
// A fixed-capacity ring (1 Ki slots) keeps every benchmark L1/L2-resident.
// If a path would fail (ring full/empty) the loop performs the opposite
// operation once and retries - one extra hop per 1024 iterations,
// negligible in the per-op average.
package ring

import (
	"runtime"
	"testing"
)

const benchCap = 1024

func BenchmarkRing_Push(b *testing.B) {
	r := New[int](benchCap)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !r.Push(i) {
			r.Pop()
			r.Push(i)
		}
	}
}

func BenchmarkRing_Pop(b *testing.B) {
	r := New[int](benchCap)
	for i := 0; i < benchCap-1; i++ {
		r.Push(i)
	}

	var sink int
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, ok := r.Pop()
		if !ok {
			r.Push(i)
			v, _ = r.Pop()
		}
		sink = v
		r.Push(i)
	}
	runtime.KeepAlive(sink)
}

func BenchmarkRing_PushPop(b *testing.B) {
	r := New[int](benchCap)
	for i := 0; i < benchCap/2; i++ {
		r.Push(i)
	}

	var sink int
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, _ := r.Pop()
		sink = v
		r.Push(i)
	}
	runtime.KeepAlive(sink)
}

func BenchmarkRing_CrossCore(b *testing.B) {
	r := New[int](benchCap)

	ready := make(chan struct{})
	done := make(chan struct{})

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		pinToCore(1)
		close(ready)
		for i := 0; i < b.N; i++ {
			for {
				if _, ok := r.Pop(); ok {
					break
				}
				runtime.Gosched()
			}
		}
		close(done)
	}()

	<-ready
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	pinToCore(0)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for !r.Push(i) {
			runtime.Gosched()
		}
	}
	<-done
	b.StopTimer()
}
