package main

import (
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/UglyPusher/Cncl-RT-WAL/config"
	"github.com/UglyPusher/Cncl-RT-WAL/ring"
	"github.com/UglyPusher/Cncl-RT-WAL/snapshot"
	"github.com/UglyPusher/Cncl-RT-WAL/spinwait"
)

// runBench dispatches `walctl bench ring|mailbox|spmc`, each spinning up
// the requested primitive in-process and reporting publisher throughput.
// This is the one place cpuRelax-style spin-backoff (spinwait.Backoff) is
// used, strictly in bench harness code, never inside a primitive itself.
func runBench(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: walctl bench ring|mailbox|spmc [flags]")
	}

	kind, rest := args[0], args[1:]
	switch kind {
	case "ring":
		return runBenchRing(rest)
	case "mailbox":
		return runBenchMailbox(rest)
	case "spmc":
		return runBenchSPMC(rest)
	default:
		return fmt.Errorf("unknown bench target %q, want ring, mailbox, or spmc", kind)
	}
}

// runBenchRing pushes n items through a ring.Ring[uint64] between a
// producer and a dedicated consumer goroutine, both backing off with
// spinwait.Backoff on a miss, and reports round-trip throughput. The
// ring guarantees delivery of every item, so items-received always
// equals n.
func runBenchRing(args []string) error {
	fs := flag.NewFlagSet("bench ring", flag.ExitOnError)
	n := fs.Int("n", config.BenchDefaultIterations, "number of records to push through the ring")
	capacity := fs.Int("cap", 4096, "ring capacity (power of two)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := ring.New[uint64](*capacity)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		backoff := spinwait.New(64)
		var received uint64
		for received < uint64(*n) {
			if _, ok := r.Pop(); ok {
				received++
				backoff.Reset()
				continue
			}
			backoff.Wait()
		}
		close(done)
	}()

	start := time.Now()
	backoff := spinwait.New(64)
	for i := uint64(0); i < uint64(*n); i++ {
		for !r.Push(i) {
			backoff.Wait()
		}
		backoff.Reset()
	}
	<-done
	elapsed := time.Since(start)
	wg.Wait()

	opsPerSec := float64(*n) / elapsed.Seconds()
	fmt.Printf("ring: %d records in %s (%.0f ops/sec)\n", *n, elapsed, opsPerSec)
	return nil
}

// runBenchMailbox publishes n values into a snapshot.Mailbox[uint64] as
// fast as the producer can go, while a reader goroutine polls TryRead
// continuously. Unlike the ring, the mailbox is lossy by design — a
// fast enough producer overwrites values between reads — so the report
// includes both publish throughput and how many successful reads the
// reader made (a value read more than once is counted each time).
func runBenchMailbox(args []string) error {
	fs := flag.NewFlagSet("bench mailbox", flag.ExitOnError)
	n := fs.Int("n", config.BenchDefaultIterations, "number of values to publish")
	if err := fs.Parse(args); err != nil {
		return err
	}

	box := snapshot.NewMailbox[uint64]()
	prod := box.NewProducer()
	cons := box.NewConsumer()

	stop := make(chan struct{})
	var observed uint64
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if _, err := cons.TryRead(); err == nil {
					observed++
				}
			}
		}
	}()

	start := time.Now()
	for i := uint64(0); i < uint64(*n); i++ {
		prod.Publish(i)
	}
	elapsed := time.Since(start)
	close(stop)
	wg.Wait()

	opsPerSec := float64(*n) / elapsed.Seconds()
	fmt.Printf("mailbox: %d publishes in %s (%.0f ops/sec), reader observed %d\n",
		*n, elapsed, opsPerSec, observed)
	return nil
}

// runBenchSPMC publishes n values into a snapshot.SPMCChannel[uint64]
// fanned out to readers concurrent reader goroutines, each polling
// TryRead continuously. Like the mailbox, this is last-writer-wins: the
// report is publish throughput plus each reader's observed count, not a
// delivery guarantee.
func runBenchSPMC(args []string) error {
	fs := flag.NewFlagSet("bench spmc", flag.ExitOnError)
	n := fs.Int("n", config.BenchDefaultIterations, "number of values to publish")
	readers := fs.Int("readers", 4, "number of concurrent reader goroutines")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ch := snapshot.NewSPMCChannel[uint64](*readers)
	prod := ch.NewProducer()

	stop := make(chan struct{})
	observed := make([]uint64, *readers)
	var wg sync.WaitGroup
	wg.Add(*readers)

	for i := 0; i < *readers; i++ {
		i := i
		cons := ch.NewConsumer(i)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					if _, ok := cons.TryRead(); ok {
						observed[i]++
					}
				}
			}
		}()
	}

	start := time.Now()
	for i := uint64(0); i < uint64(*n); i++ {
		prod.Publish(i)
	}
	elapsed := time.Since(start)
	close(stop)
	wg.Wait()

	opsPerSec := float64(*n) / elapsed.Seconds()
	fmt.Printf("spmc: %d publishes in %s (%.0f ops/sec) across %d readers\n",
		*n, elapsed, opsPerSec, *readers)
	for i, count := range observed {
		fmt.Printf("  reader %d observed %d reads\n", i, count)
	}
	return nil
}
