// Package taskwrapper runs a low-rate heartbeat loop alongside the main
// record producer, publishing its liveness into a dedicated ping-pong
// snapshot buffer so a monitor can read the latest heartbeat without
// contending with the record hot path. The buffer has a single reader
// handle (see Consumer).
//
// Each heartbeat carries a session tag: a BLAKE2b-256 hash of the
// process's session seed, stamped once at construction and repeated on
// every beat. A monitor comparing tags across two heartbeats can tell a
// process restart from a stalled one even if Seq resets.
package taskwrapper

import (
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/UglyPusher/Cncl-RT-WAL/lifecycle"
	"github.com/UglyPusher/Cncl-RT-WAL/snapshot"
)

// Heartbeat is the value published on every beat.
type Heartbeat struct {
	SessionTag [32]byte
	Seq        uint64
	UnixNano   int64
}

// TaskWrapper owns the heartbeat buffer and the session tag for one
// producer's lifetime.
type TaskWrapper struct {
	lc         *lifecycle.Lifecycle
	buf        *snapshot.PingPong[Heartbeat]
	producer   *snapshot.PingPongProducer[Heartbeat]
	sessionTag [32]byte
	seq        uint64
}

// New derives a session tag from seed and returns a TaskWrapper bound to
// lc. seed should be unique per process invocation - a timestamp, a
// random nonce, or a combination of both - so SessionTag changes across
// restarts.
func New(lc *lifecycle.Lifecycle, seed []byte) *TaskWrapper {
	buf := snapshot.NewPingPong[Heartbeat]()
	return &TaskWrapper{
		lc:         lc,
		buf:        buf,
		producer:   buf.NewProducer(),
		sessionTag: blake2b.Sum256(seed),
	}
}

// Consumer returns a reader handle for the heartbeat buffer. Call at
// most once; share the returned handle across monitor goroutines only
// if they serialize their own reads, since PingPongConsumer is
// single-reader by contract.
func (t *TaskWrapper) Consumer() *snapshot.PingPongConsumer[Heartbeat] {
	return t.buf.NewConsumer()
}

// Beat publishes one heartbeat immediately.
func (t *TaskWrapper) Beat() {
	t.seq++
	t.producer.Write(Heartbeat{
		SessionTag: t.sessionTag,
		Seq:        t.seq,
		UnixNano:   time.Now().UnixNano(),
	})
}

// Run beats every interval until the bound lifecycle leaves RUN. Meant
// to be launched with `go`.
func (t *TaskWrapper) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for t.lc.Running() {
		t.Beat()
		<-ticker.C
	}
}
