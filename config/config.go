// Package config centralizes the compile-time tunables for the WAL sync
// boundary. All values are const: nothing here is read from an
// environment variable, a flag, or a config file. The hand-off
// primitives have no notion of runtime reconfiguration, and giving this
// package a mutable surface would just invite a caller to change ring
// capacities or backend knobs out from under a running producer.
//
// Every constant carries a one-line comment justifying its sizing, in
// the style of a fixed overprovisioned production deployment rather
// than a value tuned for a specific benchmark.
package config

// ───────────────────────────── Ring sizing ─────────────────────────────

const (
	// RecordRingCapacity is the SPSC ring depth between a producer
	// goroutine and the dispatcher. 2^14 = 16,384 slots absorbs a burst
	// of several seconds at typical WAL append rates before back-pressure
	// reaches the caller.
	RecordRingCapacity = 1 << 14

	// TaskWrapperRingCapacity is a ring depth sized for heartbeat
	// traffic, which is low-rate and latency-insensitive, so a small ring
	// suffices. The taskwrapper package publishes through a ping-pong
	// buffer and does not read this constant.
	TaskWrapperRingCapacity = 1 << 6
)

// ──────────────────────────── SPMC fan-out ─────────────────────────────

const (
	// MaxDispatchReaders bounds how many backend readers the dispatcher's
	// SPMC snapshot channel can serve concurrently. 63 is the hard
	// ceiling imposed by the channel's uint64 busy bitmask; production
	// deployments run far fewer backends than this.
	MaxDispatchReaders = 63
)

// ─────────────────────────── File backend ──────────────────────────────

const (
	// FsyncEveryN batches durability: the backend calls fsync after this
	// many committed records rather than on every single write. 64
	// bounds worst-case data loss on an unclean shutdown to 64 records
	// while keeping sustained write throughput off the fsync floor.
	FsyncEveryN = 64

	// RecoveryScanLimit caps how many records backend.Recover replays
	// from disk. Rows past the limit are not replayed, and Recover
	// returns no error for them. Set well above any single day's
	// expected volume so a clean restart never hits it.
	RecoveryScanLimit = 10_000_000
)

// ──────────────────────────── Lifecycle ────────────────────────────────

const (
	// DrainTimeoutMillis is a drain-time budget for in-flight records,
	// generous relative to the ring capacities above. Nothing in this
	// module reads it: lifecycle.Lifecycle has no timed shutdown and
	// never forces STOPPED on its own.
	DrainTimeoutMillis = 2000
)

// ───────────────────────────── CLI / bench ─────────────────────────────

const (
	// BenchDefaultIterations is the walctl bench subcommand's default
	// iteration count absent an explicit -n flag. Large enough to
	// amortize timer overhead, small enough to finish in well under a
	// second on typical hardware.
	BenchDefaultIterations = 1_000_000
)
