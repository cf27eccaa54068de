// Package cacheline provides the shared layout constant used by every
// hand-off primitive to keep producer-touched and consumer-touched fields
// on separate cache lines.
//
// Correctness of the primitives in snapshot/ and ring/ never depends on
// this separation — it only keeps false sharing (and the jitter it causes
// on a real-time producer) off the hot path.
package cacheline

// Size is the assumed cache line width in bytes. 64 covers essentially
// every x86-64 and arm64 part in production; targets with a different
// line size still function correctly, they just don't get the isolation
// benefit.
const Size = 64

// Pad64 is the size, in bytes, of a full isolation line. Embed it as
// `_ [cacheline.Pad64]byte` between two fields that must not share a
// line.
const Pad64 = Size
