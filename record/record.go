// Package record implements the fixed 64-byte log-record envelope that
// crosses the SPSC/SPMC hand-off boundary between a producer, the
// dispatcher, and the backend. The payload rides inline in the last 14
// bytes of the envelope - there is no out-of-band payload blob - which
// is what keeps every primitive in ring/ and snapshot/ operating over a
// fixed-size T.
//
// Wire layout (64 bytes, little-endian):
//
//	offset  size  field
//	0       4     CRC        (CRC-32C over bytes [4:64))
//	4       1     Version    (fixed at 2)
//	5       1     EventType
//	6       1     Flags
//	7       1     ProducerID
//	8       8     GlobalSeq
//	16      8     CommitTS    (100us ticks, coordinator time)
//	24      8     EventTS     (100us ticks, producer time)
//	32      8     ProducerSeq
//	40      10    reserved, must be zero
//	50      14    Payload
package record

import (
	"encoding/binary"
	"errors"

	"github.com/UglyPusher/Cncl-RT-WAL/crc32c"
)

// Size is the fixed wire size of an envelope in bytes.
const Size = 64

// PayloadSize is the number of inline payload bytes the envelope carries.
const PayloadSize = 14

// Version is the only envelope format this package encodes and the only
// one Decode accepts.
const Version = 2

// ErrCRCMismatch is returned by Decode when the header CRC does not
// match the bytes it covers — the envelope is corrupt or truncated.
var ErrCRCMismatch = errors.New("record: CRC mismatch")

// ErrUnsupportedVersion is returned by Decode when the Version field
// does not match Version.
var ErrUnsupportedVersion = errors.New("record: unsupported version")

// ErrShortBuffer is returned by Encode/Decode when the supplied buffer
// is smaller than Size.
var ErrShortBuffer = errors.New("record: buffer shorter than record.Size")

// Record is the decoded form of one envelope. It is a fixed-size value
// type, suitable as the T parameter of ring.Ring and the snapshot
// primitives.
type Record struct {
	EventType   uint8
	Flags       uint8
	ProducerID  uint8
	GlobalSeq   uint64
	CommitTS    int64
	EventTS     int64
	ProducerSeq uint64
	Payload     [PayloadSize]byte
}

// Encode writes r into buf[:Size] as a complete, checksummed envelope.
// Returns ErrShortBuffer if buf is too small.
func Encode(buf []byte, r Record) error {
	if len(buf) < Size {
		return ErrShortBuffer
	}

	buf[4] = Version
	buf[5] = r.EventType
	buf[6] = r.Flags
	buf[7] = r.ProducerID
	binary.LittleEndian.PutUint64(buf[8:16], r.GlobalSeq)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(r.CommitTS))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(r.EventTS))
	binary.LittleEndian.PutUint64(buf[32:40], r.ProducerSeq)
	for i := 40; i < 50; i++ {
		buf[i] = 0
	}
	copy(buf[50:64], r.Payload[:])

	sum := crc32c.Checksum(buf[4:Size], 0)
	binary.LittleEndian.PutUint32(buf[0:4], sum)
	return nil
}

// Decode parses and validates an envelope from buf[:Size]. Returns
// ErrShortBuffer, ErrCRCMismatch, or ErrUnsupportedVersion before
// returning a zero Record on any failure.
func Decode(buf []byte) (Record, error) {
	var r Record
	if len(buf) < Size {
		return r, ErrShortBuffer
	}

	wantCRC := binary.LittleEndian.Uint32(buf[0:4])
	gotCRC := crc32c.Checksum(buf[4:Size], 0)
	if gotCRC != wantCRC {
		return r, ErrCRCMismatch
	}

	if buf[4] != Version {
		return r, ErrUnsupportedVersion
	}

	r.EventType = buf[5]
	r.Flags = buf[6]
	r.ProducerID = buf[7]
	r.GlobalSeq = binary.LittleEndian.Uint64(buf[8:16])
	r.CommitTS = int64(binary.LittleEndian.Uint64(buf[16:24]))
	r.EventTS = int64(binary.LittleEndian.Uint64(buf[24:32]))
	r.ProducerSeq = binary.LittleEndian.Uint64(buf[32:40])
	copy(r.Payload[:], buf[50:64])
	return r, nil
}
