package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sugawarayuuta/sonnet"

	"github.com/UglyPusher/Cncl-RT-WAL/backend"
	"github.com/UglyPusher/Cncl-RT-WAL/record"
)

// dumpedRecord is the JSON projection of a replayed record.Record; the
// payload is base64-encoded by sonnet's []byte handling same as
// encoding/json would.
type dumpedRecord struct {
	GlobalSeq   uint64 `json:"global_seq"`
	ProducerID  uint64 `json:"producer_id"`
	ProducerSeq uint64 `json:"producer_seq"`
	EventType   uint8  `json:"event_type"`
	CommitTS    int64  `json:"commit_ts"`
	EventTS     int64  `json:"event_ts"`
	Payload     []byte `json:"payload"`
}

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	path := fs.String("db", "", "path to the backend database (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("-db is required")
	}

	b, err := backend.Open(*path)
	if err != nil {
		return err
	}
	defer b.Close()

	var out []dumpedRecord
	err = b.Recover(func(rec record.Record) error {
		out = append(out, dumpedRecord{
			GlobalSeq:   rec.GlobalSeq,
			ProducerID:  uint64(rec.ProducerID),
			ProducerSeq: rec.ProducerSeq,
			EventType:   rec.EventType,
			CommitTS:    rec.CommitTS,
			EventTS:     rec.EventTS,
			Payload:     append([]byte(nil), rec.Payload[:]...),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	enc := sonnet.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
