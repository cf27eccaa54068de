// Package backend is the durable sink for records: a SQLite-backed
// append log fed by a caller that drains the producer's ring directly
// (the dispatcher's SPMC channel is last-writer-wins and can skip
// records, so it does not feed this package).
//
// Grounded on the teacher's database/sql + go-sqlite3 usage (open a
// *sql.DB against a file path, panic-free error returns, explicit row
// scanning) but replaces the read-mostly pool-loading queries with a
// write-mostly append log plus a recovery scan.
//
// Durability is batched rather than per-write: SQLite fsyncs on
// transaction commit, so Append wraps config.FsyncEveryN inserts in one
// transaction instead of committing (and fsyncing) on every single
// record. A process crash can therefore lose up to FsyncEveryN records
// that were acknowledged to the dispatcher but not yet committed - the
// envelope's own CRC exists to detect that, never to prevent it.
package backend

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/UglyPusher/Cncl-RT-WAL/config"
	"github.com/UglyPusher/Cncl-RT-WAL/record"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	global_seq INTEGER PRIMARY KEY,
	envelope   BLOB NOT NULL
)`

// Backend is a SQLite-backed append-only store of encoded record
// envelopes. tx and stmt are nil whenever no batch is in progress -
// Open does not start one, since a caller that only ever calls Recover
// (cmd/walctl dump, in particular) has no use for a write transaction.
type Backend struct {
	db      *sql.DB
	tx      *sql.Tx
	stmt    *sql.Stmt
	pending int
}

// Open creates or attaches to the SQLite database at path and ensures
// the records table exists. No write transaction is opened here; the
// first Append call begins one lazily.
func Open(path string) (*Backend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("backend: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("backend: create schema: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) beginBatch() error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("backend: begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO records (global_seq, envelope) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("backend: prepare insert: %w", err)
	}
	b.tx = tx
	b.stmt = stmt
	b.pending = 0
	return nil
}

// Append durably queues rec, committing (and fsyncing) every
// config.FsyncEveryN calls. The caller-assigned rec.GlobalSeq is the
// primary key; appending a duplicate GlobalSeq is a caller error
// surfaced as the underlying UNIQUE constraint failure. The first call
// after Open or after a flush begins a fresh batch transaction.
func (b *Backend) Append(rec record.Record) error {
	if b.tx == nil {
		if err := b.beginBatch(); err != nil {
			return err
		}
	}

	buf := make([]byte, record.Size)
	if err := record.Encode(buf, rec); err != nil {
		return fmt.Errorf("backend: encode record %d: %w", rec.GlobalSeq, err)
	}

	if _, err := b.stmt.Exec(rec.GlobalSeq, buf); err != nil {
		return fmt.Errorf("backend: insert record %d: %w", rec.GlobalSeq, err)
	}

	b.pending++
	if b.pending >= config.FsyncEveryN {
		return b.flush()
	}
	return nil
}

// Flush commits the in-progress batch early, forcing an fsync without
// waiting for FsyncEveryN records to accumulate. A no-op if no records
// are pending - in particular, right after Open, or right after a
// previous Flush, there is no open transaction to commit.
func (b *Backend) Flush() error {
	if b.pending == 0 {
		return nil
	}
	return b.flush()
}

// flush commits the current batch and clears tx/stmt back to nil, so
// the next Append starts a new batch rather than leaving an empty
// transaction open in the meantime.
func (b *Backend) flush() error {
	b.stmt.Close()
	err := b.tx.Commit()
	b.tx = nil
	b.stmt = nil
	b.pending = 0
	if err != nil {
		return fmt.Errorf("backend: commit batch: %w", err)
	}
	return nil
}

// Close flushes any pending batch, rolls back an empty in-flight
// transaction if one was left open by a failed Append, and closes the
// underlying database.
func (b *Backend) Close() error {
	err := b.Flush()
	if b.tx != nil {
		b.tx.Rollback()
		b.tx = nil
	}
	if err != nil {
		b.db.Close()
		return err
	}
	return b.db.Close()
}

// Recover replays stored envelopes in ascending GlobalSeq order,
// invoking fn for each. Replay stops at the first record whose CRC does
// not match or whose version is not supported, per the envelope's own
// recovery contract - the tail of the log past that point is treated as
// an incomplete or corrupt write, not further inspected.
func (b *Backend) Recover(fn func(record.Record) error) error {
	rows, err := b.db.Query(`
		SELECT envelope
		FROM records
		ORDER BY global_seq ASC
		LIMIT ?`, config.RecoveryScanLimit)
	if err != nil {
		return fmt.Errorf("backend: recovery query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var buf []byte
		if err := rows.Scan(&buf); err != nil {
			return fmt.Errorf("backend: scan record: %w", err)
		}

		rec, err := record.Decode(buf)
		if err != nil {
			return fmt.Errorf("backend: decode envelope: %w", err)
		}

		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}
