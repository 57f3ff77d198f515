// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package lamina

import (
	"fmt"
	"io"

	"github.com/cockroachdb/pebble"
)

// reader is the store access shared by both transaction kinds. Table
// handles read through it, so one table type serves snapshots and
// batches alike.
type reader interface {
	active() error
	get(key []byte) ([]byte, io.Closer, error)
	iter(lower, upper []byte) (*pebble.Iterator, error)
	database() *DB
}

// ReadTxn is a point-in-time read transaction. It is not safe for
// concurrent use; open one per goroutine instead, they are cheap.
type ReadTxn struct {
	db   *DB
	snap *pebble.Snapshot
	done bool
}

// Close releases the snapshot. Tables bound to the transaction become
// unusable.
func (t *ReadTxn) Close() error {
	if t.done {
		return ErrClosed
	}
	t.done = true
	if err := t.snap.Close(); err != nil {
		return fmt.Errorf("lamina: closing read transaction: %w", err)
	}
	return nil
}

func (t *ReadTxn) active() error {
	if t.done {
		return ErrClosed
	}
	return nil
}

func (t *ReadTxn) get(key []byte) ([]byte, io.Closer, error) {
	return t.snap.Get(key)
}

func (t *ReadTxn) iter(lower, upper []byte) (*pebble.Iterator, error) {
	return t.snap.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
}

func (t *ReadTxn) database() *DB { return t.db }

// WriteTxn is an atomic write transaction. Nothing it writes is
// visible to other transactions before Commit; its own reads observe
// the pending writes. Not safe for concurrent use.
type WriteTxn struct {
	db    *DB
	batch *pebble.Batch
	done  bool
}

// Commit applies the transaction's writes atomically. Durability
// follows the database's Sync option.
func (t *WriteTxn) Commit() error {
	if t.done {
		return ErrClosed
	}
	t.done = true
	if err := t.batch.Commit(t.db.write); err != nil {
		t.batch.Close()
		return fmt.Errorf("lamina: committing transaction: %w", err)
	}
	if err := t.batch.Close(); err != nil {
		return fmt.Errorf("lamina: closing transaction: %w", err)
	}
	return nil
}

// Discard abandons the transaction's writes. Calling it after Commit
// or a second time is a no-op, so it is safe to defer unconditionally.
func (t *WriteTxn) Discard() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.batch.Close(); err != nil {
		return fmt.Errorf("lamina: discarding transaction: %w", err)
	}
	return nil
}

func (t *WriteTxn) active() error {
	if t.done {
		return ErrClosed
	}
	return nil
}

func (t *WriteTxn) get(key []byte) ([]byte, io.Closer, error) {
	return t.batch.Get(key)
}

func (t *WriteTxn) iter(lower, upper []byte) (*pebble.Iterator, error) {
	return t.batch.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
}

func (t *WriteTxn) database() *DB { return t.db }
