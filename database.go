// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package lamina

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/cockroachdb/pebble"

	"github.com/laminadb/lamina/keyring"
)

// Options configures Open.
type Options struct {
	// Logger receives structured warnings, notably value recoveries
	// and self-healing rewrites, plus the storage engine's own
	// events. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Sync makes commits durable before Commit returns. Off by
	// default: a power failure may lose the most recent commits, but
	// never corrupts what was already on disk.
	Sync bool

	// MasterKey enables per-table encryption key derivation via
	// TableKey. The database borrows the key; Close does not close
	// it.
	MasterKey *keyring.Key
}

// DB is an embedded store of typed tables backed by a sorted
// key-value engine. Safe for concurrent use: any number of read
// transactions may run alongside write transactions, each isolated on
// its own snapshot or batch.
type DB struct {
	store  *pebble.DB
	logger *slog.Logger
	write  *pebble.WriteOptions
	master *keyring.Key
	closed atomic.Bool
}

// Open opens the database in dir, creating it when absent. A nil
// opts selects the defaults.
func Open(dir string, opts *Options) (*DB, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := pebble.Open(dir, &pebble.Options{
		Logger: pebbleLogger{logger},
	})
	if err != nil {
		return nil, fmt.Errorf("lamina: opening store at %s: %w", dir, err)
	}

	write := pebble.NoSync
	if opts.Sync {
		write = pebble.Sync
	}
	return &DB{
		store:  store,
		logger: logger,
		write:  write,
		master: opts.MasterKey,
	}, nil
}

// Close closes the database. Transactions still open become unusable;
// finish them first.
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if err := db.store.Close(); err != nil {
		return fmt.Errorf("lamina: closing store: %w", err)
	}
	return nil
}

// Read opens a read transaction over a point-in-time snapshot. Every
// read through it sees the same store state, regardless of concurrent
// commits.
func (db *DB) Read() (*ReadTxn, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	return &ReadTxn{db: db, snap: db.store.NewSnapshot()}, nil
}

// Write opens a write transaction. Reads through it observe the
// transaction's own pending writes over the current store state. The
// transaction ends with exactly one of Commit or Discard.
func (db *DB) Write() (*WriteTxn, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}
	return &WriteTxn{db: db, batch: db.store.NewIndexedBatch()}, nil
}

// TableKey derives the named table's encryption subkey from the
// master key, so no two tables ever share an AEAD key. The caller
// owns the returned key and closes it.
func (db *DB) TableKey(table string) (*keyring.Key, error) {
	if db.master == nil {
		return nil, errors.New("lamina: no master key configured")
	}
	return db.master.Derive("lamina table " + table)
}

// pebbleLogger forwards the storage engine's log output to slog.
type pebbleLogger struct {
	logger *slog.Logger
}

func (l pebbleLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...), "source", "pebble")
}

func (l pebbleLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), "source", "pebble")
}

func (l pebbleLogger) Fatalf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), "source", "pebble")
	os.Exit(1)
}
