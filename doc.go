// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package lamina is an embedded transactional store for typed values
// with a per-table transformation pipeline.
//
// A table is declared once as a [Definition] pairing a key codec with
// a value pipeline (package pipeline): on write a value is
// serialized, then optionally compressed, encrypted, and protected
// with error-correcting parity; reads reverse the stages. Every
// stored value carries descriptors for the stages that produced it,
// so a reader validates what is actually on disk against its own
// configuration instead of trusting it.
//
// All access happens through transactions. [DB.Read] opens a
// point-in-time snapshot, [DB.Write] an atomic batch that observes
// its own pending writes. Table handles are bound to one transaction
// and end with it:
//
//	db, err := lamina.Open(dir, nil)
//	if err != nil { ... }
//	defer db.Close()
//
//	events, err := lamina.NewOrderedDefinition("events", codec.Uint64Key{}, eventPipeline)
//	if err != nil { ... }
//
//	txn, err := db.Write()
//	if err != nil { ... }
//	defer txn.Discard()
//	if err := events.Modify(txn).Insert(42, evt); err != nil { ... }
//	if err := txn.Commit(); err != nil { ... }
//
// [OrderedDefinition] requires an order-preserving key codec and in
// exchange offers Range, First, and Last; a plain [Definition]
// accepts any codec and scans in encoded-key order. The distinction
// lives in the type system, so an unordered table cannot be range
// scanned by accident.
//
// Reads of values the protection stage had to rebuild from parity are
// logged, and under a write transaction the table rewrites the
// repaired encoding in place, healing the damage instead of decoding
// it again on every read.
//
// Key exports:
//
//   - [DB], [Open], [Options] -- the store itself
//   - [ReadTxn], [WriteTxn] -- transactions
//   - [Definition], [OrderedDefinition] -- table declarations
//   - [Table], [TableMut], [OrderedTable], [OrderedTableMut] -- live
//     handles
//   - [Iter] -- double-ended iterator over scans and ranges
//   - [NotFoundError], [ErrClosed] -- the error surface
package lamina
