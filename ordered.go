// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package lamina

import (
	"fmt"

	"github.com/laminadb/lamina/codec"
	"github.com/laminadb/lamina/pipeline"
)

// OrderedDefinition declares a table whose key codec preserves order,
// which is what makes range scans meaningful. The constructor demands
// a codec.OrderedCodec, so the capability is established where the
// table is declared rather than checked on every query.
type OrderedDefinition[K, V any] struct {
	def *Definition[K, V]
}

// NewOrderedDefinition builds an ordered table definition. It applies
// the same name rules as NewDefinition.
func NewOrderedDefinition[K, V any](name string, keyCodec codec.OrderedCodec[K], valuePipeline *pipeline.Pipeline[V]) (*OrderedDefinition[K, V], error) {
	def, err := NewDefinition[K, V](name, keyCodec, valuePipeline)
	if err != nil {
		return nil, err
	}
	return &OrderedDefinition[K, V]{def: def}, nil
}

// Name returns the table name.
func (d *OrderedDefinition[K, V]) Name() string { return d.def.name }

// View binds the definition to a read transaction.
func (d *OrderedDefinition[K, V]) View(txn *ReadTxn) *OrderedTable[K, V] {
	return &OrderedTable[K, V]{Table[K, V]{def: d.def, txn: txn}}
}

// Modify binds the definition to a write transaction.
func (d *OrderedDefinition[K, V]) Modify(txn *WriteTxn) *OrderedTableMut[K, V] {
	return &OrderedTableMut[K, V]{TableMut[K, V]{Table[K, V]{def: d.def, txn: txn, mut: txn}}}
}

// OrderedTable is a read handle over an ordered table. Beyond the
// plain table operations it scans key ranges in ascending order.
type OrderedTable[K, V any] struct {
	Table[K, V]
}

// Range returns an iterator over the half-open key interval
// [lower, upper), ascending. A nil bound leaves that side unbounded.
func (t *OrderedTable[K, V]) Range(lower, upper *K) (*Iter[K, V], error) {
	return rangeIter(t.def, t.txn, lower, upper)
}

// First returns the entry with the smallest key, or a NotFoundError
// when the table is empty.
func (t *OrderedTable[K, V]) First() (Entry[K, V], error) {
	return boundaryEntry(t.def, t.txn, false)
}

// Last returns the entry with the largest key, or a NotFoundError
// when the table is empty.
func (t *OrderedTable[K, V]) Last() (Entry[K, V], error) {
	return boundaryEntry(t.def, t.txn, true)
}

// OrderedTableMut is a write handle over an ordered table.
type OrderedTableMut[K, V any] struct {
	TableMut[K, V]
}

// Range returns an iterator over [lower, upper), ascending, observing
// the transaction's own pending writes.
func (t *OrderedTableMut[K, V]) Range(lower, upper *K) (*Iter[K, V], error) {
	return rangeIter(t.def, t.txn, lower, upper)
}

// First returns the entry with the smallest key, or a NotFoundError
// when the table is empty.
func (t *OrderedTableMut[K, V]) First() (Entry[K, V], error) {
	return boundaryEntry(t.def, t.txn, false)
}

// Last returns the entry with the largest key, or a NotFoundError
// when the table is empty.
func (t *OrderedTableMut[K, V]) Last() (Entry[K, V], error) {
	return boundaryEntry(t.def, t.txn, true)
}

func rangeIter[K, V any](def *Definition[K, V], txn reader, lower, upper *K) (*Iter[K, V], error) {
	if err := txn.active(); err != nil {
		return nil, err
	}
	lo, hi := def.prefix, def.bound
	if lower != nil {
		full, _, err := def.storeKey(*lower)
		if err != nil {
			return nil, err
		}
		lo = full
	}
	if upper != nil {
		full, _, err := def.storeKey(*upper)
		if err != nil {
			return nil, err
		}
		hi = full
	}
	it, err := txn.iter(lo, hi)
	if err != nil {
		return nil, fmt.Errorf("lamina: scanning table %q: %w", def.name, err)
	}
	return &Iter[K, V]{def: def, logger: txn.database().logger, it: it}, nil
}

func boundaryEntry[K, V any](def *Definition[K, V], txn reader, last bool) (Entry[K, V], error) {
	var zero Entry[K, V]
	it, err := rangeIter(def, txn, nil, nil)
	if err != nil {
		return zero, err
	}
	var positioned bool
	if last {
		positioned = it.Last()
	} else {
		positioned = it.First()
	}
	if !positioned {
		if err := it.Close(); err != nil {
			return zero, err
		}
		return zero, &NotFoundError{Table: def.name}
	}
	entry := Entry[K, V]{Key: it.Key(), Value: it.Value()}
	if err := it.Close(); err != nil {
		return zero, err
	}
	return entry, nil
}
