// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package lamina

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"

	"github.com/laminadb/lamina/buffer"
	"github.com/laminadb/lamina/codec"
	"github.com/laminadb/lamina/pipeline"
)

// Definition declares a typed table: a name, a key codec, and a value
// pipeline. Definitions are immutable and shared; binding one to a
// transaction with View or Modify yields a live handle scoped to that
// transaction.
//
// Keys are stored as the table name, a NUL separator, and the encoded
// key, which keeps each table in its own contiguous key range.
type Definition[K, V any] struct {
	name     string
	keyCodec codec.Codec[K]
	pipeline *pipeline.Pipeline[V]
	prefix   []byte
	bound    []byte
}

// NewDefinition builds a table definition. Names must be non-empty
// and free of NUL bytes, which delimit the name in stored keys.
func NewDefinition[K, V any](name string, keyCodec codec.Codec[K], valuePipeline *pipeline.Pipeline[V]) (*Definition[K, V], error) {
	if name == "" {
		return nil, errors.New("lamina: table name is empty")
	}
	if strings.IndexByte(name, 0x00) >= 0 {
		return nil, fmt.Errorf("lamina: table name %q contains a NUL byte", name)
	}
	if keyCodec == nil {
		return nil, fmt.Errorf("lamina: table %q has no key codec", name)
	}
	if valuePipeline == nil {
		return nil, fmt.Errorf("lamina: table %q has no value pipeline", name)
	}
	return &Definition[K, V]{
		name:     name,
		keyCodec: keyCodec,
		pipeline: valuePipeline,
		prefix:   append([]byte(name), 0x00),
		bound:    append([]byte(name), 0x01),
	}, nil
}

// Name returns the table name.
func (d *Definition[K, V]) Name() string { return d.name }

// View binds the definition to a read transaction.
func (d *Definition[K, V]) View(txn *ReadTxn) *Table[K, V] {
	return &Table[K, V]{def: d, txn: txn}
}

// Modify binds the definition to a write transaction.
func (d *Definition[K, V]) Modify(txn *WriteTxn) *TableMut[K, V] {
	return &TableMut[K, V]{Table[K, V]{def: d, txn: txn, mut: txn}}
}

// storeKey encodes a key into its full store form. The bare encoded
// key is returned alongside for diagnostics.
func (d *Definition[K, V]) storeKey(key K) (full, bare []byte, err error) {
	bare, err = d.keyCodec.Encode(key)
	if err != nil {
		return nil, nil, fmt.Errorf("lamina: encoding key for table %q: %w", d.name, err)
	}
	full = make([]byte, 0, len(d.prefix)+len(bare))
	full = append(full, d.prefix...)
	full = append(full, bare...)
	return full, bare, nil
}

// Entry pairs a decoded key with its decoded value.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Table is a read handle bound to one transaction. It becomes
// unusable when the transaction ends.
type Table[K, V any] struct {
	def *Definition[K, V]
	txn reader

	// mut is set when the handle was bound through Modify. Reads then
	// rewrite values they had to rebuild from parity.
	mut *WriteTxn
}

// Get returns the value stored under key. Absence is a
// NotFoundError; a value that exists but cannot be decoded is a
// decode error, never a not-found.
func (t *Table[K, V]) Get(key K) (V, error) {
	var zero V
	if err := t.txn.active(); err != nil {
		return zero, err
	}
	full, bare, err := t.def.storeKey(key)
	if err != nil {
		return zero, err
	}

	data, closer, err := t.txn.get(full)
	if errors.Is(err, pebble.ErrNotFound) {
		return zero, &NotFoundError{Table: t.def.name, KeyBytes: bare}
	}
	if err != nil {
		return zero, fmt.Errorf("lamina: reading table %q: %w", t.def.name, err)
	}
	defer closer.Close()

	value, recovered, err := t.def.pipeline.Decode(buffer.Borrowed(data))
	if err != nil {
		return zero, fmt.Errorf("lamina: decoding value for key %x in table %q: %w", bare, t.def.name, err)
	}
	if recovered {
		t.heal(full, bare, value)
	}
	return value, nil
}

// Has reports whether key is present, without decoding the value.
func (t *Table[K, V]) Has(key K) (bool, error) {
	if err := t.txn.active(); err != nil {
		return false, err
	}
	full, _, err := t.def.storeKey(key)
	if err != nil {
		return false, err
	}
	_, closer, err := t.txn.get(full)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lamina: reading table %q: %w", t.def.name, err)
	}
	closer.Close()
	return true, nil
}

// Scan returns an iterator over every entry in the table. Entries
// come back in encoded-key order, which is the key type's natural
// order only under an order-preserving codec. One pass per iterator;
// call Scan again to restart.
func (t *Table[K, V]) Scan() (*Iter[K, V], error) {
	if err := t.txn.active(); err != nil {
		return nil, err
	}
	it, err := t.txn.iter(t.def.prefix, t.def.bound)
	if err != nil {
		return nil, fmt.Errorf("lamina: scanning table %q: %w", t.def.name, err)
	}
	return &Iter[K, V]{def: t.def, logger: t.txn.database().logger, it: it}, nil
}

// IsEmpty reports whether the table holds no entries.
func (t *Table[K, V]) IsEmpty() (bool, error) {
	if err := t.txn.active(); err != nil {
		return false, err
	}
	it, err := t.txn.iter(t.def.prefix, t.def.bound)
	if err != nil {
		return false, fmt.Errorf("lamina: scanning table %q: %w", t.def.name, err)
	}
	empty := !it.First()
	if err := it.Close(); err != nil {
		return false, fmt.Errorf("lamina: scanning table %q: %w", t.def.name, err)
	}
	return empty, nil
}

// heal rewrites a value that was rebuilt from parity so the stored
// copy is clean again. Read-only handles can only report the damage.
func (t *Table[K, V]) heal(full, bare []byte, value V) {
	logger := t.txn.database().logger
	if t.mut == nil {
		logger.Warn("value recovered from parity",
			"table", t.def.name, "key", hex.EncodeToString(bare))
		return
	}
	encoded, err := t.def.pipeline.Encode(buffer.Ref(&value))
	if err != nil {
		logger.Error("re-encoding recovered value failed",
			"table", t.def.name, "key", hex.EncodeToString(bare), "error", err)
		return
	}
	if err := t.mut.batch.Set(full, encoded.Bytes(), nil); err != nil {
		logger.Error("rewriting recovered value failed",
			"table", t.def.name, "key", hex.EncodeToString(bare), "error", err)
		return
	}
	logger.Warn("value recovered from parity and rewritten",
		"table", t.def.name, "key", hex.EncodeToString(bare))
}

// TableMut is a write handle. It reads like a Table and additionally
// mutates, all within its transaction.
type TableMut[K, V any] struct {
	Table[K, V]
}

// Insert writes a value under key, replacing any existing value.
func (t *TableMut[K, V]) Insert(key K, value V) error {
	return t.InsertValue(key, buffer.Ref(&value))
}

// InsertValue is Insert without copying the value into the call:
// large values can be passed by reference.
func (t *TableMut[K, V]) InsertValue(key K, value buffer.Value[V]) error {
	if err := t.txn.active(); err != nil {
		return err
	}
	full, bare, err := t.def.storeKey(key)
	if err != nil {
		return err
	}
	encoded, err := t.def.pipeline.Encode(value)
	if err != nil {
		return fmt.Errorf("lamina: encoding value for key %x in table %q: %w", bare, t.def.name, err)
	}
	if err := t.mut.batch.Set(full, encoded.Bytes(), nil); err != nil {
		return fmt.Errorf("lamina: writing table %q: %w", t.def.name, err)
	}
	return nil
}

// Remove deletes the value under key. Removing an absent key is not
// an error.
func (t *TableMut[K, V]) Remove(key K) error {
	if err := t.txn.active(); err != nil {
		return err
	}
	full, _, err := t.def.storeKey(key)
	if err != nil {
		return err
	}
	if err := t.mut.batch.Delete(full, nil); err != nil {
		return fmt.Errorf("lamina: removing from table %q: %w", t.def.name, err)
	}
	return nil
}

// ExtractIf removes every entry the predicate selects and returns
// them. Entries are visited in encoded-key order; a decode failure
// aborts the drain with nothing removed.
func (t *TableMut[K, V]) ExtractIf(pred func(K, V) bool) ([]Entry[K, V], error) {
	if err := t.txn.active(); err != nil {
		return nil, err
	}
	it, err := t.txn.iter(t.def.prefix, t.def.bound)
	if err != nil {
		return nil, fmt.Errorf("lamina: scanning table %q: %w", t.def.name, err)
	}

	// Deletions wait until the iterator is closed; mutating the batch
	// under a live iterator is not allowed.
	var extracted []Entry[K, V]
	var doomed [][]byte
	for valid := it.First(); valid; valid = it.Next() {
		bare := it.Key()[len(t.def.prefix):]
		key, err := t.def.keyCodec.Decode(bare)
		if err != nil {
			it.Close()
			return nil, fmt.Errorf("lamina: decoding key %x in table %q: %w", bare, t.def.name, err)
		}
		value, recovered, err := t.def.pipeline.Decode(buffer.Borrowed(it.Value()))
		if err != nil {
			it.Close()
			return nil, fmt.Errorf("lamina: decoding value for key %x in table %q: %w", bare, t.def.name, err)
		}
		if recovered {
			t.txn.database().logger.Warn("value recovered from parity",
				"table", t.def.name, "key", hex.EncodeToString(bare))
		}
		if !pred(key, value) {
			continue
		}
		extracted = append(extracted, Entry[K, V]{Key: key, Value: value})
		doomed = append(doomed, bytes.Clone(it.Key()))
	}
	if err := it.Close(); err != nil {
		return nil, fmt.Errorf("lamina: scanning table %q: %w", t.def.name, err)
	}

	for _, full := range doomed {
		if err := t.mut.batch.Delete(full, nil); err != nil {
			return nil, fmt.Errorf("lamina: removing from table %q: %w", t.def.name, err)
		}
	}
	return extracted, nil
}
