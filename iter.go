// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package lamina

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/pebble"

	"github.com/laminadb/lamina/buffer"
)

// Iter is a double-ended iterator over a table's entries. It starts
// unpositioned: call First, Last, or Seek, then step with Next or
// Prev. Positioning calls report whether the iterator landed on an
// entry; Key and Value return that entry decoded.
//
// The first failure, whether from the store or from decoding an
// entry, stops the iterator; Err returns it. An iterator is one pass
// and is not safe for concurrent use. Close it before its transaction
// ends.
type Iter[K, V any] struct {
	def    *Definition[K, V]
	logger *slog.Logger
	it     *pebble.Iterator
	key    K
	value  V
	err    error
	closed bool
}

// First positions the iterator at the smallest stored key.
func (i *Iter[K, V]) First() bool {
	if i.err != nil || i.closed {
		return false
	}
	return i.settle(i.it.First())
}

// Last positions the iterator at the largest stored key.
func (i *Iter[K, V]) Last() bool {
	if i.err != nil || i.closed {
		return false
	}
	return i.settle(i.it.Last())
}

// Next steps to the next entry in ascending encoded-key order.
func (i *Iter[K, V]) Next() bool {
	if i.err != nil || i.closed {
		return false
	}
	return i.settle(i.it.Next())
}

// Prev steps to the previous entry.
func (i *Iter[K, V]) Prev() bool {
	if i.err != nil || i.closed {
		return false
	}
	return i.settle(i.it.Prev())
}

// Seek positions the iterator at the first entry whose encoded key is
// at or after the given key's encoding. Under an order-preserving key
// codec that is the first entry with key >= the argument.
func (i *Iter[K, V]) Seek(key K) bool {
	if i.err != nil || i.closed {
		return false
	}
	full, _, err := i.def.storeKey(key)
	if err != nil {
		i.err = err
		return false
	}
	return i.settle(i.it.SeekGE(full))
}

// settle decodes the entry under the cursor into the iterator's
// current key and value.
func (i *Iter[K, V]) settle(valid bool) bool {
	if !valid {
		return false
	}
	bare := i.it.Key()[len(i.def.prefix):]
	key, err := i.def.keyCodec.Decode(bare)
	if err != nil {
		i.err = fmt.Errorf("lamina: decoding key %x in table %q: %w", bare, i.def.name, err)
		return false
	}
	value, recovered, err := i.def.pipeline.Decode(buffer.Borrowed(i.it.Value()))
	if err != nil {
		i.err = fmt.Errorf("lamina: decoding value for key %x in table %q: %w", bare, i.def.name, err)
		return false
	}
	if recovered {
		i.logger.Warn("value recovered from parity",
			"table", i.def.name, "key", hex.EncodeToString(bare))
	}
	i.key, i.value = key, value
	return true
}

// Key returns the key under the cursor. Valid only after a
// positioning call returned true.
func (i *Iter[K, V]) Key() K { return i.key }

// Value returns the value under the cursor. Valid only after a
// positioning call returned true.
func (i *Iter[K, V]) Value() V { return i.value }

// Err returns the failure that stopped the iterator, or nil after a
// clean pass.
func (i *Iter[K, V]) Err() error {
	if i.err == nil && !i.closed {
		if err := i.it.Error(); err != nil {
			i.err = fmt.Errorf("lamina: iterating table %q: %w", i.def.name, err)
		}
	}
	return i.err
}

// Close releases the iterator and returns the first failure, if any.
func (i *Iter[K, V]) Close() error {
	if i.closed {
		return i.err
	}
	i.closed = true
	if err := i.it.Close(); err != nil && i.err == nil {
		i.err = fmt.Errorf("lamina: iterating table %q: %w", i.def.name, err)
	}
	return i.err
}
