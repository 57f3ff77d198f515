// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package lamina

import (
	"reflect"
	"testing"

	"github.com/laminadb/lamina/codec"
)

func orderedEventTable(tb testing.TB, name string) *OrderedDefinition[uint64, event] {
	tb.Helper()
	def, err := NewOrderedDefinition[uint64, event](name, codec.Uint64Key{}, eventPipeline(tb))
	if err != nil {
		tb.Fatalf("NewOrderedDefinition: %v", err)
	}
	return def
}

func fillOrdered(t *testing.T, db *DB, def *OrderedDefinition[uint64, event], ids ...uint64) {
	t.Helper()
	txn, err := db.Write()
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	table := def.Modify(txn)
	for _, id := range ids {
		if err := table.Insert(id, event{ID: id}); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func collectKeys(t *testing.T, it *Iter[uint64, event]) []uint64 {
	t.Helper()
	defer it.Close()
	var keys []uint64
	for ok := it.First(); ok; ok = it.Next() {
		keys = append(keys, it.Key())
		if got := it.Value().ID; got != it.Key() {
			t.Fatalf("entry %d carries value for %d", it.Key(), got)
		}
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	return keys
}

func TestOrderedRange(t *testing.T) {
	db := testDB(t)
	def := orderedEventTable(t, "metrics")

	// Insertion order is deliberately scrambled; iteration order
	// must come from the encoding, not from write order. The values
	// straddle single-byte boundaries where a naive little-endian
	// encoding would sort 256 before 2.
	fillOrdered(t, db, def, 128, 5, 255, 1, 256, 2)

	read, err := db.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer read.Close()
	table := def.View(read)

	bound := func(v uint64) *uint64 { return &v }

	for _, tt := range []struct {
		name         string
		lower, upper *uint64
		want         []uint64
	}{
		{"unbounded", nil, nil, []uint64{1, 2, 5, 128, 255, 256}},
		{"lower bound only", bound(128), nil, []uint64{128, 255, 256}},
		{"upper bound only", nil, bound(128), []uint64{1, 2, 5}},
		{"both bounds", bound(2), bound(256), []uint64{2, 5, 128, 255}},
		{"empty window", bound(6), bound(128), nil},
		{"inverted bounds", bound(256), bound(2), nil},
	} {
		t.Run(tt.name, func(t *testing.T) {
			it, err := table.Range(tt.lower, tt.upper)
			if err != nil {
				t.Fatalf("Range: %v", err)
			}
			if got := collectKeys(t, it); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Range = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderedFirstLast(t *testing.T) {
	db := testDB(t)
	def := orderedEventTable(t, "metrics")
	fillOrdered(t, db, def, 128, 5, 255)

	read, err := db.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer read.Close()
	table := def.View(read)

	first, err := table.First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if first.Key != 5 || first.Value.ID != 5 {
		t.Fatalf("First = %+v, want key 5", first)
	}
	last, err := table.Last()
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last.Key != 255 || last.Value.ID != 255 {
		t.Fatalf("Last = %+v, want key 255", last)
	}
}

func TestOrderedFirstOnEmptyTable(t *testing.T) {
	db := testDB(t)
	def := orderedEventTable(t, "metrics")

	read, err := db.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer read.Close()
	table := def.View(read)

	if _, err := table.First(); !IsNotFound(err) {
		t.Fatalf("First on an empty table = %v, want a NotFoundError", err)
	}
	if _, err := table.Last(); !IsNotFound(err) {
		t.Fatalf("Last on an empty table = %v, want a NotFoundError", err)
	}
}

func TestIterSeek(t *testing.T) {
	db := testDB(t)
	def := orderedEventTable(t, "metrics")
	fillOrdered(t, db, def, 1, 5, 127, 128)

	read, err := db.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer read.Close()

	it, err := def.View(read).Range(nil, nil)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	defer it.Close()

	// Seeking to an absent key lands on the next present one.
	if !it.Seek(100) {
		t.Fatal("Seek(100) found nothing")
	}
	if it.Key() != 127 {
		t.Fatalf("Seek(100) landed on %d, want 127", it.Key())
	}
	if !it.Seek(5) {
		t.Fatal("Seek(5) found nothing")
	}
	if it.Key() != 5 {
		t.Fatalf("Seek(5) landed on %d, want 5", it.Key())
	}
	if it.Seek(1000) {
		t.Fatalf("Seek past the last key landed on %d", it.Key())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
}

func TestIterDoubleEnded(t *testing.T) {
	db := testDB(t)
	def := orderedEventTable(t, "metrics")
	fillOrdered(t, db, def, 1, 5, 127)

	read, err := db.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	defer read.Close()

	it, err := def.View(read).Range(nil, nil)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	defer it.Close()

	var reversed []uint64
	for ok := it.Last(); ok; ok = it.Prev() {
		reversed = append(reversed, it.Key())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if want := []uint64{127, 5, 1}; !reflect.DeepEqual(reversed, want) {
		t.Fatalf("reverse walk = %v, want %v", reversed, want)
	}

	// Direction changes mid-walk are fine.
	if !it.First() {
		t.Fatal("First found nothing")
	}
	if !it.Next() {
		t.Fatal("Next found nothing")
	}
	if !it.Prev() {
		t.Fatal("Prev found nothing")
	}
	if it.Key() != 1 {
		t.Fatalf("First-Next-Prev landed on %d, want 1", it.Key())
	}
}

func TestOrderedMutSeesPendingWrites(t *testing.T) {
	db := testDB(t)
	def := orderedEventTable(t, "metrics")
	fillOrdered(t, db, def, 5, 128)

	txn, err := db.Write()
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	defer txn.Discard()
	table := def.Modify(txn)

	if err := table.Insert(1, event{ID: 1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	first, err := table.First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if first.Key != 1 {
		t.Fatalf("First = %+v, want the pending key 1", first)
	}

	it, err := table.Range(nil, nil)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if got := collectKeys(t, it); !reflect.DeepEqual(got, []uint64{1, 5, 128}) {
		t.Fatalf("Range = %v, want the pending write merged in", got)
	}
}

func TestOrderedDefinitionValidation(t *testing.T) {
	if _, err := NewOrderedDefinition[uint64, event]("", codec.Uint64Key{}, eventPipeline(t)); err == nil {
		t.Fatal("NewOrderedDefinition accepted an empty name")
	}
	if _, err := NewOrderedDefinition[uint64, event]("metrics", codec.Uint64Key{}, nil); err == nil {
		t.Fatal("NewOrderedDefinition accepted a nil pipeline")
	}
}
