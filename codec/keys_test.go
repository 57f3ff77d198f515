// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"math"
	"slices"
	"testing"
)

// encodeAll is a test helper: encode every value with the codec,
// failing the test on error.
func encodeAll[V any](t *testing.T, c Codec[V], values []V) [][]byte {
	t.Helper()
	encoded := make([][]byte, len(values))
	for i, value := range values {
		data, err := c.Encode(value)
		if err != nil {
			t.Fatalf("Encode(%v): %v", value, err)
		}
		encoded[i] = data
	}
	return encoded
}

// assertOrderPreserved checks that sorting the encodings
// byte-lexicographically yields the same sequence as encoding the
// sorted values.
func assertOrderPreserved[V any](t *testing.T, c Codec[V], values []V, less func(a, b V) int) {
	t.Helper()

	sortedValues := slices.Clone(values)
	slices.SortFunc(sortedValues, less)
	wantOrder := encodeAll(t, c, sortedValues)

	gotOrder := encodeAll(t, c, values)
	slices.SortFunc(gotOrder, bytes.Compare)

	for i := range wantOrder {
		if !bytes.Equal(gotOrder[i], wantOrder[i]) {
			t.Errorf("position %d: sorted encodings diverge from encoded sorted values: %x != %x",
				i, gotOrder[i], wantOrder[i])
		}
	}
}

func TestUint8KeyOrdering(t *testing.T) {
	// 128 and 255 are the interesting cases: a sign-confused encoding
	// would sort them before 127.
	values := []uint8{128, 1, 255, 2, 127}
	assertOrderPreserved(t, Uint8Key{}, values, func(a, b uint8) int { return int(a) - int(b) })
}

func TestUnsignedKeyOrdering(t *testing.T) {
	t.Run("uint16", func(t *testing.T) {
		values := []uint16{256, 0, math.MaxUint16, 255, 1}
		assertOrderPreserved(t, Uint16Key{}, values, func(a, b uint16) int { return int(a) - int(b) })
	})
	t.Run("uint32", func(t *testing.T) {
		values := []uint32{1 << 16, 0, math.MaxUint32, 1, 255}
		assertOrderPreserved(t, Uint32Key{}, values, func(a, b uint32) int {
			return int(int64(a) - int64(b))
		})
	})
	t.Run("uint64", func(t *testing.T) {
		values := []uint64{1 << 32, 0, math.MaxUint64, 1, 1<<32 - 1}
		assertOrderPreserved(t, Uint64Key{}, values, func(a, b uint64) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			}
			return 0
		})
	})
}

func TestSignedKeyOrdering(t *testing.T) {
	// Negative values must sort below positive ones despite their high
	// sign bit; the codec flips it before encoding.
	t.Run("int32", func(t *testing.T) {
		values := []int32{0, math.MinInt32, -1, math.MaxInt32, 1, -100000, 100000}
		assertOrderPreserved(t, Int32Key{}, values, func(a, b int32) int {
			return int(int64(a) - int64(b))
		})
	})
	t.Run("int64", func(t *testing.T) {
		values := []int64{0, math.MinInt64, -1, math.MaxInt64, 1}
		assertOrderPreserved(t, Int64Key{}, values, func(a, b int64) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			}
			return 0
		})
	})
}

func TestStringKeyOrdering(t *testing.T) {
	values := []string{"b", "", "ab", "a", "a\x00"}
	assertOrderPreserved(t, StringKey{}, values, func(a, b string) int {
		return bytes.Compare([]byte(a), []byte(b))
	})
}

func TestKeyRoundTrips(t *testing.T) {
	t.Run("uint32", func(t *testing.T) {
		for _, value := range []uint32{0, 1, math.MaxUint32} {
			data, err := Uint32Key{}.Encode(value)
			if err != nil {
				t.Fatalf("Encode(%d): %v", value, err)
			}
			decoded, err := Uint32Key{}.Decode(data)
			if err != nil {
				t.Fatalf("Decode(%x): %v", data, err)
			}
			if decoded != value {
				t.Errorf("roundtrip: got %d, want %d", decoded, value)
			}
		}
	})
	t.Run("int64", func(t *testing.T) {
		for _, value := range []int64{math.MinInt64, -1, 0, 1, math.MaxInt64} {
			data, err := Int64Key{}.Encode(value)
			if err != nil {
				t.Fatalf("Encode(%d): %v", value, err)
			}
			decoded, err := Int64Key{}.Decode(data)
			if err != nil {
				t.Fatalf("Decode(%x): %v", data, err)
			}
			if decoded != value {
				t.Errorf("roundtrip: got %d, want %d", decoded, value)
			}
		}
	})
	t.Run("string", func(t *testing.T) {
		for _, value := range []string{"", "key", "key\x00with\x00nuls"} {
			data, err := StringKey{}.Encode(value)
			if err != nil {
				t.Fatalf("Encode(%q): %v", value, err)
			}
			decoded, err := StringKey{}.Decode(data)
			if err != nil {
				t.Fatalf("Decode(%x): %v", data, err)
			}
			if decoded != value {
				t.Errorf("roundtrip: got %q, want %q", decoded, value)
			}
		}
	})
}

func TestFixedWidthKeyRejectsWrongLength(t *testing.T) {
	if _, err := (Uint8Key{}).Decode([]byte{}); err == nil {
		t.Error("Uint8Key accepted 0 bytes")
	}
	if _, err := (Uint16Key{}).Decode([]byte{1}); err == nil {
		t.Error("Uint16Key accepted 1 byte")
	}
	if _, err := (Uint32Key{}).Decode([]byte{1, 2, 3}); err == nil {
		t.Error("Uint32Key accepted 3 bytes")
	}
	if _, err := (Uint64Key{}).Decode(make([]byte, 9)); err == nil {
		t.Error("Uint64Key accepted 9 bytes")
	}
	if _, err := (Int32Key{}).Decode(make([]byte, 8)); err == nil {
		t.Error("Int32Key accepted 8 bytes")
	}
	if _, err := (Int64Key{}).Decode(make([]byte, 4)); err == nil {
		t.Error("Int64Key accepted 4 bytes")
	}
}

func TestBytesKeyDecodeDoesNotAliasInput(t *testing.T) {
	source := []byte{10, 20, 30}
	decoded, err := BytesKey{}.Decode(source)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	source[0] = 99
	if decoded[0] != 10 {
		t.Error("decoded key aliases the source slice")
	}
}
