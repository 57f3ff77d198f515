// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/laminadb/lamina/buffer"
	"github.com/laminadb/lamina/descriptor"
	"github.com/laminadb/lamina/tailbuf"
)

// compressibleData returns a payload every backend can shrink:
// repeated structured text.
func compressibleData(size int) []byte {
	pattern := []byte(`{"table":"accounts","key":1234,"balance":567890,"flags":["a","b"]}`)
	data := make([]byte, 0, size+len(pattern))
	for len(data) < size {
		data = append(data, pattern...)
	}
	return data[:size]
}

// randomData returns a payload no backend can shrink.
func randomData(t *testing.T, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("reading random bytes: %v", err)
	}
	return data
}

func allBackends() []Compressor {
	return []Compressor{Zstd{}, LZ4{}, Gzip{}, Zlib{}, Flate{}, S2{}}
}

func backendName(c Compressor) string {
	return descriptor.MethodName(descriptor.LayerCompress, c.Method())
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelMinimum, "minimum"},
		{LevelMedium, "medium"},
		{LevelMaximum, "maximum"},
		{Exact(0), "0"},
		{Exact(19), "19"},
		{Level(-9), "invalid(-9)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"minimum", "medium", "maximum", "3", "22"} {
		level, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q) failed: %v", name, err)
		}
		if level.String() != name {
			t.Errorf("roundtrip: ParseLevel(%q).String() = %q", name, level.String())
		}
	}

	for _, name := range []string{"", "fast", "-3"} {
		if _, err := ParseLevel(name); err == nil {
			t.Errorf("ParseLevel(%q) should fail", name)
		}
	}
}

func TestBackendRoundTrip(t *testing.T) {
	data := compressibleData(64 * 1024)

	for _, backend := range allBackends() {
		for _, level := range []Level{LevelMinimum, LevelMedium, LevelMaximum} {
			t.Run(backendName(backend)+"/"+level.String(), func(t *testing.T) {
				compressed, err := backend.Compress(data, level)
				if err != nil {
					t.Fatalf("Compress: %v", err)
				}
				if len(compressed) >= len(data) {
					t.Errorf("no compression: %d bytes to %d bytes", len(data), len(compressed))
				}

				decompressed, err := backend.Decompress(compressed, len(data))
				if err != nil {
					t.Fatalf("Decompress: %v", err)
				}
				if !bytes.Equal(decompressed, data) {
					t.Error("roundtrip mismatch")
				}
			})
		}
	}
}

func TestBackendIncompressible(t *testing.T) {
	data := randomData(t, 4096)

	for _, backend := range allBackends() {
		t.Run(backendName(backend), func(t *testing.T) {
			_, err := backend.Compress(data, LevelMedium)
			if !IsIncompressible(err) {
				t.Errorf("error = %v, want incompressible", err)
			}
		})
	}
}

func TestBackendWrongSizeRejected(t *testing.T) {
	data := compressibleData(8 * 1024)

	for _, backend := range allBackends() {
		t.Run(backendName(backend), func(t *testing.T) {
			compressed, err := backend.Compress(data, LevelMedium)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if _, err := backend.Decompress(compressed, len(data)-1); err == nil {
				t.Error("Decompress accepted a short size")
			}
			if _, err := backend.Decompress(compressed, len(data)+1); err == nil {
				t.Error("Decompress accepted a long size")
			}
		})
	}
}

func TestExactLevels(t *testing.T) {
	data := compressibleData(16 * 1024)

	t.Run("zstd 19", func(t *testing.T) {
		compressed, err := Zstd{}.Compress(data, Exact(19))
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		decompressed, err := Zstd{}.Decompress(compressed, len(data))
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Error("roundtrip mismatch")
		}
	})

	t.Run("lz4 9", func(t *testing.T) {
		compressed, err := LZ4{}.Compress(data, Exact(9))
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		decompressed, err := LZ4{}.Decompress(compressed, len(data))
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Error("roundtrip mismatch")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		if err := (Zstd{}).ValidateLevel(Exact(23)); err == nil {
			t.Error("zstd accepted level 23")
		}
		if err := (Zstd{}).ValidateLevel(Exact(0)); err == nil {
			t.Error("zstd accepted level 0")
		}
		if err := (LZ4{}).ValidateLevel(Exact(10)); err == nil {
			t.Error("lz4 accepted level 10")
		}
		if err := (Gzip{}).ValidateLevel(Exact(10)); err == nil {
			t.Error("gzip accepted level 10")
		}
		if err := (S2{}).ValidateLevel(Exact(1)); err == nil {
			t.Error("s2 accepted an exact level")
		}
	})
}

func TestDictionaryRoundTrip(t *testing.T) {
	dictionary := compressibleData(4 * 1024)
	data := compressibleData(8 * 1024)

	for _, backend := range []DictionaryCompressor{Zstd{}, Zlib{}} {
		t.Run(backendName(backend), func(t *testing.T) {
			compressed, err := backend.CompressDict(data, LevelMedium, dictionary)
			if err != nil {
				t.Fatalf("CompressDict: %v", err)
			}

			decompressed, err := backend.DecompressDict(compressed, len(data), dictionary)
			if err != nil {
				t.Fatalf("DecompressDict: %v", err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Error("roundtrip mismatch")
			}

			// The dictionary is not stored with the data: without it,
			// or with different bytes, decompression must fail rather
			// than produce output.
			if _, err := backend.Decompress(compressed, len(data)); err == nil {
				t.Error("Decompress succeeded without the dictionary")
			}
			wrong := append([]byte("not the dictionary"), dictionary...)
			if _, err := backend.DecompressDict(compressed, len(data), wrong); err == nil {
				t.Error("DecompressDict succeeded with the wrong dictionary")
			}
		})
	}
}

func TestNewStageValidation(t *testing.T) {
	dictionary := []byte("shared dictionary")

	if _, err := NewStage(nil, LevelMedium, nil, descriptor.DirectionBoth); err == nil {
		t.Error("NewStage accepted a nil backend")
	}
	if _, err := NewStage(Zstd{}, Level(-7), nil, descriptor.DirectionBoth); err == nil {
		t.Error("NewStage accepted an invalid level")
	}
	if _, err := NewStage(Zstd{}, Exact(40), nil, descriptor.DirectionBoth); err == nil {
		t.Error("NewStage accepted an out-of-range exact level")
	}

	// Dictionary support is limited to backends whose format can
	// detect a mismatch.
	for _, backend := range []Compressor{LZ4{}, Gzip{}, Flate{}, S2{}} {
		if _, err := NewStage(backend, LevelMedium, dictionary, descriptor.DirectionBoth); err == nil {
			t.Errorf("NewStage(%s) accepted a dictionary", backendName(backend))
		}
	}
	for _, backend := range []Compressor{Zstd{}, Zlib{}} {
		if _, err := NewStage(backend, LevelMedium, dictionary, descriptor.DirectionBoth); err != nil {
			t.Errorf("NewStage(%s) rejected a dictionary: %v", backendName(backend), err)
		}
	}
}

func TestStageRoundTrip(t *testing.T) {
	data := compressibleData(32 * 1024)

	for _, backend := range allBackends() {
		t.Run(backendName(backend), func(t *testing.T) {
			stage, err := NewStage(backend, LevelMedium, nil, descriptor.DirectionBoth)
			if err != nil {
				t.Fatalf("NewStage: %v", err)
			}

			applied, err := stage.Apply(buffer.Owned(bytes.Clone(data)))
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if applied.Len() >= len(data) {
				t.Errorf("no compression: %d bytes to %d bytes", len(data), applied.Len())
			}

			word, err := tailbuf.NewCursor(applied.Bytes()).ReadUint16()
			if err != nil {
				t.Fatalf("reading tail: %v", err)
			}
			desc, err := descriptor.Decode(word)
			if err != nil {
				t.Fatalf("decoding tail: %v", err)
			}
			if desc.Layer != descriptor.LayerCompress || desc.Method != backend.Method() {
				t.Errorf("tail descriptor = %s", desc)
			}

			reversed, err := stage.Reverse(applied)
			if err != nil {
				t.Fatalf("Reverse: %v", err)
			}
			if !bytes.Equal(reversed.Bytes(), data) {
				t.Error("roundtrip mismatch")
			}
		})
	}
}

func TestStageStoredFallback(t *testing.T) {
	data := randomData(t, 512)

	stage, err := NewStage(Zstd{}, LevelMedium, nil, descriptor.DirectionBoth)
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}

	applied, err := stage.Apply(buffer.Owned(bytes.Clone(data)))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if applied.Len() != len(data)+descriptor.Size {
		t.Errorf("stored length = %d, want payload+descriptor = %d", applied.Len(), len(data)+descriptor.Size)
	}

	word, err := tailbuf.NewCursor(applied.Bytes()).ReadUint16()
	if err != nil {
		t.Fatalf("reading tail: %v", err)
	}
	desc, err := descriptor.Decode(word)
	if err != nil {
		t.Fatalf("decoding tail: %v", err)
	}
	if desc.Method != descriptor.MethodStored {
		t.Errorf("tail method = %s, want stored", descriptor.MethodName(desc.Layer, desc.Method))
	}

	reversed, err := stage.Reverse(applied)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if !bytes.Equal(reversed.Bytes(), data) {
		t.Error("stored roundtrip mismatch")
	}
	// Undoing a stored payload is a truncation, not a copy.
	if &reversed.Bytes()[0] != &applied.Bytes()[0] {
		t.Error("stored payload was copied on reverse")
	}
}

func TestStageDirectionGating(t *testing.T) {
	data := compressibleData(4 * 1024)

	t.Run("none passes through", func(t *testing.T) {
		stage, err := NewStage(Zstd{}, LevelMedium, nil, descriptor.DirectionNone)
		if err != nil {
			t.Fatalf("NewStage: %v", err)
		}
		buf := buffer.Owned(bytes.Clone(data))
		applied, err := stage.Apply(buf)
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if &applied.Bytes()[0] != &buf.Bytes()[0] || applied.Len() != buf.Len() {
			t.Error("direction none should not touch the buffer")
		}
		reversed, err := stage.Reverse(applied)
		if err != nil {
			t.Fatalf("Reverse: %v", err)
		}
		if &reversed.Bytes()[0] != &buf.Bytes()[0] {
			t.Error("direction none should not touch the buffer on read")
		}
	})

	t.Run("on-write round-trips", func(t *testing.T) {
		stage, err := NewStage(Zstd{}, LevelMedium, nil, descriptor.DirectionOnWrite)
		if err != nil {
			t.Fatalf("NewStage: %v", err)
		}
		applied, err := stage.Apply(buffer.Owned(bytes.Clone(data)))
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		reversed, err := stage.Reverse(applied)
		if err != nil {
			t.Fatalf("Reverse: %v", err)
		}
		if !bytes.Equal(reversed.Bytes(), data) {
			t.Error("roundtrip mismatch")
		}
	})

	t.Run("on-read ingests enveloped data", func(t *testing.T) {
		// Build enveloped bytes the way a peer with a write-side
		// direction would, then read them through an on-read stage.
		writeStage, err := NewStage(Zstd{}, LevelMedium, nil, descriptor.DirectionBoth)
		if err != nil {
			t.Fatalf("NewStage: %v", err)
		}
		wrapped, err := writeStage.Apply(buffer.Owned(bytes.Clone(data)))
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}

		readStage, err := NewStage(Zstd{}, LevelMedium, nil, descriptor.DirectionOnRead)
		if err != nil {
			t.Fatalf("NewStage: %v", err)
		}
		stored, err := readStage.Apply(wrapped)
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if &stored.Bytes()[0] != &wrapped.Bytes()[0] {
			t.Error("on-read write path should store ingested bytes verbatim")
		}
		reversed, err := readStage.Reverse(stored)
		if err != nil {
			t.Fatalf("Reverse: %v", err)
		}
		if !bytes.Equal(reversed.Bytes(), data) {
			t.Error("ingest roundtrip mismatch")
		}
	})
}

func TestStageReverseValidation(t *testing.T) {
	stage, err := NewStage(Zstd{}, LevelMedium, nil, descriptor.DirectionBoth)
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}

	t.Run("truncated buffer", func(t *testing.T) {
		_, err := stage.Reverse(buffer.Owned([]byte{0x01}))
		var eob *tailbuf.EndOfBufferError
		if !errors.As(err, &eob) {
			t.Fatalf("error = %v, want EndOfBufferError", err)
		}
	})

	t.Run("alien layer", func(t *testing.T) {
		word := descriptor.Encode(descriptor.LayerEncrypt, descriptor.MethodAESGCM, descriptor.DirectionBoth)
		buf := tailbuf.AppendUint16(buffer.Owned([]byte("xxxx")), word)
		_, err := stage.Reverse(buf)
		var mismatch *descriptor.LayerMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("error = %v, want LayerMismatchError", err)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		lz4Stage, err := NewStage(LZ4{}, LevelMedium, nil, descriptor.DirectionBoth)
		if err != nil {
			t.Fatalf("NewStage: %v", err)
		}
		applied, err := stage.Apply(buffer.Owned(compressibleData(4096)))
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		_, err = lz4Stage.Reverse(applied)
		var mismatch *descriptor.MethodMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("error = %v, want MethodMismatchError", err)
		}
		if mismatch.Expected != descriptor.MethodLZ4 || mismatch.Found != descriptor.MethodZstd {
			t.Errorf("mismatch = %+v", mismatch)
		}
	})

	t.Run("corrupt stream", func(t *testing.T) {
		applied, err := stage.Apply(buffer.Owned(compressibleData(4096)))
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		// Flip a byte in the compressed payload, leaving the tail
		// intact.
		corrupted := bytes.Clone(applied.Bytes())
		corrupted[0] ^= 0xFF
		if _, err := stage.Reverse(buffer.Owned(corrupted)); err == nil {
			t.Error("Reverse accepted a corrupted stream")
		}
	})
}

func BenchmarkStageApplyZstd(b *testing.B) {
	stage, err := NewStage(Zstd{}, LevelMedium, nil, descriptor.DirectionBoth)
	if err != nil {
		b.Fatal(err)
	}
	data := compressibleData(64 * 1024)

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		stage.Apply(buffer.Borrowed(data))
	}
}
