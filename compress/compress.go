// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"errors"
	"fmt"
	"math"

	"github.com/laminadb/lamina/buffer"
	"github.com/laminadb/lamina/descriptor"
	"github.com/laminadb/lamina/tailbuf"
)

// Compressor is one compression backend. Implementations are
// stateless values; any shared machinery (encoder pools) lives in
// package globals.
//
// Compress returns errIncompressible when the output would not be
// smaller than the input; the stage then stores the payload unchanged.
// Decompress must produce exactly uncompressedSize bytes or fail.
type Compressor interface {
	// Method identifies the backend in stage descriptors. Protocol
	// constant.
	Method() descriptor.Method

	// ValidateLevel rejects levels the backend cannot honor, so a bad
	// code fails at startup instead of on the first write.
	ValidateLevel(level Level) error

	Compress(data []byte, level Level) ([]byte, error)
	Decompress(data []byte, uncompressedSize int) ([]byte, error)
}

// DictionaryCompressor is implemented by backends that can compress
// against an external dictionary (zstd, zlib, flate). The dictionary
// is never persisted; decompression needs the same bytes.
type DictionaryCompressor interface {
	Compressor

	CompressDict(data []byte, level Level, dictionary []byte) ([]byte, error)
	DecompressDict(data []byte, uncompressedSize int, dictionary []byte) ([]byte, error)
}

// errIncompressible is returned by backends when the compressed output
// is not smaller than the input. The stage falls back to storing the
// payload unchanged.
var errIncompressible = errors.New("data is incompressible")

// IsIncompressible reports whether the error indicates that data could
// not be compressed smaller than its original size.
func IsIncompressible(err error) bool {
	return errors.Is(err, errIncompressible)
}

// Stage is the compression stage bound to one backend, level,
// optional dictionary, and direction.
type Stage struct {
	backend    Compressor
	dictionary []byte
	level      Level
	direction  descriptor.Direction
}

// NewStage validates the backend/level/dictionary combination.
func NewStage(backend Compressor, level Level, dictionary []byte, direction descriptor.Direction) (Stage, error) {
	if backend == nil {
		return Stage{}, errors.New("compression backend is nil")
	}
	if !level.valid() {
		return Stage{}, fmt.Errorf("invalid compression level %d", int(level))
	}
	if err := backend.ValidateLevel(level); err != nil {
		return Stage{}, fmt.Errorf("%s: %w", descriptor.MethodName(descriptor.LayerCompress, backend.Method()), err)
	}
	if dictionary != nil {
		if _, ok := backend.(DictionaryCompressor); !ok {
			return Stage{}, fmt.Errorf("%s does not support external dictionaries",
				descriptor.MethodName(descriptor.LayerCompress, backend.Method()))
		}
	}
	return Stage{backend: backend, dictionary: dictionary, level: level, direction: direction}, nil
}

// Direction returns the stage's configured direction.
func (s Stage) Direction() descriptor.Direction {
	return s.direction
}

// Apply compresses the buffer and appends the uncompressed size and
// the stage descriptor. Incompressible payloads are stored unchanged
// under the stored method, with no size parameter. Pass-through when
// the direction does not apply on write.
func (s Stage) Apply(buf buffer.Buffer) (buffer.Buffer, error) {
	if !s.direction.AppliesOnWrite() {
		return buf, nil
	}

	data := buf.Bytes()
	if uint64(len(data)) > math.MaxUint32 {
		return buffer.Buffer{}, fmt.Errorf("payload of %d bytes exceeds the 4 GiB compression limit", len(data))
	}

	var compressed []byte
	var err error
	if s.dictionary != nil {
		compressed, err = s.backend.(DictionaryCompressor).CompressDict(data, s.level, s.dictionary)
	} else {
		compressed, err = s.backend.Compress(data, s.level)
	}
	if IsIncompressible(err) {
		word := descriptor.Encode(descriptor.LayerCompress, descriptor.MethodStored, s.direction)
		return tailbuf.AppendUint16(buf, word), nil
	}
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("compressing %d bytes: %w", len(data), err)
	}

	out := tailbuf.AppendUint32(buffer.Owned(compressed), uint32(len(data)))
	word := descriptor.Encode(descriptor.LayerCompress, s.backend.Method(), s.direction)
	return tailbuf.AppendUint16(out, word), nil
}

// Reverse pops and validates the stage descriptor and decompresses
// the payload. Values stored under the stored method are returned
// with only the descriptor removed, without copying. Pass-through
// when the direction is none.
func (s Stage) Reverse(buf buffer.Buffer) (buffer.Buffer, error) {
	if s.direction == descriptor.DirectionNone {
		return buf, nil
	}

	cursor := tailbuf.NewCursor(buf.Bytes())
	word, err := cursor.ReadUint16()
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("reading compression descriptor: %w", err)
	}
	desc, err := descriptor.Decode(word)
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("decoding compression descriptor: %w", err)
	}
	if desc.Layer != descriptor.LayerCompress {
		return buffer.Buffer{}, &descriptor.LayerMismatchError{
			Expected: descriptor.LayerCompress,
			Found:    desc.Layer,
		}
	}

	switch desc.Method {
	case descriptor.MethodStored:
		return buf.Truncate(buf.Len() - descriptor.Size), nil

	case s.backend.Method():
		size, err := cursor.ReadUint32()
		if err != nil {
			return buffer.Buffer{}, fmt.Errorf("reading uncompressed size: %w", err)
		}
		var data []byte
		if s.dictionary != nil {
			data, err = s.backend.(DictionaryCompressor).DecompressDict(cursor.Remaining(), int(size), s.dictionary)
		} else {
			data, err = s.backend.Decompress(cursor.Remaining(), int(size))
		}
		if err != nil {
			return buffer.Buffer{}, fmt.Errorf("decompressing %d bytes: %w", cursor.Len(), err)
		}
		return buffer.Owned(data), nil

	default:
		return buffer.Buffer{}, &descriptor.MethodMismatchError{
			Layer:    descriptor.LayerCompress,
			Expected: s.backend.Method(),
			Found:    desc.Method,
		}
	}
}
