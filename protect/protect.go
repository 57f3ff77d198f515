// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package protect

import (
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"math/bits"

	"github.com/laminadb/lamina/buffer"
	"github.com/laminadb/lamina/descriptor"
	"github.com/laminadb/lamina/tailbuf"
)

// Shard geometry bounds. GF(2^8) Reed-Solomon admits at most 256
// shards per value; sizes prefer the cache-friendly power-of-two
// range.
const (
	minShardSize   = 16
	maxShardSize   = 65536
	maxTotalShards = 256
)

// Corrector is one erasure-coding backend. Implementations are
// stateless values.
type Corrector interface {
	// Method identifies the backend in stage descriptors. Protocol
	// constant.
	Method() descriptor.Method

	// AddParity fills the parity shards from the data shards. The
	// first dataShards entries hold the payload; the rest are zeroed,
	// equal-length slices the call overwrites.
	AddParity(shards [][]byte, dataShards int) error

	// Reconstruct rebuilds nil entries in place from the surviving
	// shards.
	Reconstruct(shards [][]byte, dataShards int) error
}

// MissingShardError reports a protected value whose corrupted shard
// count exceeds its parity budget. The value is unrecoverable from
// the stored bytes; restoring it takes a backup or a peer copy.
// Terminal: retrying the read returns the same error.
type MissingShardError struct {
	// Index is the first shard that failed its checksum.
	Index int
	// Corrupted is how many shards failed their checksums.
	Corrupted int
	// Parity is the parity budget the value was written with.
	Parity int
}

func (e *MissingShardError) Error() string {
	return fmt.Sprintf("shard %d unrecoverable: %d corrupted shards exceed the %d-shard parity budget",
		e.Index, e.Corrupted, e.Parity)
}

// Stage is the error correction stage bound to one backend, level,
// and direction.
type Stage struct {
	backend   Corrector
	level     Level
	direction descriptor.Direction
}

// NewStage validates the backend/level combination.
func NewStage(backend Corrector, level Level, direction descriptor.Direction) (Stage, error) {
	if backend == nil {
		return Stage{}, errors.New("correction backend is nil")
	}
	if !level.valid() {
		return Stage{}, fmt.Errorf("invalid protection level %d", int(level))
	}
	if level.IsExact() && level.Count() > maxTotalShards-1 {
		return Stage{}, fmt.Errorf("%d parity shards leave no room for data within the %d-shard limit",
			level.Count(), maxTotalShards)
	}
	return Stage{backend: backend, level: level, direction: direction}, nil
}

// Direction returns the stage's configured direction.
func (s Stage) Direction() descriptor.Direction {
	return s.direction
}

// Apply shards the buffer, appends parity shards, and records the
// geometry and per-shard checksums in the tail. Pass-through when the
// direction does not apply on write.
func (s Stage) Apply(buf buffer.Buffer) (buffer.Buffer, error) {
	if !s.direction.AppliesOnWrite() {
		return buf, nil
	}

	data := buf.Bytes()
	if uint64(len(data)) > math.MaxUint32 {
		return buffer.Buffer{}, fmt.Errorf("payload of %d bytes exceeds the 4 GiB protection limit", len(data))
	}

	shardSize, dataShards, parityShards := shardLayout(len(data), s.level)
	total := dataShards + parityShards

	backing := make([]byte, total*shardSize)
	copy(backing, data)
	shards := make([][]byte, total)
	for i := range shards {
		shards[i] = backing[i*shardSize : (i+1)*shardSize]
	}
	if err := s.backend.AddParity(shards, dataShards); err != nil {
		return buffer.Buffer{}, fmt.Errorf("adding parity: %w", err)
	}

	checksums := make([]uint32, total)
	for i, shard := range shards {
		checksums[i] = crc32.ChecksumIEEE(shard)
	}

	out := tailbuf.AppendUint32s(buffer.Owned(backing), checksums)
	out = tailbuf.AppendUint32(out, uint32(len(data)))
	out = tailbuf.AppendUint32(out, uint32(dataShards))
	out = tailbuf.AppendUint32(out, uint32(total))
	out = tailbuf.AppendUint32(out, uint32(shardSize))
	word := descriptor.Encode(descriptor.LayerProtect, s.backend.Method(), s.direction)
	return tailbuf.AppendUint16(out, word), nil
}

// Reverse pops and validates the stage descriptor and geometry,
// verifies every shard checksum, and rebuilds corrupted shards when
// they fit the parity budget. A fully clean value is returned without
// copying; a rebuilt one is flagged recovered. Pass-through when the
// direction is none.
func (s Stage) Reverse(buf buffer.Buffer) (buffer.Buffer, error) {
	if s.direction == descriptor.DirectionNone {
		return buf, nil
	}

	cursor := tailbuf.NewCursor(buf.Bytes())
	word, err := cursor.ReadUint16()
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("reading protection descriptor: %w", err)
	}
	desc, err := descriptor.Decode(word)
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("decoding protection descriptor: %w", err)
	}
	if desc.Layer != descriptor.LayerProtect {
		return buffer.Buffer{}, &descriptor.LayerMismatchError{
			Expected: descriptor.LayerProtect,
			Found:    desc.Layer,
		}
	}
	if desc.Method != s.backend.Method() {
		return buffer.Buffer{}, &descriptor.MethodMismatchError{
			Layer:    descriptor.LayerProtect,
			Expected: s.backend.Method(),
			Found:    desc.Method,
		}
	}

	geometry, err := readGeometry(cursor)
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("protection parameters: %w", err)
	}

	checksums, err := cursor.ReadUint32s(geometry.total)
	if err != nil {
		return buffer.Buffer{}, fmt.Errorf("reading %d shard checksums: %w", geometry.total, err)
	}

	block := cursor.Remaining()
	var corrupt []int
	for i := 0; i < geometry.total; i++ {
		shard := block[i*geometry.shardSize : (i+1)*geometry.shardSize]
		if crc32.ChecksumIEEE(shard) != checksums[i] {
			corrupt = append(corrupt, i)
		}
	}

	if len(corrupt) == 0 {
		return buf.Truncate(geometry.dataLen), nil
	}

	parity := geometry.total - geometry.dataShards
	if len(corrupt) > parity {
		return buffer.Buffer{}, &MissingShardError{
			Index:     corrupt[0],
			Corrupted: len(corrupt),
			Parity:    parity,
		}
	}

	shards := make([][]byte, geometry.total)
	for i := range shards {
		shards[i] = block[i*geometry.shardSize : (i+1)*geometry.shardSize]
	}
	for _, i := range corrupt {
		shards[i] = nil
	}
	if err := s.backend.Reconstruct(shards, geometry.dataShards); err != nil {
		return buffer.Buffer{}, fmt.Errorf("rebuilding %d of %d shards: %w",
			len(corrupt), geometry.total, err)
	}

	recovered := make([]byte, 0, geometry.dataShards*geometry.shardSize)
	for _, shard := range shards[:geometry.dataShards] {
		recovered = append(recovered, shard...)
	}
	return buffer.Recovered(recovered[:geometry.dataLen]), nil
}

// geometry is the decoded shard layout of a protected value.
type geometry struct {
	shardSize  int
	total      int
	dataShards int
	dataLen    int
}

// readGeometry pops the four fixed tail parameters and checks them
// against each other and the remaining bytes before anything is
// allocated from them. cursor is left positioned at the checksum
// block.
func readGeometry(cursor *tailbuf.Cursor) (geometry, error) {
	var g geometry
	fields := []struct {
		name string
		dst  *int
	}{
		{"shard size", &g.shardSize},
		{"total shard count", &g.total},
		{"data shard count", &g.dataShards},
		{"data length", &g.dataLen},
	}
	for _, field := range fields {
		v, err := cursor.ReadUint32()
		if err != nil {
			return geometry{}, fmt.Errorf("reading %s: %w", field.name, err)
		}
		*field.dst = int(v)
	}

	switch {
	case g.shardSize < 1:
		return geometry{}, fmt.Errorf("shard size %d is not positive", g.shardSize)
	case g.total < 2 || g.total > maxTotalShards:
		return geometry{}, fmt.Errorf("total shard count %d outside 2-%d", g.total, maxTotalShards)
	case g.dataShards < 1 || g.dataShards >= g.total:
		return geometry{}, fmt.Errorf("data shard count %d outside 1-%d", g.dataShards, g.total-1)
	case g.dataLen > g.dataShards*g.shardSize:
		return geometry{}, fmt.Errorf("data length %d exceeds the %d-byte data shard capacity",
			g.dataLen, g.dataShards*g.shardSize)
	case cursor.Len() != g.total*(g.shardSize+4):
		// The remaining window must hold exactly the checksum block
		// and the shard block.
		return geometry{}, fmt.Errorf("%d bytes remain, the declared layout needs %d",
			cursor.Len(), g.total*(g.shardSize+4))
	}
	return g, nil
}

// shardLayout picks the shard geometry for a payload. The shard size
// is the largest power of two in [16, 65536] that cuts the payload
// into roughly four to eight data shards; tiny payloads settle on one
// or two. When data plus parity would overflow the 256-shard field
// limit, shards grow past the usual cap until the set fits.
func shardLayout(dataLen int, level Level) (shardSize, dataShards, parityShards int) {
	shardSize = minShardSize
	if exp := bits.Len(uint(dataLen)) - 3; exp > 4 {
		shardSize = 1 << exp
		if shardSize > maxShardSize {
			shardSize = maxShardSize
		}
	}
	for {
		dataShards = max((dataLen+shardSize-1)/shardSize, 1)
		parityShards = level.parityShards(dataShards)
		if dataShards+parityShards <= maxTotalShards {
			return shardSize, dataShards, parityShards
		}
		shardSize <<= 1
	}
}
