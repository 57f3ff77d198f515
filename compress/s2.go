// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/laminadb/lamina/descriptor"
)

// S2 compresses with S2, the snappy-compatible block format tuned for
// throughput. Ratios sit between lz4 and zstd; encode speed is the
// best of the six backends.
type S2 struct{}

// Method returns the s2 protocol constant.
func (S2) Method() descriptor.Method {
	return descriptor.MethodS2
}

// ValidateLevel accepts only the named levels: s2 exposes three
// profiles, not a numeric scale.
func (S2) ValidateLevel(level Level) error {
	if level.IsExact() {
		return fmt.Errorf("exact level %d not supported (s2 has named profiles only)", level.Code())
	}
	return nil
}

// Compress compresses data at the given level.
func (S2) Compress(data []byte, level Level) ([]byte, error) {
	var compressed []byte
	switch level {
	case LevelMedium:
		compressed = s2.EncodeBetter(nil, data)
	case LevelMaximum:
		compressed = s2.EncodeBest(nil, data)
	default:
		compressed = s2.Encode(nil, data)
	}
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

// Decompress expands data back to exactly uncompressedSize bytes.
func (S2) Decompress(data []byte, uncompressedSize int) ([]byte, error) {
	result, err := s2.Decode(make([]byte, 0, uncompressedSize), data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompress: %w", err)
	}
	if len(result) != uncompressedSize {
		return nil, fmt.Errorf("s2 decompress: got %d bytes, expected %d", len(result), uncompressedSize)
	}
	return result, nil
}
