// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package protect

import (
	"fmt"

	"github.com/klauspost/reedsolomon"

	"github.com/laminadb/lamina/descriptor"
)

// ReedSolomon corrects erasures with Reed-Solomon coding over GF(2^8)
// via github.com/klauspost/reedsolomon. Any combination of up to
// parity-many lost shards is recoverable.
type ReedSolomon struct{}

func (ReedSolomon) Method() descriptor.Method { return descriptor.MethodReedSolomon }

func (ReedSolomon) AddParity(shards [][]byte, dataShards int) error {
	enc, err := reedsolomon.New(dataShards, len(shards)-dataShards)
	if err != nil {
		return fmt.Errorf("building %d+%d shard encoder: %w", dataShards, len(shards)-dataShards, err)
	}
	return enc.Encode(shards)
}

func (ReedSolomon) Reconstruct(shards [][]byte, dataShards int) error {
	enc, err := reedsolomon.New(dataShards, len(shards)-dataShards)
	if err != nil {
		return fmt.Errorf("building %d+%d shard encoder: %w", dataShards, len(shards)-dataShards, err)
	}
	return enc.Reconstruct(shards)
}
