// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package protect implements the error correction stage of the value
// pipeline.
//
// The stage splits a payload into equal power-of-two shards, appends
// Reed-Solomon parity shards per the configured level, and records a
// CRC-32 checksum for every shard in the tail parameters:
//
//	[data shards + padding][parity shards]
//	[crc32 u32 x total][data len u32][data shards u32][total u32][shard size u32]
//	[descriptor u16]
//
// On read the checksums locate corrupted shards exactly. A clean
// value returns its payload without copying. Up to parity-many
// corrupted shards are rebuilt from the survivors and the buffer is
// flagged recovered so the caller can rewrite the stored copy. Beyond
// the parity budget the value is unrecoverable and the read fails
// with MissingShardError.
//
// Protection runs outermost on write, so the shards cover the inner
// stages' tail parameters along with the payload: a bit flip in a
// compression size or an encryption nonce is as recoverable as one in
// the data itself.
package protect
