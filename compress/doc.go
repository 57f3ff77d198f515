// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress implements the compression stage of the encoding
// pipeline.
//
// Six backends are available: zstd (the default; best ratios at good
// speed), lz4 (fastest decode), gzip and zlib (interoperability with
// existing tooling), flate (raw DEFLATE, the smallest framing), and
// s2 (snappy-compatible, tuned for throughput). Backends are selected
// per suite at startup; the stored descriptor records which one
// produced each value, so a misconfigured reader fails loudly instead
// of feeding one format to another's decoder.
//
// The stage never stores output larger than its input. When a backend
// cannot shrink the payload (already-compressed or high-entropy data),
// the payload is stored unchanged and the descriptor records the
// stored method instead of the backend. Reads of such values never
// touch the backend and cost no copy.
//
// On the wire, a compressed value is:
//
//	[compressed payload][uncompressed size u32][descriptor u16]
//
// and an incompressible one is:
//
//	[payload][descriptor u16]
//
// with all integers little-endian and the tail consumed right to
// left. The recorded uncompressed size lets decompression allocate
// exactly once and doubles as a corruption check: a backend producing
// any other length fails the read. It also caps a single compressed
// value at 4 GiB.
//
// Zstd and zlib optionally compress against an external dictionary,
// which improves ratios for many small, similar values. The
// dictionary is never persisted; readers must supply the same bytes
// or decompression fails. Backends without dictionary support reject
// dictionary-bearing configurations at construction; that includes
// flate, whose unframed output could not detect a mismatched
// dictionary.
package compress
