// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline composes the four value transformation stages into
// the write and read paths of a store.
//
// On write a typed value flows through serialize, compress, encrypt,
// and protect, in that order. Each active stage transforms the buffer
// and appends its parameters and a descriptor to the tail, so the
// innermost stage's descriptor ends up buried deepest and the
// outermost stage's descriptor is the last two bytes of the stored
// value. On read the stages run in reverse: protect first (rebuilding
// corrupted shards when it can), then decrypt, decompress, and
// deserialize. A stage whose direction excludes the operation passes
// the buffer through untouched, which lets one store hold plain,
// compressed-only, and fully protected values side by side, each told
// apart by its own tail bytes.
//
// The orchestration is a straight-line call chain. There are no
// retries and no branching beyond each stage's own direction check;
// the first failing stage aborts the operation, and its error comes
// back wrapped in a StageError naming the layer.
package pipeline
