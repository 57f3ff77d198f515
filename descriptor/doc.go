// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package descriptor implements the 16-bit packed descriptors that
// identify one applied pipeline stage in a stored value's tail.
//
// A descriptor records which stage kind ran (the layer), which concrete
// backend produced the bytes (the method), and when the stage applies
// (the direction). Stages append one descriptor each to the tail of the
// value they transform, so a reader can validate, before undoing a
// transformation, that the bytes in front of it were produced by the
// stage and backend it expects.
//
// The bit layout of a descriptor word, least significant bits first:
//
//	bits 0-2   layer (stage kind, up to 8)
//	bits 3-7   method (backend within the layer, up to 32)
//	bits 8-9   direction
//	bits 10-15 reserved, must be zero
//
// All values are protocol constants: changing a layer or method number
// breaks compatibility with every value already stored. Decoding treats
// unknown layers, unknown methods, and non-zero reserved bits as
// corruption signals and returns typed errors so callers can
// distinguish damaged bytes from programming errors.
package descriptor
