// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"

	"github.com/laminadb/lamina/descriptor"
)

// Raw is the identity codec over byte slices. Encode returns the
// caller's slice unchanged (the only codec whose output aliases its
// input), so pipelines over pre-encoded data add no copies. Decode
// clones, because decoded values outlive the transaction that produced
// the source bytes.
//
// Raw is also the only codec valid for serialize directions that skip
// encoding on write (none, on-read): those directions store the
// caller's bytes verbatim, which is meaningless for typed values.
type Raw struct{}

// Method returns the raw-bytes protocol constant.
func (Raw) Method() descriptor.Method {
	return descriptor.MethodRawBytes
}

// Encode returns the value itself, without copying.
func (Raw) Encode(value []byte) ([]byte, error) {
	return value, nil
}

// Decode returns a copy of the data, so the result never aliases
// store memory.
func (Raw) Decode(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}
