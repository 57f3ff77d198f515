// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package encrypt

import (
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/laminadb/lamina/descriptor"
)

// XChaCha20 is XChaCha20-Poly1305. The extended 24-byte nonce makes
// random-nonce collisions negligible at any write volume, lifting the
// 2^32 seal ceiling the 12-byte-nonce backends carry. The extra
// HChaCha20 subkey derivation per operation is the only cost.
type XChaCha20 struct{}

func (XChaCha20) Method() descriptor.Method { return descriptor.MethodXChaCha20 }

func (XChaCha20) KeySize() int { return chacha20poly1305.KeySize }

func (XChaCha20) NonceSize() int { return chacha20poly1305.NonceSizeX }

func (XChaCha20) AEAD(key []byte) (cipher.AEAD, error) {
	return chacha20poly1305.NewX(key)
}
