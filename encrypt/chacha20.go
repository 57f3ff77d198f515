// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package encrypt

import (
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/laminadb/lamina/descriptor"
)

// ChaCha20 is ChaCha20-Poly1305 (RFC 8439) with a 12-byte nonce.
type ChaCha20 struct{}

func (ChaCha20) Method() descriptor.Method { return descriptor.MethodChaCha20 }

func (ChaCha20) KeySize() int { return chacha20poly1305.KeySize }

func (ChaCha20) NonceSize() int { return chacha20poly1305.NonceSize }

func (ChaCha20) AEAD(key []byte) (cipher.AEAD, error) {
	return chacha20poly1305.New(key)
}
