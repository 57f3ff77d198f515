// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

// Package encrypt implements the authenticated encryption stage of the
// value pipeline.
//
// Three AEAD backends are available: AES-256-GCM (hardware-accelerated
// on amd64 and arm64), ChaCha20-Poly1305 (fast everywhere, constant
// time in pure software), and XChaCha20-Poly1305 (ChaCha20 with a
// 24-byte nonce). All take 32-byte keys held in a keyring.Key.
//
// A sealed value carries its nonce and descriptor in the tail:
//
//	[ciphertext + 16-byte tag][nonce][descriptor u16]
//
// The descriptor word doubles as the AEAD associated data, so the
// ciphertext is bound to the exact layer, method, and direction that
// produced it. Flipping any descriptor bit in storage, or moving a
// ciphertext under a descriptor it was not sealed with, fails
// authentication rather than decrypting to garbage.
//
// Nonces are drawn from crypto/rand by default. With random nonces the
// 12-byte-nonce backends (AES-GCM, ChaCha20-Poly1305) must not seal
// more than 2^32 values under one key (NIST SP 800-38D); past that,
// rotate keys, supply an externally managed nonce source, or use
// XChaCha20-Poly1305, whose 24-byte nonce makes collisions negligible
// at any write volume.
package encrypt
