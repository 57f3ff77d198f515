// Copyright 2026 The Lamina Authors
// SPDX-License-Identifier: Apache-2.0

package keyring

import (
	"bytes"
	"testing"
)

func TestFromBytesCopiesAndWipesSource(t *testing.T) {
	material := bytes.Repeat([]byte{0x42}, KeySize)
	key, err := FromBytes(material)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	defer key.Close()

	if !bytes.Equal(key.Bytes(), bytes.Repeat([]byte{0x42}, KeySize)) {
		t.Error("key material does not match the source")
	}
	if !bytes.Equal(material, make([]byte, KeySize)) {
		t.Error("source slice was not zeroed")
	}
}

func TestFromBytesRejectsWrongSize(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		if _, err := FromBytes(make([]byte, size)); err == nil {
			t.Errorf("FromBytes accepted %d bytes", size)
		}
	}
}

func TestFromPassphraseDeterministic(t *testing.T) {
	first, err := FromPassphrase("correct horse battery staple")
	if err != nil {
		t.Fatalf("FromPassphrase failed: %v", err)
	}
	defer first.Close()

	second, err := FromPassphrase("correct horse battery staple")
	if err != nil {
		t.Fatalf("FromPassphrase failed: %v", err)
	}
	defer second.Close()

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("same passphrase produced different keys")
	}

	other, err := FromPassphrase("correct horse battery stable")
	if err != nil {
		t.Fatalf("FromPassphrase failed: %v", err)
	}
	defer other.Close()

	if bytes.Equal(first.Bytes(), other.Bytes()) {
		t.Error("different passphrases produced the same key")
	}

	if _, err := FromPassphrase(""); err == nil {
		t.Error("empty passphrase accepted")
	}
}

func TestDeriveDomainSeparation(t *testing.T) {
	root, err := FromPassphrase("root")
	if err != nil {
		t.Fatalf("FromPassphrase failed: %v", err)
	}
	defer root.Close()

	tableA, err := root.Derive("table:users")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	defer tableA.Close()

	tableB, err := root.Derive("table:orders")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	defer tableB.Close()

	if bytes.Equal(tableA.Bytes(), tableB.Bytes()) {
		t.Error("different info strings produced the same subkey")
	}
	if bytes.Equal(tableA.Bytes(), root.Bytes()) {
		t.Error("subkey equals the parent key")
	}

	// Derivation is deterministic.
	again, err := root.Derive("table:users")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	defer again.Close()
	if !bytes.Equal(tableA.Bytes(), again.Bytes()) {
		t.Error("same info string produced different subkeys")
	}
}

func TestCloseZeroesAndPanicsOnUse(t *testing.T) {
	key, err := FromPassphrase("ephemeral")
	if err != nil {
		t.Fatalf("FromPassphrase failed: %v", err)
	}

	if err := key.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Idempotent.
	if err := key.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Bytes() on a closed key did not panic")
		}
	}()
	key.Bytes()
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	if !bytes.Equal(b, make([]byte, 4)) {
		t.Errorf("Zero left %x", b)
	}
}
