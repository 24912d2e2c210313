// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// # Credential Sealing
//
// The bearer token is persisted on the device so the session survives
// restarts. It is never written in the clear: the blob is encrypted with a
// key derived from the device secret, so a copied database file is useless
// without the device's environment.

// Sealer encrypts and decrypts small credential blobs with a device-bound key.
type Sealer struct {
	key [chacha20poly1305.KeySize]byte
}

// NewSealer derives a sealing key from the device secret.
func NewSealer(deviceSecret string) (*Sealer, error) {
	if deviceSecret == "" {
		return nil, fmt.Errorf("sec: device secret must not be empty")
	}
	sealer := &Sealer{key: sha256.Sum256([]byte(deviceSecret))}
	return sealer, nil
}

/*
Seal encrypts plaintext and returns a base64 blob safe to store as a string.

Parameters:
  - plaintext: []byte

Returns:
  - string: base64(nonce || ciphertext)
  - error: entropy or cipher initialization failures
*/
func (sealer *Sealer) Seal(plaintext []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(sealer.key[:])
	if err != nil {
		return "", fmt.Errorf("sec: seal cipher init failed: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("sec: seal nonce generation failed: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

/*
Open decrypts a blob previously produced by [Sealer.Seal].

Description: Fails on truncation, tampering, or a mismatched device secret.

Parameters:
  - blob: string

Returns:
  - []byte: original plaintext
  - error: decoding or authentication failures
*/
func (sealer *Sealer) Open(blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("sec: sealed blob is not valid base64: %w", err)
	}

	aead, err := chacha20poly1305.NewX(sealer.key[:])
	if err != nil {
		return nil, fmt.Errorf("sec: open cipher init failed: %w", err)
	}

	if len(raw) < aead.NonceSize() {
		return nil, fmt.Errorf("sec: sealed blob is truncated")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("sec: sealed blob failed authentication: %w", err)
	}
	return plaintext, nil
}
