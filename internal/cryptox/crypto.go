// Package cryptox implements the symmetric payload encryption used by the
// user-data clients: values are serialized to JSON and sealed with
// AES-256-GCM under a key derived from a caller-supplied token.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// keyInfo binds derived keys to this scheme so the same token used
// elsewhere never yields the same AES key.
const keyInfo = "userdata-go/payload/v1"

const nonceSize = 12

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrInvalidPlaintext  = errors.New("decrypted content is not valid JSON")
)

// DeriveKey stretches an arbitrary-length token into a 32-byte AES key
// using HKDF-SHA256. Deterministic: the same token always produces the
// same key.
func DeriveKey(token string) []byte {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(token), nil, []byte(keyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		// HKDF cannot fail for a 32-byte read with SHA-256.
		panic(err)
	}
	return key
}

// Encrypt serializes v to JSON and encrypts it with AES-256-GCM under a key
// derived from token. A fresh random nonce is generated per call, so two
// encryptions of the same value produce different ciphertext. The result is
// base64url(nonce || sealed).
func Encrypt(token string, v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serializing payload: %w", err)
	}

	aesgcm, err := newGCM(token)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := aesgcm.Seal(nonce, nonce, plaintext, nil)

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt and unmarshals the recovered JSON into v.
// A wrong key, corrupted ciphertext, or non-JSON plaintext all fail without
// exposing any partially decrypted content.
func Decrypt(token, ciphertext string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return ErrInvalidCiphertext
	}
	if len(raw) < nonceSize {
		return ErrInvalidCiphertext
	}

	aesgcm, err := newGCM(token)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return ErrInvalidCiphertext
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return ErrInvalidPlaintext
	}

	return nil
}

func newGCM(token string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(DeriveKey(token))
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("initializing GCM: %w", err)
	}
	return aesgcm, nil
}
