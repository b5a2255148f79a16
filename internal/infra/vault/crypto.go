// Package vault encrypts short secrets (OAuth tokens, client-submitted text)
// with XChaCha20-Poly1305.
package vault

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrNoKey = errors.New("vault: encryption key not configured")

type Vault struct {
	key []byte
}

// New builds a vault from a hex-encoded 32-byte key.
func New(hexKey string) (*Vault, error) {
	if hexKey == "" {
		return nil, ErrNoKey
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("vault: decode key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("vault: key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &Vault{key: key}, nil
}

// Encrypt returns hex(nonce || ciphertext).
func (v *Vault) Encrypt(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

func (v *Vault) Decrypt(cipherHex string) (string, error) {
	raw, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", fmt.Errorf("vault: decode ciphertext: %w", err)
	}

	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.New("vault: ciphertext too short")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.New("vault: decryption failed (wrong key or tampered data)")
	}
	return string(plaintext), nil
}
