package vault

import (
	"errors"
	"strings"
	"testing"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestEncryptDecrypt(t *testing.T) {
	v, err := New(testKey)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ciphertext, err := v.Encrypt("ya29.refresh-token")
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}
	if strings.Contains(ciphertext, "refresh") {
		t.Fatal("Ciphertext leaks plaintext")
	}

	again, _ := v.Encrypt("ya29.refresh-token")
	if again == ciphertext {
		t.Error("Expected a fresh nonce per encryption")
	}

	plaintext, err := v.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decryption failed: %v", err)
	}
	if plaintext != "ya29.refresh-token" {
		t.Errorf("Expected round trip, got %q", plaintext)
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	v1, _ := New(testKey)
	v2, _ := New(strings.Repeat("ab", 32))

	ciphertext, err := v1.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}
	if _, err := v2.Decrypt(ciphertext); err == nil {
		t.Fatal("Decryption should fail with the wrong key")
	}
}

func TestNewRejectsBadKeys(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrNoKey) {
		t.Errorf("Expected ErrNoKey, got %v", err)
	}
	if _, err := New("zz"); err == nil {
		t.Error("Expected hex decode error")
	}
	if _, err := New("abcd"); err == nil {
		t.Error("Expected key size error")
	}
}

func TestDecryptTooShort(t *testing.T) {
	v, _ := New(testKey)
	if _, err := v.Decrypt("abcd"); err == nil {
		t.Error("Expected error for short ciphertext")
	}
}
