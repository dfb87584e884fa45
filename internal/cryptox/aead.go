package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// ErrSealedTooShort is returned by Open when the input cannot hold a nonce
// and an authentication tag.
var ErrSealedTooShort = errors.New("sealed data too short")

// NewAEAD builds AES-GCM for key, which must be 16, 24 or 32 bytes long.
func NewAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return aead, nil
}

// Seal encrypts plaintext with a fresh random nonce and returns nonce||ciphertext.
// additionalData is authenticated but not encrypted.
func Seal(aead cipher.AEAD, plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open reverses Seal. Any modification of sealed or additionalData makes it fail.
func Open(aead cipher.AEAD, sealed, additionalData []byte) ([]byte, error) {
	ns := aead.NonceSize()
	if len(sealed) < ns+aead.Overhead() {
		return nil, ErrSealedTooShort
	}
	return aead.Open(nil, sealed[:ns], sealed[ns:], additionalData)
}
