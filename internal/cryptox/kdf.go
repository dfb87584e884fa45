// Package cryptox holds the cryptographic primitives used by the vault:
// password-based key derivation, purpose separation and AES-GCM sealing.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor for new enrollments.
	// Records keep the count they were created with.
	DefaultIterations = 310_000

	// SaltSize is the length of every salt generated by NewSalt.
	SaltSize = 16

	// KeySize is the length of derived keys (AES-256).
	KeySize = 32
)

// DeriveKey stretches password with PBKDF2-HMAC-SHA256.
//
// The result is deterministic for identical inputs. Its cost is proportional
// to iterations only, never to how close the password is to a stored one.
func DeriveKey(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
}

// DeriveSubkey binds key material to a purpose using HKDF-SHA256. Different
// info strings yield unrelated keys from the same master.
func DeriveSubkey(master []byte, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, master, nil, []byte(info))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}
	return key, nil
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Equal compares a and b in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
