// Package vault turns the verified master password into the session's
// Vault Cipher, which encrypts individual secret fields into self-contained
// string tokens.
package vault

import (
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nodevault/internal/common"
	"github.com/dmitrijs2005/nodevault/internal/cryptox"
)

const (
	// keyInfo separates the vault key from any other use of the password.
	keyInfo = "nodevault/vault-key/v1"

	tokenVersion byte = 0x01
)

var (
	errBadEncoding     = errors.New("token is not valid base64url")
	errUnknownVersion  = errors.New("unknown token version")
	errTokenIncomplete = errors.New("token truncated")
)

var tokenEncoding = base64.RawURLEncoding.Strict()

// Cipher encrypts and decrypts secret fields. It is immutable after New and
// safe for concurrent use.
//
// A Cipher built without a password is inert: Encrypt and Decrypt return
// their input unchanged. Callers that require protection must check Enabled.
type Cipher struct {
	aead       cipher.AEAD
	salt       []byte
	iterations int
}

// New derives the vault key from password and salt. A nil salt is replaced by
// a freshly generated one, available through Salt so it can be persisted.
// An empty password yields an inert Cipher.
func New(password, salt []byte, iterations int) (*Cipher, error) {
	if len(password) == 0 {
		return &Cipher{}, nil
	}
	if iterations <= 0 {
		iterations = cryptox.DefaultIterations
	}
	if salt == nil {
		var err error
		if salt, err = cryptox.NewSalt(); err != nil {
			return nil, err
		}
	}

	master := cryptox.DeriveKey(password, salt, iterations)
	defer common.WipeByteArray(master)

	key, err := cryptox.DeriveSubkey(master, keyInfo)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	aead, err := cryptox.NewAEAD(key)
	if err != nil {
		return nil, err
	}

	return &Cipher{
		aead:       aead,
		salt:       append([]byte(nil), salt...),
		iterations: iterations,
	}, nil
}

// Enabled reports whether the cipher actually protects data.
func (c *Cipher) Enabled() bool { return c != nil && c.aead != nil }

// Salt returns a copy of the vault salt, or nil for an inert cipher.
func (c *Cipher) Salt() []byte {
	if !c.Enabled() {
		return nil
	}
	return append([]byte(nil), c.salt...)
}

// Iterations returns the work factor the key was derived with.
func (c *Cipher) Iterations() int { return c.iterations }

// Encrypt seals plaintext into a token. The empty string stays empty.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" || !c.Enabled() {
		return plaintext, nil
	}

	ad := []byte{tokenVersion}
	sealed, err := cryptox.Seal(c.aead, []byte(plaintext), ad)
	if err != nil {
		return "", fmt.Errorf("encrypt secret: %w", err)
	}

	raw := make([]byte, 0, 1+len(sealed))
	raw = append(raw, tokenVersion)
	raw = append(raw, sealed...)
	return tokenEncoding.EncodeToString(raw), nil
}

// Decrypt opens a token produced by Encrypt under the same key. Any failure,
// including a token from a different key or salt, is a *common.DecryptionError.
// The empty string stays empty.
func (c *Cipher) Decrypt(token string) (string, error) {
	if token == "" || !c.Enabled() {
		return token, nil
	}

	raw, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return "", &common.DecryptionError{Err: errBadEncoding}
	}
	if len(raw) < 1 {
		return "", &common.DecryptionError{Err: errTokenIncomplete}
	}
	if raw[0] != tokenVersion {
		return "", &common.DecryptionError{Err: errUnknownVersion}
	}

	plain, err := cryptox.Open(c.aead, raw[1:], raw[:1])
	if err != nil {
		if errors.Is(err, cryptox.ErrSealedTooShort) {
			err = errTokenIncomplete
		}
		return "", &common.DecryptionError{Err: err}
	}
	return string(plain), nil
}
