package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt-16byt")

	key1 := DeriveKey(password, salt, 1000)
	key2 := DeriveKey(password, salt, 1000)

	require.Len(t, key1, KeySize)
	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
}

// RFC 7914 section 11 PBKDF2-HMAC-SHA256 test vector.
func TestDeriveKey_KnownVector(t *testing.T) {
	key := DeriveKey([]byte("passwd"), []byte("salt"), 1)
	assert.Equal(t, "55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc", hex.EncodeToString(key))
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	base := DeriveKey(password, []byte("salt-1"), 1000)

	tests := []struct {
		name string
		key  []byte
	}{
		{"different salt", DeriveKey(password, []byte("salt-2"), 1000)},
		{"different iterations", DeriveKey(password, []byte("salt-1"), 1001)},
		{"different password", DeriveKey([]byte("secret-passwore"), []byte("salt-1"), 1000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.key)
		})
	}
}

func TestDeriveSubkey_SeparatesPurposes(t *testing.T) {
	master := DeriveKey([]byte("pw"), []byte("salt"), 10)

	a, err := DeriveSubkey(master, "purpose-a")
	require.NoError(t, err)
	b, err := DeriveSubkey(master, "purpose-b")
	require.NoError(t, err)
	again, err := DeriveSubkey(master, "purpose-a")
	require.NoError(t, err)

	assert.Len(t, a, KeySize)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, master, a)
	assert.Equal(t, a, again)
}

func TestNewSalt(t *testing.T) {
	s1, err := NewSalt()
	require.NoError(t, err)
	s2, err := NewSalt()
	require.NoError(t, err)

	assert.Len(t, s1, SaltSize)
	assert.NotEqual(t, s1, s2)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]byte{1, 2, 3}, []byte{1, 2, 3}))
	assert.False(t, Equal([]byte{1, 2, 3}, []byte{1, 2, 4}))
	assert.False(t, Equal([]byte{1, 2, 3}, []byte{1, 2}))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	aead, err := NewAEAD(bytes.Repeat([]byte{7}, KeySize))
	require.NoError(t, err)

	sealed, err := Seal(aead, []byte("hello"), []byte("ad"))
	require.NoError(t, err)
	assert.Len(t, sealed, aead.NonceSize()+len("hello")+aead.Overhead())

	plain, err := Open(aead, sealed, []byte("ad"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), plain)
}

func TestSeal_RandomNonce(t *testing.T) {
	aead, err := NewAEAD(bytes.Repeat([]byte{7}, KeySize))
	require.NoError(t, err)

	a, err := Seal(aead, []byte("same"), nil)
	require.NoError(t, err)
	b, err := Seal(aead, []byte("same"), nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpen_Failures(t *testing.T) {
	aead, err := NewAEAD(bytes.Repeat([]byte{7}, KeySize))
	require.NoError(t, err)
	other, err := NewAEAD(bytes.Repeat([]byte{8}, KeySize))
	require.NoError(t, err)

	sealed, err := Seal(aead, []byte("hello"), []byte("ad"))
	require.NoError(t, err)

	t.Run("too short", func(t *testing.T) {
		_, err := Open(aead, sealed[:10], []byte("ad"))
		assert.ErrorIs(t, err, ErrSealedTooShort)
	})
	t.Run("wrong key", func(t *testing.T) {
		_, err := Open(other, sealed, []byte("ad"))
		assert.Error(t, err)
	})
	t.Run("wrong additional data", func(t *testing.T) {
		_, err := Open(aead, sealed, []byte("xx"))
		assert.Error(t, err)
	})
	t.Run("flipped byte", func(t *testing.T) {
		for i := range sealed {
			tampered := append([]byte(nil), sealed...)
			tampered[i] ^= 0x01
			_, err := Open(aead, tampered, []byte("ad"))
			require.Error(t, err, "byte %d", i)
		}
	})
}

func TestNewAEAD_BadKey(t *testing.T) {
	_, err := NewAEAD([]byte("short"))
	assert.Error(t, err)
}
