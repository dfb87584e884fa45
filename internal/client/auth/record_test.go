package auth

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func TestMarshalRecord_Format(t *testing.T) {
	r := &Record{
		Salt:       bytes.Repeat([]byte{1}, 16),
		KeyHash:    bytes.Repeat([]byte{2}, 32),
		Iterations: 310000,
		Version:    1,
	}
	data, err := MarshalRecord(r)
	require.NoError(t, err)

	want := fmt.Sprintf(`{"salt":%q,"key_hash":%q,"iterations":310000,"version":1}`,
		b64(r.Salt), b64(r.KeyHash))
	assert.JSONEq(t, want, string(data))
}

func TestUnmarshalRecord(t *testing.T) {
	salt := b64(bytes.Repeat([]byte{1}, 16))
	hash := b64(bytes.Repeat([]byte{2}, 32))

	tests := []struct {
		name       string
		in         string
		wantErr    bool
		iterations int
		version    int
	}{
		{
			name:       "complete",
			in:         fmt.Sprintf(`{"salt":%q,"key_hash":%q,"iterations":1000,"version":1}`, salt, hash),
			iterations: 1000, version: 1,
		},
		{
			name:       "iterations and version default",
			in:         fmt.Sprintf(`{"salt":%q,"key_hash":%q}`, salt, hash),
			iterations: 310000, version: 1,
		},
		{name: "not json", in: `{ broken`, wantErr: true},
		{name: "bad base64", in: fmt.Sprintf(`{"salt":"!!!","key_hash":%q}`, hash), wantErr: true},
		{name: "short salt", in: fmt.Sprintf(`{"salt":%q,"key_hash":%q}`, b64([]byte{1, 2}), hash), wantErr: true},
		{name: "short hash", in: fmt.Sprintf(`{"salt":%q,"key_hash":%q}`, salt, b64([]byte{1})), wantErr: true},
		{name: "zero iterations", in: fmt.Sprintf(`{"salt":%q,"key_hash":%q,"iterations":0}`, salt, hash), wantErr: true},
		{name: "future version", in: fmt.Sprintf(`{"salt":%q,"key_hash":%q,"version":2}`, salt, hash), wantErr: true},
		{name: "empty object", in: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := UnmarshalRecord([]byte(tt.in))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRecord)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.iterations, r.Iterations)
			assert.Equal(t, tt.version, r.Version)
			assert.Len(t, r.Salt, 16)
			assert.Len(t, r.KeyHash, 32)
		})
	}
}
