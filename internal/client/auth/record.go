package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nodevault/internal/cryptox"
)

// RecordVersion is the on-disk schema version written by this build.
const RecordVersion = 1

// ErrInvalidRecord marks an auth record that was read but cannot be trusted.
var ErrInvalidRecord = errors.New("invalid auth record")

// Record is the persisted proof of enrollment. It holds the salted, iterated
// hash of the master password and never the password itself.
//
// []byte fields are encoded as standard base64 by encoding/json, which is
// exactly the on-disk format.
type Record struct {
	Salt       []byte `json:"salt"`
	KeyHash    []byte `json:"key_hash"`
	Iterations int    `json:"iterations"`
	Version    int    `json:"version"`
}

// Validate checks the structural invariants of a loaded record.
func (r *Record) Validate() error {
	switch {
	case len(r.Salt) != cryptox.SaltSize:
		return fmt.Errorf("%w: salt is %d bytes, want %d", ErrInvalidRecord, len(r.Salt), cryptox.SaltSize)
	case len(r.KeyHash) != cryptox.KeySize:
		return fmt.Errorf("%w: key hash is %d bytes, want %d", ErrInvalidRecord, len(r.KeyHash), cryptox.KeySize)
	case r.Iterations <= 0:
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidRecord, r.Iterations)
	case r.Version < 1 || r.Version > RecordVersion:
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidRecord, r.Version)
	}
	return nil
}

// MarshalRecord encodes r in the on-disk JSON format.
func MarshalRecord(r *Record) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalRecord decodes and validates the on-disk JSON format. Files written
// before iterations or version were stored get the historical defaults.
func UnmarshalRecord(data []byte) (*Record, error) {
	var raw struct {
		Salt       []byte `json:"salt"`
		KeyHash    []byte `json:"key_hash"`
		Iterations *int   `json:"iterations"`
		Version    *int   `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	r := &Record{
		Salt:       raw.Salt,
		KeyHash:    raw.KeyHash,
		Iterations: cryptox.DefaultIterations,
		Version:    1,
	}
	if raw.Iterations != nil {
		r.Iterations = *raw.Iterations
	}
	if raw.Version != nil {
		r.Version = *raw.Version
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
