package vault

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/nodevault/internal/common"
	"github.com/dmitrijs2005/nodevault/internal/cryptox"
)

// Metadata keys under which the vault salt and its work factor are kept.
const (
	SaltKey       = "vault.salt"
	IterationsKey = "vault.iterations"
)

// SaltStore is the key/value store holding vault parameters. Get returns
// (nil, nil) for a missing key.
type SaltStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Open builds the session cipher from password, reusing the persisted vault
// salt and iteration count. On first use it generates a salt, derives with
// iterations and persists both so later sessions derive the same key.
func Open(ctx context.Context, password []byte, store SaltStore, iterations int) (*Cipher, error) {
	salt, err := store.Get(ctx, SaltKey)
	if err != nil {
		return nil, persistErr("load vault salt", err)
	}

	if salt != nil {
		if len(salt) != cryptox.SaltSize {
			return nil, persistErr("load vault salt", fmt.Errorf("stored salt is %d bytes, want %d", len(salt), cryptox.SaltSize))
		}
		stored, err := loadIterations(ctx, store)
		if err != nil {
			return nil, err
		}
		return New(password, salt, stored)
	}

	c, err := New(password, nil, iterations)
	if err != nil {
		return nil, err
	}
	if !c.Enabled() {
		return c, nil
	}
	if err := store.Set(ctx, IterationsKey, []byte(strconv.Itoa(c.Iterations()))); err != nil {
		return nil, persistErr("save vault iterations", err)
	}
	if err := store.Set(ctx, SaltKey, c.Salt()); err != nil {
		return nil, persistErr("save vault salt", err)
	}
	return c, nil
}

func loadIterations(ctx context.Context, store SaltStore) (int, error) {
	v, err := store.Get(ctx, IterationsKey)
	if err != nil {
		return 0, persistErr("load vault iterations", err)
	}
	if v == nil {
		return cryptox.DefaultIterations, nil
	}
	n, err := strconv.Atoi(string(v))
	if err != nil || n <= 0 {
		return 0, persistErr("load vault iterations", fmt.Errorf("invalid value %q", v))
	}
	return n, nil
}

func persistErr(op string, err error) error {
	return &common.PersistenceError{Op: op, Err: err}
}
