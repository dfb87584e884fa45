package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/nodevault/internal/common"
	"github.com/dmitrijs2005/nodevault/internal/filex"
	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// FileStorage keeps the auth record as a JSON file. Writes go through a
// temporary file and a rename; a sibling "<path>.lock" file serialises
// enrollment between processes.
type FileStorage struct {
	path string
	lock *flock.Flock
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the location of the record file.
func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Load(ctx context.Context) (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return UnmarshalRecord(data)
}

func (s *FileStorage) SaveAtomic(ctx context.Context, r *Record) error {
	data, err := MarshalRecord(r)
	if err != nil {
		return fmt.Errorf("encode auth record: %w", err)
	}
	if _, err := filex.EnsureDir(filepath.Dir(s.path)); err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.path, data, 0o600)
}

func (s *FileStorage) Lock(ctx context.Context) (func(), error) {
	if _, err := filex.EnsureDir(filepath.Dir(s.path)); err != nil {
		return nil, err
	}
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", s.lock.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: not acquired", s.lock.Path())
	}
	return func() { _ = s.lock.Unlock() }, nil
}
