package auth

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nodevault/internal/common"
)

// Storage persists the single auth record.
//
// Load returns common.ErrorNotFound when no record exists; any other error
// means a record may exist but could not be read or trusted.
// SaveAtomic must replace the record as a whole or not at all.
type Storage interface {
	Load(ctx context.Context) (*Record, error)
	SaveAtomic(ctx context.Context, r *Record) error
}

// Locker is implemented by storages shared between processes. The returned
// function releases the lock.
type Locker interface {
	Lock(ctx context.Context) (func(), error)
}

// MemoryStorage keeps the record in memory. The optional hooks run before the
// corresponding operation and let tests inject failures or widen race windows.
type MemoryStorage struct {
	mu     sync.Mutex
	record *Record
	data   []byte

	BeforeLoad func() error
	BeforeSave func() error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(ctx context.Context) (*Record, error) {
	if m.BeforeLoad != nil {
		if err := m.BeforeLoad(); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data != nil {
		return UnmarshalRecord(m.data)
	}
	if m.record == nil {
		return nil, common.ErrorNotFound
	}
	cp := *m.record
	return &cp, nil
}

func (m *MemoryStorage) SaveAtomic(ctx context.Context, r *Record) error {
	if m.BeforeSave != nil {
		if err := m.BeforeSave(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *r
	m.record = &cp
	m.data = nil
	return nil
}

// SetRaw stores undecoded bytes, as if a file with that content were on disk.
func (m *MemoryStorage) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.record = nil
}

// Saved returns a copy of the last saved record, or nil.
func (m *MemoryStorage) Saved() *Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		return nil
	}
	cp := *m.record
	return &cp
}
