// Package auth implements the master-password Auth Store: enrollment,
// verification and the enrolled/not-enrolled check, on top of a pluggable
// Storage holding a single salted PBKDF2 record.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/nodevault/internal/common"
	"github.com/dmitrijs2005/nodevault/internal/cryptox"
	"github.com/dmitrijs2005/nodevault/internal/logging"
)

// DefaultMinPasswordLength is the enrollment minimum, counted in characters.
const DefaultMinPasswordLength = 10

// Options tune a Store. Zero values fall back to the defaults.
type Options struct {
	MinPasswordLength int
	Iterations        int
}

// Store is the Auth Store. It is safe for concurrent use; Enroll calls are
// serialised in-process and, when the storage implements Locker, across
// processes too.
type Store struct {
	storage    Storage
	logger     logging.Logger
	minLength  int
	iterations int

	mu sync.Mutex
}

func NewStore(storage Storage, logger logging.Logger, opts Options) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Store{
		storage:    storage,
		logger:     logger.With("component", "auth"),
		minLength:  opts.MinPasswordLength,
		iterations: opts.Iterations,
	}
	if s.minLength <= 0 {
		s.minLength = DefaultMinPasswordLength
	}
	if s.iterations <= 0 {
		s.iterations = cryptox.DefaultIterations
	}
	return s
}

// MinPasswordLength reports the enforced minimum.
func (s *Store) MinPasswordLength() int { return s.minLength }

// IsEnrolled reports whether a readable, valid record exists.
//
// An unreadable or corrupt record counts as not enrolled so the user is sent
// to enrollment instead of being locked out; the condition is logged as a
// warning to keep it distinguishable from a first run.
func (s *Store) IsEnrolled(ctx context.Context) bool {
	_, ok := s.load(ctx)
	return ok
}

// Enroll validates password, derives its hash under a fresh salt and persists
// a new record. It never edits an existing valid record: if one is present
// (for example written by a concurrent process) it returns
// common.ErrAlreadyEnrolled.
func (s *Store) Enroll(ctx context.Context, password []byte) error {
	if err := s.CheckPassword(password); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.storage.(Locker); ok {
		unlock, err := l.Lock(ctx)
		if err != nil {
			return &common.PersistenceError{Op: "lock auth record", Err: err}
		}
		defer unlock()
	}

	if _, ok := s.load(ctx); ok {
		return common.ErrAlreadyEnrolled
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return fmt.Errorf("enroll: %w", err)
	}

	r := &Record{
		Salt:       salt,
		KeyHash:    cryptox.DeriveKey(password, salt, s.iterations),
		Iterations: s.iterations,
		Version:    RecordVersion,
	}
	if err := s.storage.SaveAtomic(ctx, r); err != nil {
		s.logger.Error(ctx, "saving auth record failed", "err", err)
		return &common.PersistenceError{Op: "save auth record", Err: err}
	}

	s.logger.Info(ctx, "master password enrolled", "iterations", r.Iterations)
	return nil
}

// Verify reports whether password matches the enrolled record. A missing or
// unreadable record yields false.
func (s *Store) Verify(ctx context.Context, password []byte) bool {
	r, ok := s.load(ctx)
	if !ok {
		return false
	}
	candidate := cryptox.DeriveKey(password, r.Salt, r.Iterations)
	defer common.WipeByteArray(candidate)

	return cryptox.Equal(candidate, r.KeyHash)
}

// CheckPassword applies the enrollment length rule without touching storage.
func (s *Store) CheckPassword(password []byte) error {
	if n := utf8.RuneCount(password); n < s.minLength {
		return &common.ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters, got %d", s.minLength, n),
		}
	}
	return nil
}

// ConfirmPassword checks that the confirmation entry matches the password.
func ConfirmPassword(password, confirmation []byte) error {
	if !cryptox.Equal(password, confirmation) {
		return &common.ValidationError{Field: "confirmation", Reason: "passwords do not match"}
	}
	return nil
}

func (s *Store) load(ctx context.Context) (*Record, bool) {
	r, err := s.storage.Load(ctx)
	switch {
	case err == nil:
		return r, true
	case errors.Is(err, common.ErrorNotFound):
		s.logger.Debug(ctx, "no auth record found")
	default:
		s.logger.Warn(ctx, "auth record unreadable, treating as not enrolled", "err", err)
	}
	return nil, false
}
