package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Error kinds. Typed errors below match these via errors.Is.
	ErrValidation  = errors.New("validation error")
	ErrPersistence = errors.New("persistence error")
	ErrDecryption  = errors.New("decryption error")

	// Enrollment / session flow.
	ErrAlreadyEnrolled = errors.New("master password already enrolled")
	ErrAlreadyUnlocked = errors.New("session already unlocked")
	ErrSessionClosed   = errors.New("session closed")
	ErrCancelled       = errors.New("cancelled by user")
)

// ValidationError reports user input that must be corrected before the
// operation can proceed (password too short, confirmation mismatch, missing
// required field).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PersistenceError wraps a storage failure. Op names the storage step that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// DecryptionError is returned when a secret token fails authentication or
// cannot be decoded. It never carries partial plaintext.
type DecryptionError struct {
	Err error
}

func (e *DecryptionError) Error() string {
	if e.Err == nil {
		return "decryption error"
	}
	return "decryption error: " + e.Err.Error()
}

func (e *DecryptionError) Unwrap() error { return e.Err }

func (e *DecryptionError) Is(target error) bool { return target == ErrDecryption }
