// Package session implements the start-up gate: it decides between
// enrollment and login, drives the prompts until the master password is
// accepted, and hands out the Vault Cipher for the rest of the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/nodevault/internal/client/auth"
	"github.com/dmitrijs2005/nodevault/internal/client/vault"
	"github.com/dmitrijs2005/nodevault/internal/common"
	"github.com/dmitrijs2005/nodevault/internal/logging"
)

type State int

const (
	StateUnenrolled State = iota
	StateLocked
	StateUnlocked
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnenrolled:
		return "unenrolled"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Authenticator is the part of the Auth Store the gate depends on.
type Authenticator interface {
	IsEnrolled(ctx context.Context) bool
	Enroll(ctx context.Context, password []byte) error
	Verify(ctx context.Context, password []byte) bool
	CheckPassword(password []byte) error
}

// Prompter collects passwords from the user. Returning common.ErrCancelled
// aborts Unlock. Passwords handed back are wiped by the gate after use.
type Prompter interface {
	Enrollment(ctx context.Context, minLength int) (password, confirmation []byte, err error)
	Login(ctx context.Context) ([]byte, error)
	Notify(ctx context.Context, msg string)
}

// CipherOpener builds the session cipher from the verified password.
type CipherOpener func(ctx context.Context, password []byte) (*vault.Cipher, error)

// Gate is the Session Gate state machine. Unlock calls are serialised.
type Gate struct {
	auth      Authenticator
	prompter  Prompter
	open      CipherOpener
	logger    logging.Logger
	minLength int

	mu     sync.Mutex
	state  State
	cipher *vault.Cipher
}

// NewGate inspects the Auth Store once to pick the initial state.
func NewGate(ctx context.Context, a Authenticator, p Prompter, open CipherOpener, logger logging.Logger, minLength int) *Gate {
	if logger == nil {
		logger = logging.Discard()
	}
	if minLength <= 0 {
		minLength = auth.DefaultMinPasswordLength
	}
	g := &Gate{
		auth:      a,
		prompter:  p,
		open:      open,
		logger:    logger.With("component", "session"),
		minLength: minLength,
		state:     StateLocked,
	}
	if !a.IsEnrolled(ctx) {
		g.state = StateUnenrolled
	}
	return g
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Cipher returns the session cipher, or nil unless the gate is unlocked.
func (g *Gate) Cipher() *vault.Cipher {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cipher
}

// Unlock runs enrollment or login until the master password is accepted and
// returns the session's Vault Cipher. Wrong passwords and validation failures
// are reported through the Prompter and retried without limit.
func (g *Gate) Unlock(ctx context.Context) (*vault.Cipher, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch g.state {
		case StateUnlocked:
			return nil, common.ErrAlreadyUnlocked
		case StateClosed:
			return nil, common.ErrSessionClosed
		case StateUnenrolled:
			c, err := g.enroll(ctx)
			if err != nil || c != nil {
				return c, err
			}
		case StateLocked:
			c, err := g.login(ctx)
			if err != nil || c != nil {
				return c, err
			}
		}
	}
}

// Close ends the session. The gate cannot be unlocked again.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateClosed
	g.cipher = nil
}

// enroll performs one enrollment attempt. A nil cipher with a nil error means
// "ask again".
func (g *Gate) enroll(ctx context.Context) (*vault.Cipher, error) {
	password, confirmation, err := g.prompter.Enrollment(ctx, g.minLength)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(password)
	defer common.WipeByteArray(confirmation)

	if err := g.auth.CheckPassword(password); err != nil {
		g.notifyTooShort(ctx)
		return nil, nil
	}
	if err := auth.ConfirmPassword(password, confirmation); err != nil {
		g.prompter.Notify(ctx, "Passwords do not match.")
		return nil, nil
	}

	err = g.auth.Enroll(ctx, password)
	switch {
	case err == nil:
		g.state = StateLocked
		g.prompter.Notify(ctx, "Master password saved.")
		return g.unlocked(ctx, password)
	case errors.Is(err, common.ErrValidation):
		g.notifyTooShort(ctx)
		return nil, nil
	case errors.Is(err, common.ErrAlreadyEnrolled):
		g.logger.Warn(ctx, "enrolled concurrently by another process, switching to login")
		g.prompter.Notify(ctx, "A master password already exists. Please log in.")
		g.state = StateLocked
		return nil, nil
	default:
		g.logger.Error(ctx, "enrollment failed", "err", err)
		return nil, err
	}
}

func (g *Gate) notifyTooShort(ctx context.Context) {
	g.prompter.Notify(ctx, fmt.Sprintf("Password too short (minimum %d characters).", g.minLength))
}

func (g *Gate) login(ctx context.Context) (*vault.Cipher, error) {
	password, err := g.prompter.Login(ctx)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(password)

	if !g.auth.Verify(ctx, password) {
		g.logger.Info(ctx, "master password rejected")
		g.prompter.Notify(ctx, "Wrong password. Try again.")
		return nil, nil
	}
	return g.unlocked(ctx, password)
}

func (g *Gate) unlocked(ctx context.Context, password []byte) (*vault.Cipher, error) {
	c, err := g.open(ctx, password)
	if err != nil {
		g.logger.Error(ctx, "opening vault cipher failed", "err", err)
		return nil, fmt.Errorf("open vault: %w", err)
	}
	g.state = StateUnlocked
	g.cipher = c
	g.logger.Info(ctx, "session unlocked")
	return c, nil
}
