package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/nodevault/internal/client/auth"
	"github.com/dmitrijs2005/nodevault/internal/client/config"
	"github.com/dmitrijs2005/nodevault/internal/client/localdb"
	"github.com/dmitrijs2005/nodevault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nodevault/internal/client/repositories/wallets"
	"github.com/dmitrijs2005/nodevault/internal/client/services"
	"github.com/dmitrijs2005/nodevault/internal/client/session"
	"github.com/dmitrijs2005/nodevault/internal/client/vault"
	"github.com/dmitrijs2005/nodevault/internal/dbx"
	"github.com/dmitrijs2005/nodevault/internal/filex"
	"github.com/dmitrijs2005/nodevault/internal/logging"
)

// Unlocker is the part of the session gate the App drives.
type Unlocker interface {
	Unlock(ctx context.Context) (*vault.Cipher, error)
	Close()
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	gate    Unlocker
	wallets services.WalletService
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp prepares the data directory, opens the record store and builds the
// session gate. Nothing is unlocked until Run.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("error creating data dir: %w", err)
	}
	logger.Debug(ctx, "data dir ready", "path", dir)

	db, err := localdb.InitDatabase(ctx, c.DatabasePath())
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath(), "err", err)
		return nil, err
	}

	store := auth.NewStore(auth.NewFileStorage(c.AuthPath()), logger, auth.Options{
		MinPasswordLength: c.MinPasswordLength,
		Iterations:        c.Iterations,
	})

	// Salt and work factor are created together or not at all.
	open := func(ctx context.Context, password []byte) (*vault.Cipher, error) {
		var opened *vault.Cipher
		err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			opened, err = vault.Open(ctx, password, metadata.NewSQLiteRepository(tx), c.Iterations)
			return err
		})
		return opened, err
	}

	out := io.Writer(os.Stdout)
	gate := session.NewGate(ctx, store, &terminalPrompter{out: out}, open, logger, store.MinPasswordLength())

	return &App{
		config: c,
		logger: logger,
		db:     db,
		gate:   gate,
		reader: bufio.NewReader(os.Stdin),
		out:    out,
	}, nil
}

// Run unlocks the vault and serves commands until the user leaves. An error
// means the vault was never unlocked.
func (a *App) Run(ctx context.Context) error {
	cipher, err := a.gate.Unlock(ctx)
	if err != nil {
		return err
	}

	if a.wallets == nil {
		a.wallets = services.NewWalletService(wallets.NewSQLiteRepository(a.db), cipher, a.logger)
	}

	fmt.Fprintln(a.out, "Vault unlocked (type 'help' for commands)")
	runREPL(ctx, a, a.reader, a.out)
	return nil
}

// Close locks the session and releases the database.
func (a *App) Close() error {
	a.gate.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
