package cli

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/nodevault/internal/client/config"
	"github.com/dmitrijs2005/nodevault/internal/client/localdb"
	"github.com/dmitrijs2005/nodevault/internal/client/models"
	"github.com/dmitrijs2005/nodevault/internal/client/repositories/wallets"
	"github.com/dmitrijs2005/nodevault/internal/client/services"
	"github.com/dmitrijs2005/nodevault/internal/client/vault"
	"github.com/dmitrijs2005/nodevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGate struct {
	cipher *vault.Cipher
	err    error
	closed bool
}

func (g *fakeGate) Unlock(context.Context) (*vault.Cipher, error) { return g.cipher, g.err }
func (g *fakeGate) Close() { g.closed = true }

func testCipher(t *testing.T) *vault.Cipher {
	t.Helper()
	c, err := vault.New([]byte("correct-horse-battery"), nil, 1000)
	require.NoError(t, err)
	return c
}

// newTestApp builds an App over an in-memory store with the given input.
func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	db, err := localdb.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var out bytes.Buffer
	return &App{
		db:      db,
		gate:    &fakeGate{},
		wallets: services.NewWalletService(wallets.NewSQLiteRepository(db), testCipher(t), nil),
		reader:  bufio.NewReader(bytes.NewBufferString(input)),
		out:     &out,
	}, &out
}

func TestNewApp_CreatesStoreAndGate(t *testing.T) {
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.DataDir = filepath.Join(t.TempDir(), "nv")
	cfg.Iterations = 1000

	app, err := NewApp(context.Background(), &cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	_, err = os.Stat(cfg.DatabasePath())
	require.NoError(t, err)
	_, err = os.Stat(cfg.AuthPath())
	assert.True(t, os.IsNotExist(err), "auth record is only written on enrollment")

	info, err := os.Stat(cfg.DataDir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestNewApp_EnrollThenLogin(t *testing.T) {
	ctx := context.Background()

	var cfg config.Config
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()
	cfg.Iterations = 1000

	first, err := NewApp(ctx, &cfg, nil)
	require.NoError(t, err)
	first.reader = rdr("addwallet\nmain\n0xabc\n\n\n\n\nexit\n")
	first.out = &bytes.Buffer{}
	stubPasswords(t, "correct-horse-battery", "correct-horse-battery", "0xPRIVATE")
	require.NoError(t, first.Run(ctx))
	require.NoError(t, first.Close())

	_, err = os.Stat(cfg.AuthPath())
	require.NoError(t, err, "enrollment writes the auth record")

	second, err := NewApp(ctx, &cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	second.reader = rdr("exit\n")
	second.out = &bytes.Buffer{}
	stubPasswords(t, "wrong password!", "correct-horse-battery")
	require.NoError(t, second.Run(ctx))

	list, err := second.wallets.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Unreadable)
	assert.Equal(t, "0xPRIVATE", list[0].PrivateKey, "vault key is stable across sessions")
}

func TestRun_UnlockFailureStopsBeforeREPL(t *testing.T) {
	app, out := newTestApp(t, "list\n")
	app.wallets = nil
	app.gate = &fakeGate{err: common.ErrCancelled}

	err := app.Run(context.Background())
	require.ErrorIs(t, err, common.ErrCancelled)
	assert.Empty(t, out.String())
	assert.Nil(t, app.wallets)
}

func TestRun_UnlockThenServe(t *testing.T) {
	stubPasswords(t, "0xPRIVATE")
	app, out := newTestApp(t, "addwallet\nmain\n0xabc\nethereum\n\n\n\nlist\nexit\n")
	app.wallets = nil
	gate := &fakeGate{cipher: testCipher(t)}
	app.gate = gate

	require.NoError(t, app.Run(context.Background()))
	require.NotNil(t, app.wallets)

	assert.Contains(t, out.String(), "Vault unlocked")
	assert.Contains(t, out.String(), "Wallet added: ")
	assert.Contains(t, out.String(), "0xabc")
	assert.Contains(t, out.String(), "Vault unlocked (type 'help' for commands)\nnodevault> ")
	assert.True(t, strings.HasSuffix(out.String(), "nodevault> Vault locked. Bye!\n"))

	require.NoError(t, app.Close())
	assert.True(t, gate.closed)
}

func TestAddWallet_Defaults(t *testing.T) {
	stubPasswords(t, "0xPRIVATE")
	app, out := newTestApp(t, "cold storage\n0xdef\nbitcoin\n\n\nline one\nline two\n\n")

	require.NoError(t, app.AddWallet(context.Background()))
	assert.Contains(t, out.String(), "Wallet added: ")

	list, err := app.wallets.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	w := list[0]
	assert.Equal(t, "cold storage", w.Name)
	assert.Equal(t, models.DefaultWalletType, w.Type)
	assert.Equal(t, models.DefaultBalance, w.Balance)
	assert.Equal(t, "0xPRIVATE", w.PrivateKey)
	assert.Equal(t, "line one\nline two", w.Notes)
}

func TestAddWallet_ValidationError(t *testing.T) {
	stubPasswords(t, "")
	app, _ := newTestApp(t, "\n0xdef\n\n\n\n\n")

	err := app.AddWallet(context.Background())
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "")

	require.NoError(t, app.List(ctx))
	assert.Contains(t, out.String(), "No wallets yet.")

	_, err := app.wallets.Add(ctx, models.Wallet{Name: "main", Address: "0xabc", PrivateKey: "0xPRIVATE"})
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, app.List(ctx))
	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "main")
	assert.NotContains(t, out.String(), "0xPRIVATE", "listing never prints keys")
}

func TestShowAndDelete(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t, "n\ny\n")

	w, err := app.wallets.Add(ctx, models.Wallet{Name: "main", Address: "0xabc", PrivateKey: "0xPRIVATE", Notes: "n1"})
	require.NoError(t, err)

	require.NoError(t, app.Show(ctx, w.ID))
	assert.Contains(t, out.String(), "Private key: 0xPRIVATE")
	assert.Contains(t, out.String(), "Notes:\nn1")

	require.NoError(t, app.Delete(ctx, w.ID))
	assert.Contains(t, out.String(), "Cancelled.")
	_, err = app.wallets.Get(ctx, w.ID)
	require.NoError(t, err)

	require.NoError(t, app.Delete(ctx, w.ID))
	assert.Contains(t, out.String(), "Deleted.")
	_, err = app.wallets.Get(ctx, w.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestShow_AsksForID(t *testing.T) {
	ctx := context.Background()

	app, _ := newTestApp(t, "\n")
	require.ErrorIs(t, app.Show(ctx, ""), common.ErrValidation)

	app, _ = newTestApp(t, "missing\n")
	require.ErrorIs(t, app.Show(ctx, ""), common.ErrorNotFound)
}
