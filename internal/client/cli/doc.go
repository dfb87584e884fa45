// Package cli provides the interactive NodeVault command-line client.
//
// It wires configuration, the master-password auth file, the local SQLite
// record store and the session gate, then runs a small REPL over stdin.
// Typical flow: enroll or log in with the master password, then manage
// wallets until the user locks the vault or exits.
//
// Commands:
//   - addwallet           add a wallet (private key is read without echo)
//   - list | l            list wallets
//   - show [id]           show one wallet including its private key
//   - delete [id]         delete a wallet
//   - lock | exit | quit  end the session
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
