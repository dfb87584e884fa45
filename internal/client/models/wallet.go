// Package models defines client-side data models used by the NodeVault CLI.
package models

import "time"

// Defaults applied to new wallets that leave the fields blank.
const (
	DefaultWalletType = "Hot"
	DefaultBalance    = "0"
)

// Wallet is a crypto wallet record. PrivateKey holds plaintext in memory and
// a SecretToken once it reaches the repository.
type Wallet struct {
	ID      string
	Name    string
	Address string
	Network string
	Type    string
	Balance string

	PrivateKey string

	Notes string

	// CreatedAt and UpdatedAt are kept in UTC.
	CreatedAt time.Time
	UpdatedAt time.Time

	// Unreadable marks a record whose private key could not be decrypted
	// with the current vault key. PrivateKey is empty in that case.
	Unreadable bool
}
