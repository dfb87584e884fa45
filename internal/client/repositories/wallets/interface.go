package wallets

import (
	"context"

	"github.com/dmitrijs2005/nodevault/internal/client/models"
)

// Repository stores wallet rows as they are; it never sees plaintext keys.
type Repository interface {
	Create(ctx context.Context, w *models.Wallet) error

	// GetAll returns wallets ordered by name.
	GetAll(ctx context.Context) ([]models.Wallet, error)

	// GetByID returns common.ErrorNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*models.Wallet, error)

	// DeleteByID returns common.ErrorNotFound for an unknown id.
	DeleteByID(ctx context.Context, id string) error
}
