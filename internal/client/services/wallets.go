package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/nodevault/internal/client/models"
	"github.com/dmitrijs2005/nodevault/internal/client/repositories/wallets"
	"github.com/dmitrijs2005/nodevault/internal/common"
	"github.com/dmitrijs2005/nodevault/internal/logging"
	"github.com/google/uuid"
)

// Cipher protects the secret field of a record. *vault.Cipher implements it.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(token string) (string, error)
}

type WalletService interface {
	Add(ctx context.Context, w models.Wallet) (*models.Wallet, error)
	Get(ctx context.Context, id string) (*models.Wallet, error)
	List(ctx context.Context) ([]models.Wallet, error)
	Delete(ctx context.Context, id string) error
}

type walletService struct {
	repo   wallets.Repository
	cipher Cipher
	logger logging.Logger
	now    func() time.Time
}

func NewWalletService(repo wallets.Repository, cipher Cipher, logger logging.Logger) WalletService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &walletService{
		repo:   repo,
		cipher: cipher,
		logger: logger.With("component", "wallets"),
		now:    time.Now,
	}
}

func validateWallet(w *models.Wallet) error {
	if strings.TrimSpace(w.Name) == "" {
		return &common.ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(w.Address) == "" {
		return &common.ValidationError{Field: "address", Reason: "is required"}
	}
	return nil
}

// Add stores w under a new id. The private key is encrypted right before the
// write; the returned wallet carries the plaintext the caller supplied.
func (s *walletService) Add(ctx context.Context, w models.Wallet) (*models.Wallet, error) {
	w.Name = strings.TrimSpace(w.Name)
	w.Address = strings.TrimSpace(w.Address)
	if err := validateWallet(&w); err != nil {
		return nil, err
	}

	if strings.TrimSpace(w.Type) == "" {
		w.Type = models.DefaultWalletType
	}
	if strings.TrimSpace(w.Balance) == "" {
		w.Balance = models.DefaultBalance
	}

	ts := s.now().UTC()
	w.ID = uuid.NewString()
	w.CreatedAt = ts
	w.UpdatedAt = ts
	w.Unreadable = false

	token, err := s.cipher.Encrypt(w.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	row := w
	row.PrivateKey = token
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	s.logger.Info(ctx, "wallet added", "id", w.ID)
	return &w, nil
}

// Get returns the wallet with its private key decrypted. A key that cannot be
// decrypted fails the call with a *common.DecryptionError.
func (s *walletService) Get(ctx context.Context, id string) (*models.Wallet, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pk, err := s.cipher.Decrypt(w.PrivateKey)
	if err != nil {
		s.logger.Warn(ctx, "wallet private key unreadable", "id", id)
		return nil, err
	}
	w.PrivateKey = pk
	return w, nil
}

// List returns all wallets with decrypted private keys. Records whose key
// cannot be decrypted are returned flagged Unreadable instead of failing the
// listing.
func (s *walletService) List(ctx context.Context) ([]models.Wallet, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing wallets: %w", err)
	}

	result := make([]models.Wallet, 0, len(rows))
	for _, w := range rows {
		pk, err := s.cipher.Decrypt(w.PrivateKey)
		switch {
		case err == nil:
			w.PrivateKey = pk
		case errors.Is(err, common.ErrDecryption):
			s.logger.Warn(ctx, "wallet private key unreadable", "id", w.ID)
			w.PrivateKey = ""
			w.Unreadable = true
		default:
			return nil, err
		}
		result = append(result, w)
	}
	return result, nil
}

func (s *walletService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "wallet deleted", "id", id)
	return nil
}
