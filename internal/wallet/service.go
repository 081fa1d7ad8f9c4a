package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/banksampah/banksampah/internal/identity"
	"github.com/banksampah/banksampah/internal/ledger"
)

// Store is the subset of the record store the wallet view reads and provisions.
type Store interface {
	WalletByOwner(ctx context.Context, userID string) (ledger.Wallet, error)
	CreateWallet(ctx context.Context, wallet ledger.Wallet) error
	Transactions(ctx context.Context, walletID string) ([]ledger.Transaction, error)
}

// UserFinder resolves participants.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (identity.User, error)
}

// Service provisions wallets and renders statements. Balances are only ever
// written by the ledger engine.
type Service struct {
	store Store
	users UserFinder
}

// NewService builds a wallet service instance.
func NewService(store Store, users UserFinder) *Service {
	return &Service{store: store, users: users}
}

// Provision returns the user's wallet, creating an empty one if none exists.
func (s *Service) Provision(ctx context.Context, userID string) (ledger.Wallet, bool, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return ledger.Wallet{}, false, err
	}
	existing, err := s.store.WalletByOwner(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ledger.ErrWalletMissing) {
		return ledger.Wallet{}, false, err
	}

	now := time.Now().UTC()
	w := ledger.Wallet{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateWallet(ctx, w); err != nil {
		if errors.Is(err, ledger.ErrWalletExists) {
			// Lost a provisioning race; the other wallet is the one.
			existing, err := s.store.WalletByOwner(ctx, userID)
			return existing, false, err
		}
		return ledger.Wallet{}, false, err
	}
	return w, true, nil
}

// Statement returns the user's wallet and its transactions, newest first.
func (s *Service) Statement(ctx context.Context, userID string) (Statement, error) {
	w, err := s.store.WalletByOwner(ctx, userID)
	if err != nil {
		return Statement{}, err
	}
	txs, err := s.store.Transactions(ctx, w.ID)
	if err != nil {
		return Statement{}, err
	}
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}
	return Statement{Wallet: w, Transactions: txs}, nil
}
