package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/banksampah/banksampah/internal/identity"
	"github.com/banksampah/banksampah/internal/ledger"
)

func setup(t *testing.T) (*Service, ledger.Store, identity.User) {
	t.Helper()
	users := identity.NewMemoryRepository()
	user := identity.User{ID: "u1", Name: "Rina", CreatedAt: time.Now().UTC()}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	store := ledger.NewInMemory()
	return NewService(store, users), store, user
}

func TestServiceProvisionIsIdempotent(t *testing.T) {
	svc, _, user := setup(t)
	ctx := context.Background()

	first, created, err := svc.Provision(ctx, user.ID)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if !created || first.UserID != user.ID || first.Balance != 0 {
		t.Fatalf("unexpected wallet %+v created=%v", first, created)
	}

	second, created, err := svc.Provision(ctx, user.ID)
	if err != nil {
		t.Fatalf("second provision: %v", err)
	}
	if created || second.ID != first.ID {
		t.Fatalf("expected existing wallet %s, got %s created=%v", first.ID, second.ID, created)
	}
}

func TestServiceProvisionUnknownUser(t *testing.T) {
	svc, _, _ := setup(t)
	_, _, err := svc.Provision(context.Background(), "ghost")
	if !errors.Is(err, ledger.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestServiceStatementNewestFirst(t *testing.T) {
	svc, store, user := setup(t)
	ctx := context.Background()
	if _, _, err := svc.Provision(ctx, user.ID); err != nil {
		t.Fatalf("provision: %v", err)
	}

	for _, id := range []string{"s1", "s2"} {
		err := store.CreateRequest(ctx, ledger.Request{
			ID: id, Kind: ledger.KindSubmission, UserID: user.ID, UserName: user.Name, Amount: 100,
			Status: ledger.StatusPending, RequestedAt: time.Now().UTC(),
			Submission: &ledger.SubmissionDetail{CategoryID: "c", CategoryName: "Cans", WeightGrams: decimal.NewFromInt(50)},
		})
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
	}
	engine := ledger.NewEngine(store, ledger.DefaultOptions(), zerolog.Nop(), nil, nil)
	for _, id := range []string{"s1", "s2"} {
		if _, err := engine.ApproveSubmission(ctx, id); err != nil {
			t.Fatalf("approve %s: %v", id, err)
		}
	}

	st, err := svc.Statement(ctx, user.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if st.Wallet.Balance != 200 || len(st.Transactions) != 2 {
		t.Fatalf("unexpected statement %+v", st)
	}
	if st.Transactions[0].RequestID != "s2" {
		t.Fatalf("expected newest transaction first, got %s", st.Transactions[0].RequestID)
	}
}

func TestServiceStatementWithoutWallet(t *testing.T) {
	svc, _, user := setup(t)
	_, err := svc.Statement(context.Background(), user.ID)
	if !errors.Is(err, ledger.ErrWalletMissing) {
		t.Fatalf("expected ErrWalletMissing, got %v", err)
	}
}
