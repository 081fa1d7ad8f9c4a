package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/banksampah/banksampah/internal/ledger"
)

func TestServiceRegisterAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Siti  ")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Name != "Siti" || user.ID == "" {
		t.Fatalf("unexpected user %+v", user)
	}

	fetched, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.ID != user.ID {
		t.Fatalf("expected %s, got %s", user.ID, fetched.ID)
	}
}

func TestServiceRegisterRequiresName(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Register(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestServiceGetMissing(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, ledger.ErrUserNotFound) || !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestServiceListSortedByName(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	for _, name := range []string{"budi", "Agus", "Citra"} {
		if _, err := svc.Register(ctx, name); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 || users[0].Name != "Agus" || users[1].Name != "budi" || users[2].Name != "Citra" {
		t.Fatalf("unexpected order %+v", users)
	}
}
