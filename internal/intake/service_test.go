package intake

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksampah/banksampah/internal/identity"
	"github.com/banksampah/banksampah/internal/ledger"
	"github.com/banksampah/banksampah/internal/pricing"
)

type fixture struct {
	store  ledger.Store
	engine *ledger.Engine
	svc    *Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	users := identity.NewMemoryRepository()
	require.NoError(t, users.Create(ctx, identity.User{ID: "u1", Name: "Dewi", CreatedAt: time.Now().UTC()}))
	require.NoError(t, users.Create(ctx, identity.User{ID: "u2", Name: "Eko", CreatedAt: time.Now().UTC()}))

	categories := pricing.NewMemoryRepository(
		pricing.Category{ID: "plastic", Name: "Plastic", Price: decimal.NewFromInt(2), Unit: pricing.UnitGram},
		pricing.Category{ID: "copper", Name: "Copper", Price: decimal.NewFromInt(60000), Unit: pricing.UnitKilogram},
		pricing.Category{ID: "rare", Name: "Rare earth", Price: decimal.NewFromInt(1_000_000_000), Unit: pricing.UnitGram},
	)

	store := ledger.NewInMemory()
	require.NoError(t, store.CreateWallet(ctx, ledger.Wallet{ID: "w-u1", UserID: "u1"}))

	engine := ledger.NewEngine(store, ledger.DefaultOptions(), zerolog.Nop(), nil, nil)
	svc := NewService(store, users, categories, engine, zerolog.Nop())
	return fixture{store: store, engine: engine, svc: svc}
}

func TestCreateSubmissionThenApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreateSubmission(ctx, SubmissionInput{UserID: "u1", CategoryID: "plastic", WeightGrams: decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, req.Status)
	assert.Equal(t, int64(1000), req.Amount)
	assert.Equal(t, "Dewi", req.UserName)
	require.NotNil(t, req.Submission)
	assert.Equal(t, "Plastic", req.Submission.CategoryName)
	assert.True(t, req.Submission.WeightGrams.Equal(decimal.NewFromInt(500)))

	out, err := f.engine.ApproveSubmission(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusApproved, out.Request.Status)

	w, err := f.store.WalletByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), w.Balance)
	txs, err := f.store.Transactions(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(1000), txs[0].Amount)
	assert.Equal(t, ledger.DirectionCredit, txs[0].Direction)
}

func TestCreateSubmissionPerKilogram(t *testing.T) {
	f := newFixture(t)
	req, err := f.svc.CreateSubmission(context.Background(), SubmissionInput{UserID: "u1", CategoryID: "copper", WeightGrams: decimal.NewFromInt(250)})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), req.Amount)
}

func TestCreateSubmissionUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateSubmission(ctx, SubmissionInput{UserID: "ghost", CategoryID: "plastic"})
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)

	_, err = f.svc.CreateSubmission(ctx, SubmissionInput{UserID: "u1", CategoryID: "gold"})
	assert.ErrorIs(t, err, ledger.ErrCategoryNotFound)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	page, err := f.store.ListRequests(ctx, ledger.Query{Kind: ledger.KindSubmission})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestCreateSubmissionNegativeWeightIsZero(t *testing.T) {
	f := newFixture(t)
	req, err := f.svc.CreateSubmission(context.Background(), SubmissionInput{UserID: "u1", CategoryID: "plastic", WeightGrams: decimal.NewFromInt(-3)})
	require.NoError(t, err)
	assert.Zero(t, req.Amount)
	assert.True(t, req.Submission.WeightGrams.IsZero())
}

func TestCreateSubmissionRefusesUnpriceableWeight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		category string
		weight   string
	}{
		{"beyond stored precision", "plastic", "4000000000000000000"},
		{"exponent form", "plastic", "1e20"},
		{"just above the ceiling", "plastic", "100000000000"},
		{"price overflows", "rare", "99999999999"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateSubmission(ctx, SubmissionInput{
				UserID:      "u1",
				CategoryID:  tc.category,
				WeightGrams: Quantity(json.RawMessage(tc.weight)),
			})
			assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
		})
	}

	page, err := f.store.ListRequests(ctx, ledger.Query{Kind: ledger.KindSubmission})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	req, err := f.svc.CreateSubmission(ctx, SubmissionInput{UserID: "u1", CategoryID: "plastic", WeightGrams: MaxWeightGrams})
	require.NoError(t, err)
	assert.Equal(t, int64(200_000_000_000), req.Amount)
}

func TestCreateSubmissionRoundsWeightBeforePricing(t *testing.T) {
	f := newFixture(t)

	// 0.2496 g prices to 0 unrounded but is stored as 0.250 g, worth 1.
	req, err := f.svc.CreateSubmission(context.Background(), SubmissionInput{
		UserID:      "u1",
		CategoryID:  "plastic",
		WeightGrams: decimal.RequireFromString("0.2496"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.25", req.Submission.WeightGrams.String())
	assert.Equal(t, int64(1), req.Amount)
}

func TestCreateWithdrawalInsufficientCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.svc.CreateSubmission(ctx, SubmissionInput{UserID: "u1", CategoryID: "plastic", WeightGrams: decimal.NewFromInt(500)})
	require.NoError(t, err)
	_, err = f.engine.ApproveSubmission(ctx, sub.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateWithdrawal(ctx, WithdrawalInput{UserID: "u1", Amount: 1500})
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	page, err := f.store.ListRequests(ctx, ledger.Query{Kind: ledger.KindWithdrawal})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	req, err := f.svc.CreateWithdrawal(ctx, WithdrawalInput{UserID: "u1", Amount: 1000})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, req.Status)
	assert.Equal(t, int64(1000), req.Amount)
}

func TestCreateWithdrawalValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateWithdrawal(ctx, WithdrawalInput{UserID: "u1", Amount: 0})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = f.svc.CreateWithdrawal(ctx, WithdrawalInput{UserID: "ghost", Amount: 10})
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)

	_, err = f.svc.CreateWithdrawal(ctx, WithdrawalInput{UserID: "u2", Amount: 10})
	assert.ErrorIs(t, err, ledger.ErrWalletMissing)
}

func TestQuantity(t *testing.T) {
	cases := map[string]string{
		`500`:     "500",
		`"12.5"`:  "12.5",
		`" 7 "`:   "7",
		`null`:    "0",
		``:        "0",
		`"heavy"`: "0",
		`-4`:      "0",
		`true`:    "0",
	}
	for raw, want := range cases {
		got := Quantity(json.RawMessage(raw))
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "Quantity(%q) = %s, want %s", raw, got, want)
	}
}

func TestMoney(t *testing.T) {
	valid := map[string]int64{
		`1500`:   1500,
		`"250"`:  250,
		`0`:      0,
		`-3`:     -3,
		`1e3`:    1000,
		`10.000`: 10,
	}
	for raw, want := range valid {
		got, err := Money(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{``, `null`, `"abc"`, `10.5`, `true`, `9223372036854775808`, `{}`} {
		_, err := Money(json.RawMessage(raw))
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount, raw)
	}
}
