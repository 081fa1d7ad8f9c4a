package intake

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/banksampah/banksampah/internal/identity"
	"github.com/banksampah/banksampah/internal/ledger"
	"github.com/banksampah/banksampah/internal/pricing"
)

// Weights are stored as NUMERIC(14, 3).
const weightScale = 3

// MaxWeightGrams is the heaviest single submission that can be stored.
var MaxWeightGrams = decimal.RequireFromString("99999999999.999")

// RequestStore persists new pending requests.
type RequestStore interface {
	CreateRequest(ctx context.Context, req ledger.Request) error
}

// UserFinder resolves participants.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (identity.User, error)
}

// BalanceReader exposes the committed balance of a user's wallet.
type BalanceReader interface {
	Balance(ctx context.Context, userID string) (int64, error)
}

// Service validates and records new submissions and withdrawals. It never
// touches balances; approval is left to the ledger engine.
type Service struct {
	store      RequestStore
	users      UserFinder
	categories pricing.Repository
	balances   BalanceReader
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService wires the intake service.
func NewService(store RequestStore, users UserFinder, categories pricing.Repository, balances BalanceReader, logger zerolog.Logger) *Service {
	return &Service{
		store:      store,
		users:      users,
		categories: categories,
		balances:   balances,
		logger:     logger.With().Str("component", "intake").Logger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SubmissionInput captures a waste deposit. CreateSubmission rounds WeightGrams
// to milligrams and treats negative weights as zero.
type SubmissionInput struct {
	UserID      string
	CategoryID  string
	WeightGrams decimal.Decimal
}

// WithdrawalInput captures a cash withdrawal.
type WithdrawalInput struct {
	UserID string
	Amount int64
}

// CreateSubmission prices the deposit and records it as pending.
func (s *Service) CreateSubmission(ctx context.Context, input SubmissionInput) (ledger.Request, error) {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return ledger.Request{}, err
	}
	category, err := s.categories.Get(ctx, input.CategoryID)
	if err != nil {
		return ledger.Request{}, err
	}

	weight := input.WeightGrams.Round(weightScale)
	if weight.IsNegative() {
		weight = decimal.Zero
	}
	if weight.GreaterThan(MaxWeightGrams) {
		return ledger.Request{}, ledger.ErrInvalidAmount
	}
	amount, err := pricing.Quote(category, weight)
	if err != nil {
		return ledger.Request{}, err
	}

	req := ledger.Request{
		ID:          uuid.NewString(),
		Kind:        ledger.KindSubmission,
		UserID:      user.ID,
		UserName:    user.Name,
		Amount:      amount,
		Status:      ledger.StatusPending,
		RequestedAt: s.now(),
		Submission: &ledger.SubmissionDetail{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			WeightGrams:  weight,
		},
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return ledger.Request{}, err
	}
	s.logger.Info().
		Str("request_id", req.ID).
		Str("user_id", req.UserID).
		Str("category_id", category.ID).
		Str("weight_grams", weight.String()).
		Int64("amount", req.Amount).
		Msg("submission created")
	return req, nil
}

// CreateWithdrawal records a pending withdrawal. A withdrawal above the current
// balance is refused and nothing is recorded; approval checks the balance again.
func (s *Service) CreateWithdrawal(ctx context.Context, input WithdrawalInput) (ledger.Request, error) {
	if input.Amount <= 0 {
		return ledger.Request{}, ledger.ErrInvalidAmount
	}
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return ledger.Request{}, err
	}
	balance, err := s.balances.Balance(ctx, user.ID)
	if err != nil {
		return ledger.Request{}, err
	}
	if balance < input.Amount {
		s.logger.Info().Str("user_id", user.ID).Int64("amount", input.Amount).Int64("balance", balance).Msg("withdrawal refused")
		return ledger.Request{}, ledger.ErrInsufficientBalance
	}

	req := ledger.Request{
		ID:          uuid.NewString(),
		Kind:        ledger.KindWithdrawal,
		UserID:      user.ID,
		UserName:    user.Name,
		Amount:      input.Amount,
		Status:      ledger.StatusPending,
		RequestedAt: s.now(),
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return ledger.Request{}, err
	}
	s.logger.Info().Str("request_id", req.ID).Str("user_id", req.UserID).Int64("amount", req.Amount).Msg("withdrawal created")
	return req, nil
}
