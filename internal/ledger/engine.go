package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/banksampah/banksampah/internal/metrics"
	"github.com/banksampah/banksampah/internal/notification"
)

const defaultCommitAttempts = 5

// Options tune how the engine resolves requests.
type Options struct {
	// AutoRejectOnInsufficientBalance rejects a withdrawal whose amount exceeds the
	// committed balance at approval time. When false the request stays pending.
	AutoRejectOnInsufficientBalance bool

	// MaxCommitAttempts bounds how often one resolution is retried after a wallet
	// version conflict.
	MaxCommitAttempts int

	Clock func() time.Time
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		AutoRejectOnInsufficientBalance: true,
		MaxCommitAttempts:               defaultCommitAttempts,
	}
}

// Outcome reports the records written by a resolution. Wallet and Transaction are
// set only when the wallet was read or posted to.
type Outcome struct {
	Request     Request
	Wallet      *Wallet
	Transaction *Transaction
}

type action string

const (
	actionApprove action = "approve"
	actionReject  action = "reject"
)

// Engine is the only component that transitions requests and writes balances.
type Engine struct {
	store    Store
	opts     Options
	logger   zerolog.Logger
	metrics  *metrics.LedgerMetrics
	notifier notification.Notifier
}

// NewEngine wires the engine to its store. Metrics and notifier may be nil.
func NewEngine(store Store, opts Options, logger zerolog.Logger, m *metrics.LedgerMetrics, notifier notification.Notifier) *Engine {
	if opts.MaxCommitAttempts <= 0 {
		opts.MaxCommitAttempts = defaultCommitAttempts
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Engine{
		store:    store,
		opts:     opts,
		logger:   logger.With().Str("component", "ledger").Logger(),
		metrics:  m,
		notifier: notifier,
	}
}

// ApproveSubmission credits the submitter with the frozen amount and marks the
// submission approved. A credit the balance cannot hold is ErrInvalidAmount.
func (e *Engine) ApproveSubmission(ctx context.Context, requestID string) (Outcome, error) {
	return e.resolve(ctx, KindSubmission, actionApprove, requestID)
}

// RejectSubmission marks the submission rejected without touching the wallet.
func (e *Engine) RejectSubmission(ctx context.Context, requestID string) (Outcome, error) {
	return e.resolve(ctx, KindSubmission, actionReject, requestID)
}

// ApproveWithdrawal debits the owner's wallet if the committed balance covers the
// amount. Otherwise it returns ErrInsufficientBalance, rejecting the request first
// when AutoRejectOnInsufficientBalance is set.
func (e *Engine) ApproveWithdrawal(ctx context.Context, requestID string) (Outcome, error) {
	return e.resolve(ctx, KindWithdrawal, actionApprove, requestID)
}

// RejectWithdrawal marks the withdrawal rejected without touching the wallet.
func (e *Engine) RejectWithdrawal(ctx context.Context, requestID string) (Outcome, error) {
	return e.resolve(ctx, KindWithdrawal, actionReject, requestID)
}

// Balance returns the committed balance of the user's wallet.
func (e *Engine) Balance(ctx context.Context, userID string) (int64, error) {
	w, err := e.store.WalletByOwner(ctx, userID)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (e *Engine) resolve(ctx context.Context, kind Kind, act action, requestID string) (Outcome, error) {
	started := time.Now()
	log := e.logger.With().Str("request_id", requestID).Str("kind", string(kind)).Str("action", string(act)).Logger()

	var (
		out       Outcome
		committed bool
		err       error
		attempt   int
	)
	for attempt = 1; attempt <= e.opts.MaxCommitAttempts; attempt++ {
		out, committed, err = e.attempt(ctx, kind, act, requestID)
		if !errors.Is(err, ErrWalletConflict) {
			break
		}
		e.metrics.IncConflict(string(kind))
		log.Debug().Int("attempt", attempt).Msg("wallet version moved, retrying")
	}
	if errors.Is(err, ErrWalletConflict) {
		log.Warn().Int("attempts", e.opts.MaxCommitAttempts).Msg("wallet contended")
		err = ErrWalletContended
	}

	outcome := outcomeLabel(out, committed, err)
	e.metrics.ObserveResolution(string(kind), string(act), outcome, time.Since(started))

	switch {
	case committed:
		log.Info().Str("outcome", outcome).Int("attempt", attempt).Str("user_id", out.Request.UserID).Int64("amount", out.Request.Amount).Msg("request resolved")
		if out.Transaction != nil {
			if out.Transaction.Direction == DirectionCredit {
				e.metrics.AddCredit(out.Transaction.Amount)
			} else {
				e.metrics.AddDebit(out.Transaction.Amount)
			}
		}
		e.notify(ctx, out.Request, log)
	case errors.Is(err, ErrStoreUnavailable):
		log.Error().Err(err).Msg("resolution failed")
	default:
		log.Info().Err(err).Str("outcome", outcome).Msg("resolution refused")
	}
	return out, err
}

// attempt performs one read-decide-commit cycle. The boolean reports whether a
// commit was applied.
func (e *Engine) attempt(ctx context.Context, kind Kind, act action, requestID string) (Outcome, bool, error) {
	req, err := e.store.GetRequest(ctx, kind, requestID)
	if err != nil {
		return Outcome{}, false, err
	}
	if req.Status != StatusPending {
		return Outcome{Request: req}, false, ErrAlreadyProcessed
	}

	now := e.opts.Clock()
	transition := Transition{
		Kind:        kind,
		RequestID:   req.ID,
		From:        StatusPending,
		ProcessedAt: now,
	}

	if act == actionReject {
		transition.To = StatusRejected
		if err := e.store.Commit(ctx, Commit{Transition: transition}); err != nil {
			return Outcome{}, false, err
		}
		return Outcome{Request: applied(req, transition)}, true, nil
	}

	if req.Amount < 0 {
		return Outcome{Request: req}, false, ErrInvalidAmount
	}
	wallet, err := e.store.WalletByOwner(ctx, req.UserID)
	if err != nil {
		return Outcome{Request: req}, false, err
	}

	posting := &Posting{
		WalletID:        wallet.ID,
		ExpectedVersion: wallet.Version,
		Balance:         wallet.Balance,
		UpdatedAt:       now,
	}

	if kind == KindSubmission && req.Amount > math.MaxInt64-wallet.Balance {
		return Outcome{Request: req, Wallet: &wallet}, false, ErrInvalidAmount
	}
	if kind == KindWithdrawal && wallet.Balance < req.Amount {
		if !e.opts.AutoRejectOnInsufficientBalance {
			return Outcome{Request: req, Wallet: &wallet}, false, ErrInsufficientBalance
		}
		// Assert the version so the rejection is based on the committed balance.
		transition.To = StatusRejected
		transition.Reason = RejectReasonInsufficientBalance
		if err := e.store.Commit(ctx, Commit{Transition: transition, Posting: posting}); err != nil {
			return Outcome{}, false, err
		}
		return Outcome{Request: applied(req, transition), Wallet: &wallet}, true, ErrInsufficientBalance
	}

	transition.To = StatusApproved
	if req.Amount > 0 {
		entry := &Transaction{
			ID:        uuid.NewString(),
			WalletID:  wallet.ID,
			RequestID: req.ID,
			Amount:    req.Amount,
			CreatedAt: now,
		}
		if kind == KindSubmission {
			entry.Direction = DirectionCredit
			entry.Description = depositDescription(req)
			posting.Balance = wallet.Balance + req.Amount
		} else {
			entry.Direction = DirectionDebit
			entry.Description = "Withdrawal"
			posting.Balance = wallet.Balance - req.Amount
		}
		posting.Entry = entry
	}

	if err := e.store.Commit(ctx, Commit{Transition: transition, Posting: posting}); err != nil {
		return Outcome{}, false, err
	}

	out := Outcome{Request: applied(req, transition), Wallet: &wallet}
	if posting.Entry != nil {
		wallet.Balance = posting.Balance
		wallet.Version++
		wallet.UpdatedAt = now
		out.Transaction = posting.Entry
	}
	return out, true, nil
}

func (e *Engine) notify(ctx context.Context, req Request, log zerolog.Logger) {
	msg := notification.Message{
		Destination: req.UserID,
		RequestID:   req.ID,
		Amount:      req.Amount,
	}
	switch {
	case req.Kind == KindSubmission && req.Status == StatusApproved:
		msg.Kind = notification.KindSubmissionApproved
		msg.Body = "your waste submission was approved"
	case req.Kind == KindSubmission:
		msg.Kind = notification.KindSubmissionRejected
		msg.Body = "your waste submission was rejected"
	case req.Status == StatusApproved:
		msg.Kind = notification.KindWithdrawalApproved
		msg.Body = "your withdrawal was approved"
	default:
		msg.Kind = notification.KindWithdrawalRejected
		msg.Body = "your withdrawal was rejected"
		if req.Reason != "" {
			msg.Body += ": " + req.Reason
		}
	}
	if err := e.notifier.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Msg("notification failed")
	}
}

func applied(req Request, t Transition) Request {
	processedAt := t.ProcessedAt
	req.Status = t.To
	req.Reason = t.Reason
	req.ProcessedAt = &processedAt
	return req
}

func depositDescription(req Request) string {
	if req.Submission == nil {
		return "Deposit"
	}
	return fmt.Sprintf("Deposit %s (%s gram)", req.Submission.CategoryName, req.Submission.WeightGrams.String())
}

func outcomeLabel(out Outcome, committed bool, err error) string {
	switch {
	case committed:
		return string(out.Request.Status)
	case errors.Is(err, ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrWalletContended):
		return "contended"
	default:
		return "error"
	}
}
