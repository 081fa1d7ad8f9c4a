package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes the two request variants that share one lifecycle.
type Kind string

const (
	KindSubmission Kind = "submission"
	KindWithdrawal Kind = "withdrawal"
)

// IsValid reports whether the kind is one of the known request kinds.
func (k Kind) IsValid() bool {
	return k == KindSubmission || k == KindWithdrawal
}

// Status is the lifecycle state of a request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid reports whether the status is one of the known request states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Direction is the sign of a wallet transaction.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// RejectReasonInsufficientBalance is stored on withdrawals rejected at approval time.
const RejectReasonInsufficientBalance = "insufficient balance"

// Wallet is the per-user running balance.
type Wallet struct {
	ID        string
	UserID    string
	Balance   int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction is an immutable entry recording one balance delta.
type Transaction struct {
	ID          string
	WalletID    string
	RequestID   string
	Amount      int64
	Direction   Direction
	Description string
	CreatedAt   time.Time
}

// Signed returns the amount with the direction applied.
func (t Transaction) Signed() int64 {
	if t.Direction == DirectionDebit {
		return -t.Amount
	}
	return t.Amount
}

// SubmissionDetail carries the fields only a waste submission has.
type SubmissionDetail struct {
	CategoryID   string
	CategoryName string
	WeightGrams  decimal.Decimal
}

// Request is a deposit credit or withdrawal debit awaiting a one-time decision.
type Request struct {
	ID          string
	Kind        Kind
	UserID      string
	UserName    string
	Amount      int64
	Status      Status
	Reason      string
	RequestedAt time.Time
	ProcessedAt *time.Time

	// Submission is set only when Kind is KindSubmission.
	Submission *SubmissionDetail
}

// Transition moves a request out of From into To.
type Transition struct {
	Kind        Kind
	RequestID   string
	From        Status
	To          Status
	Reason      string
	ProcessedAt time.Time
}

// Posting is a wallet write guarded by the version the caller observed. A posting
// without an Entry only asserts the version and leaves the wallet untouched.
type Posting struct {
	WalletID        string
	ExpectedVersion int64
	Balance         int64
	UpdatedAt       time.Time
	Entry           *Transaction
}

// Commit groups the records that must change together.
type Commit struct {
	Transition Transition
	Posting    *Posting
}

// Query filters and paginates request listings.
type Query struct {
	Kind          Kind
	Statuses      []Status
	UserID        string
	NamePrefix    string
	ProcessedFrom *time.Time
	ProcessedTo   *time.Time
	Page          int
	PageSize      int
}

// Page is one slice of a request listing.
type Page struct {
	Items      []Request
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Store is the record store the engine, intake and history depend on.
type Store interface {
	GetRequest(ctx context.Context, kind Kind, id string) (Request, error)
	CreateRequest(ctx context.Context, req Request) error
	WalletByOwner(ctx context.Context, userID string) (Wallet, error)
	CreateWallet(ctx context.Context, wallet Wallet) error
	Transactions(ctx context.Context, walletID string) ([]Transaction, error)

	// Commit applies the transition and the optional posting atomically. It returns
	// ErrAlreadyProcessed when the request is no longer in Transition.From and
	// ErrWalletConflict when the wallet version moved; in both cases nothing is written.
	Commit(ctx context.Context, c Commit) error

	ListRequests(ctx context.Context, q Query) (Page, error)
}

func sortTime(req Request) time.Time {
	if req.ProcessedAt != nil {
		return *req.ProcessedAt
	}
	return req.RequestedAt
}

func totalPages(total, size int) int {
	if size <= 0 || total == 0 {
		return 1
	}
	return (total + size - 1) / size
}
