package history

import (
	"context"
	"fmt"
	"time"

	"github.com/banksampah/banksampah/internal/ledger"
	"github.com/banksampah/banksampah/internal/validators"
)

// MaxPageSize caps a single page of results.
const MaxPageSize = 200

// Lister is the read side of the record store.
type Lister interface {
	ListRequests(ctx context.Context, q ledger.Query) (ledger.Page, error)
}

// Filter narrows a history listing.
type Filter struct {
	Statuses      []ledger.Status
	NamePrefix    string
	ProcessedFrom *time.Time
	ProcessedTo   *time.Time
	Page          int
	PageSize      int
}

// Service is a read-only projection over submissions and withdrawals.
type Service struct {
	store Lister
}

// NewService builds the listing service over store.
func NewService(store Lister) *Service {
	return &Service{store: store}
}

// List runs an arbitrary query after checking its kind, statuses and paging.
func (s *Service) List(ctx context.Context, q ledger.Query) (ledger.Page, error) {
	if !q.Kind.IsValid() {
		return ledger.Page{}, invalidQuery("kind", fmt.Sprintf("unknown request kind %q", q.Kind))
	}
	for _, st := range q.Statuses {
		if !st.IsValid() {
			return ledger.Page{}, invalidQuery("status", fmt.Sprintf("unknown status %q", st))
		}
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 0 {
		q.PageSize = 0
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.ProcessedFrom != nil && q.ProcessedTo != nil && q.ProcessedFrom.After(*q.ProcessedTo) {
		return ledger.Page{}, invalidQuery("from", "must not be after to")
	}
	return s.store.ListRequests(ctx, q)
}

// History lists resolved requests of a kind. Without explicit statuses both
// approved and rejected requests are returned.
func (s *Service) History(ctx context.Context, kind ledger.Kind, f Filter) (ledger.Page, error) {
	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = []ledger.Status{ledger.StatusApproved, ledger.StatusRejected}
	}
	return s.List(ctx, ledger.Query{
		Kind:          kind,
		Statuses:      statuses,
		NamePrefix:    f.NamePrefix,
		ProcessedFrom: f.ProcessedFrom,
		ProcessedTo:   f.ProcessedTo,
		Page:          f.Page,
		PageSize:      f.PageSize,
	})
}

// Pending lists requests still awaiting a decision, optionally for one user.
func (s *Service) Pending(ctx context.Context, kind ledger.Kind, userID string) (ledger.Page, error) {
	return s.List(ctx, ledger.Query{
		Kind:     kind,
		Statuses: []ledger.Status{ledger.StatusPending},
		UserID:   userID,
	})
}

func invalidQuery(field, msg string) error {
	return &validators.Error{Message: "invalid query", Details: map[string]string{field: msg}}
}
