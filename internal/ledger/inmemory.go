package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type requestKey struct {
	kind Kind
	id   string
}

type inMemoryStore struct {
	mu           sync.RWMutex
	wallets      map[string]Wallet
	walletByUser map[string]string
	transactions map[string][]Transaction
	requests     map[requestKey]Request
}

// NewInMemory creates a concurrency-safe in-memory store useful for unit tests
// and local development.
func NewInMemory() Store {
	return &inMemoryStore{
		wallets:      make(map[string]Wallet),
		walletByUser: make(map[string]string),
		transactions: make(map[string][]Transaction),
		requests:     make(map[requestKey]Request),
	}
}

func (s *inMemoryStore) GetRequest(_ context.Context, kind Kind, id string) (Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[requestKey{kind, id}]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (s *inMemoryStore) CreateRequest(_ context.Context, req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := requestKey{req.Kind, req.ID}
	if _, exists := s.requests[key]; exists {
		return unavailable("create request", errDuplicateRequest)
	}
	s.requests[key] = cloneRequest(req)
	return nil
}

func (s *inMemoryStore) WalletByOwner(_ context.Context, userID string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.walletByUser[userID]
	if !ok {
		return Wallet{}, ErrWalletMissing
	}
	return s.wallets[id], nil
}

func (s *inMemoryStore) CreateWallet(_ context.Context, wallet Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.walletByUser[wallet.UserID]; exists {
		return ErrWalletExists
	}
	s.wallets[wallet.ID] = wallet
	s.walletByUser[wallet.UserID] = wallet.ID
	return nil
}

func (s *inMemoryStore) Transactions(_ context.Context, walletID string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.wallets[walletID]; !ok {
		return nil, ErrWalletMissing
	}
	out := make([]Transaction, len(s.transactions[walletID]))
	copy(out, s.transactions[walletID])
	return out, nil
}

func (s *inMemoryStore) Commit(_ context.Context, c Commit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := requestKey{c.Transition.Kind, c.Transition.RequestID}
	req, ok := s.requests[key]
	if !ok {
		return ErrRequestNotFound
	}
	if req.Status != c.Transition.From {
		return ErrAlreadyProcessed
	}

	var wallet Wallet
	if p := c.Posting; p != nil {
		wallet, ok = s.wallets[p.WalletID]
		if !ok {
			return ErrWalletMissing
		}
		if wallet.Version != p.ExpectedVersion {
			return ErrWalletConflict
		}
		if p.Entry != nil && p.Balance < 0 {
			return ErrInsufficientBalance
		}
	}

	// All conditions hold; nothing below can fail.
	if p := c.Posting; p != nil && p.Entry != nil {
		wallet.Balance = p.Balance
		wallet.Version++
		wallet.UpdatedAt = p.UpdatedAt
		s.wallets[wallet.ID] = wallet
		s.transactions[wallet.ID] = append(s.transactions[wallet.ID], *p.Entry)
	}

	processedAt := c.Transition.ProcessedAt
	req.Status = c.Transition.To
	req.Reason = c.Transition.Reason
	req.ProcessedAt = &processedAt
	s.requests[key] = req
	return nil
}

func (s *inMemoryStore) ListRequests(_ context.Context, q Query) (Page, error) {
	s.mu.RLock()
	matched := make([]Request, 0)
	for key, req := range s.requests {
		if key.kind != q.Kind || !matches(req, q) {
			continue
		}
		matched = append(matched, cloneRequest(req))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := sortTime(matched[i]), sortTime(matched[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if q.PageSize <= 0 {
		return Page{Items: matched, Total: total, Page: 1, PageSize: total, TotalPages: 1}, nil
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return Page{
		Items:      matched[start:end],
		Total:      total,
		Page:       page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func matches(req Request, q Query) bool {
	if len(q.Statuses) > 0 {
		found := false
		for _, st := range q.Statuses {
			if req.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.UserID != "" && req.UserID != q.UserID {
		return false
	}
	if q.NamePrefix != "" && !strings.HasPrefix(strings.ToLower(req.UserName), strings.ToLower(q.NamePrefix)) {
		return false
	}
	if q.ProcessedFrom != nil || q.ProcessedTo != nil {
		if req.ProcessedAt == nil {
			return false
		}
		if q.ProcessedFrom != nil && req.ProcessedAt.Before(*q.ProcessedFrom) {
			return false
		}
		if q.ProcessedTo != nil && req.ProcessedAt.After(*q.ProcessedTo) {
			return false
		}
	}
	return true
}

func cloneRequest(req Request) Request {
	if req.ProcessedAt != nil {
		t := *req.ProcessedAt
		req.ProcessedAt = &t
	}
	if req.Submission != nil {
		d := *req.Submission
		req.Submission = &d
	}
	return req
}
