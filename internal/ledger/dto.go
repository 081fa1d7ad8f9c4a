package ledger

import "time"

// RequestResponse is the JSON shape of a submission or withdrawal.
type RequestResponse struct {
	ID            string     `json:"id"`
	Kind          Kind       `json:"kind"`
	UserID        string     `json:"user_id"`
	UserName      string     `json:"user_name"`
	Amount        int64      `json:"amount"`
	Status        Status     `json:"status"`
	Reason        string     `json:"reason,omitempty"`
	RequestedAt   time.Time  `json:"requested_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CategoryID    string     `json:"category_id,omitempty"`
	CategoryName  string     `json:"category_name,omitempty"`
	WeightInGrams string     `json:"weight_in_grams,omitempty"`
}

// WalletResponse is the JSON shape of a wallet.
type WalletResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionResponse is the JSON shape of a wallet transaction.
type TransactionResponse struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	Amount      int64     `json:"amount"`
	Direction   Direction `json:"direction"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// OutcomeResponse is returned by the resolution endpoints.
type OutcomeResponse struct {
	Request     RequestResponse      `json:"request"`
	Wallet      *WalletResponse      `json:"wallet,omitempty"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// PageResponse wraps a paginated request listing.
type PageResponse struct {
	Items      []RequestResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

func ToRequestResponse(r Request) RequestResponse {
	out := RequestResponse{
		ID:          r.ID,
		Kind:        r.Kind,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Amount:      r.Amount,
		Status:      r.Status,
		Reason:      r.Reason,
		RequestedAt: r.RequestedAt,
		ProcessedAt: r.ProcessedAt,
	}
	if d := r.Submission; d != nil {
		out.CategoryID = d.CategoryID
		out.CategoryName = d.CategoryName
		out.WeightInGrams = d.WeightGrams.String()
	}
	return out
}

func ToWalletResponse(w Wallet) WalletResponse {
	return WalletResponse{ID: w.ID, UserID: w.UserID, Balance: w.Balance, UpdatedAt: w.UpdatedAt}
}

func ToTransactionResponse(t Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		RequestID:   t.RequestID,
		Amount:      t.Amount,
		Direction:   t.Direction,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func ToPageResponse(p Page) PageResponse {
	items := make([]RequestResponse, len(p.Items))
	for i, r := range p.Items {
		items[i] = ToRequestResponse(r)
	}
	return PageResponse{Items: items, Total: p.Total, Page: p.Page, PageSize: p.PageSize, TotalPages: p.TotalPages}
}

func toOutcomeResponse(o Outcome) OutcomeResponse {
	out := OutcomeResponse{Request: ToRequestResponse(o.Request)}
	if o.Wallet != nil {
		w := ToWalletResponse(*o.Wallet)
		out.Wallet = &w
	}
	if o.Transaction != nil {
		t := ToTransactionResponse(*o.Transaction)
		out.Transaction = &t
	}
	return out
}
