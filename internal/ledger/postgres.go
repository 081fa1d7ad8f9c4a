package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// PostgresStore persists wallets, transactions and requests in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

const submissionColumns = `id, user_id, user_name, amount, status, COALESCE(reason, ''), requested_at, processed_at,
        category_id, category_name, weight_grams::text`

const withdrawalColumns = `id, user_id, user_name, amount, status, COALESCE(reason, ''), requested_at, processed_at`

func requestTable(kind Kind) (string, string, error) {
	switch kind {
	case KindSubmission:
		return "waste_submissions", submissionColumns, nil
	case KindWithdrawal:
		return "withdrawal_requests", withdrawalColumns, nil
	default:
		return "", "", ErrRequestNotFound
	}
}

func scanRequest(row pgx.Row, kind Kind) (Request, error) {
	req := Request{Kind: kind}
	var status string
	dest := []any{&req.ID, &req.UserID, &req.UserName, &req.Amount, &status, &req.Reason, &req.RequestedAt, &req.ProcessedAt}
	var detail SubmissionDetail
	var weight string
	if kind == KindSubmission {
		dest = append(dest, &detail.CategoryID, &detail.CategoryName, &weight)
	}
	if err := row.Scan(dest...); err != nil {
		return Request{}, err
	}
	req.Status = Status(status)
	if kind == KindSubmission {
		w, err := decimal.NewFromString(weight)
		if err != nil {
			return Request{}, fmt.Errorf("parse weight of %s: %w", req.ID, err)
		}
		detail.WeightGrams = w
		req.Submission = &detail
	}
	return req, nil
}

func (s *PostgresStore) GetRequest(ctx context.Context, kind Kind, id string) (Request, error) {
	table, columns, err := requestTable(kind)
	if err != nil {
		return Request{}, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, columns, table)
	req, err := scanRequest(s.db.QueryRow(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrRequestNotFound
		}
		return Request{}, unavailable("get request", err)
	}
	return req, nil
}

func (s *PostgresStore) CreateRequest(ctx context.Context, req Request) error {
	var err error
	switch req.Kind {
	case KindSubmission:
		if req.Submission == nil {
			return fmt.Errorf("submission %s has no detail", req.ID)
		}
		_, err = s.db.Exec(ctx, `INSERT INTO waste_submissions
            (id, user_id, user_name, category_id, category_name, weight_grams, amount, status, requested_at)
            VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)`,
			req.ID, req.UserID, req.UserName, req.Submission.CategoryID, req.Submission.CategoryName,
			req.Submission.WeightGrams.String(), req.Amount, string(req.Status), req.RequestedAt)
	case KindWithdrawal:
		_, err = s.db.Exec(ctx, `INSERT INTO withdrawal_requests
            (id, user_id, user_name, amount, status, requested_at)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			req.ID, req.UserID, req.UserName, req.Amount, string(req.Status), req.RequestedAt)
	default:
		return fmt.Errorf("unknown request kind %q", req.Kind)
	}
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return unavailable("create request", errDuplicateRequest)
		}
		return unavailable("create request", err)
	}
	return nil
}

func (s *PostgresStore) WalletByOwner(ctx context.Context, userID string) (Wallet, error) {
	const query = `SELECT id, user_id, balance, version, created_at, updated_at FROM wallets WHERE user_id = $1`
	var w Wallet
	if err := s.db.QueryRow(ctx, query, userID).Scan(&w.ID, &w.UserID, &w.Balance, &w.Version, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletMissing
		}
		return Wallet{}, unavailable("wallet by owner", err)
	}
	return w, nil
}

func (s *PostgresStore) CreateWallet(ctx context.Context, w Wallet) error {
	_, err := s.db.Exec(ctx, `INSERT INTO wallets (id, user_id, balance, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, w.ID, w.UserID, w.Balance, w.Version, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return ErrWalletExists
		}
		return unavailable("create wallet", err)
	}
	return nil
}

func (s *PostgresStore) Transactions(ctx context.Context, walletID string) ([]Transaction, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)`, walletID).Scan(&exists); err != nil {
		return nil, unavailable("transactions", err)
	}
	if !exists {
		return nil, ErrWalletMissing
	}

	rows, err := s.db.Query(ctx, `SELECT id, wallet_id, request_id, amount, direction, description, created_at
        FROM wallet_transactions WHERE wallet_id = $1 ORDER BY seq`, walletID)
	if err != nil {
		return nil, unavailable("transactions", err)
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		var direction string
		if err := rows.Scan(&t.ID, &t.WalletID, &t.RequestID, &t.Amount, &direction, &t.Description, &t.CreatedAt); err != nil {
			return nil, unavailable("transactions", err)
		}
		t.Direction = Direction(direction)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("transactions", err)
	}
	return out, nil
}

// Commit runs the transition and posting in one transaction. Both updates carry
// their precondition in the WHERE clause so a concurrent writer makes them match
// zero rows instead of overwriting.
func (s *PostgresStore) Commit(ctx context.Context, c Commit) error {
	table, _, err := requestTable(c.Transition.Kind)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return unavailable("commit", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	t := c.Transition
	tag, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE %s SET status = $1, reason = NULLIF($2, ''), processed_at = $3
        WHERE id = $4 AND status = $5`, table), string(t.To), t.Reason, t.ProcessedAt, t.RequestID, string(t.From))
	if err != nil {
		return unavailable("commit transition", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table), t.RequestID).Scan(&exists); err != nil {
			return unavailable("commit transition", err)
		}
		if !exists {
			return ErrRequestNotFound
		}
		return ErrAlreadyProcessed
	}

	if p := c.Posting; p != nil {
		if err := post(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func post(ctx context.Context, tx pgx.Tx, p *Posting) error {
	if p.Entry == nil {
		var version int64
		if err := tx.QueryRow(ctx, `SELECT version FROM wallets WHERE id = $1 FOR SHARE`, p.WalletID).Scan(&version); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrWalletMissing
			}
			return unavailable("commit posting", err)
		}
		if version != p.ExpectedVersion {
			return ErrWalletConflict
		}
		return nil
	}

	tag, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1, version = version + 1, updated_at = $2
        WHERE id = $3 AND version = $4`, p.Balance, p.UpdatedAt, p.WalletID, p.ExpectedVersion)
	if err != nil {
		if pgCode(err) == pgCheckViolation {
			return ErrInsufficientBalance
		}
		return unavailable("commit posting", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)`, p.WalletID).Scan(&exists); err != nil {
			return unavailable("commit posting", err)
		}
		if !exists {
			return ErrWalletMissing
		}
		return ErrWalletConflict
	}

	e := p.Entry
	if _, err := tx.Exec(ctx, `INSERT INTO wallet_transactions (id, wallet_id, request_id, amount, direction, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`, e.ID, e.WalletID, e.RequestID, e.Amount, string(e.Direction), e.Description, e.CreatedAt); err != nil {
		return unavailable("commit entry", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *PostgresStore) ListRequests(ctx context.Context, q Query) (Page, error) {
	table, columns, err := requestTable(q.Kind)
	if err != nil {
		return Page{}, err
	}

	where := make([]string, 0, 5)
	args := make([]any, 0, 7)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			statuses[i] = string(st)
		}
		where = append(where, "status = ANY("+arg(statuses)+")")
	}
	if q.UserID != "" {
		where = append(where, "user_id = "+arg(q.UserID))
	}
	if q.NamePrefix != "" {
		where = append(where, "lower(user_name) LIKE lower("+arg(likeEscaper.Replace(q.NamePrefix))+") || '%'")
	}
	if q.ProcessedFrom != nil {
		where = append(where, "processed_at >= "+arg(*q.ProcessedFrom))
	}
	if q.ProcessedTo != nil {
		where = append(where, "processed_at <= "+arg(*q.ProcessedTo))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table, clause), args...).Scan(&total); err != nil {
		return Page{}, unavailable("list requests", err)
	}

	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY COALESCE(processed_at, requested_at) DESC, id DESC`, columns, table, clause)
	if size > 0 {
		query += " LIMIT " + arg(size) + " OFFSET " + arg((page-1)*size)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return Page{}, unavailable("list requests", err)
	}
	defer rows.Close()

	items := make([]Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows, q.Kind)
		if err != nil {
			return Page{}, unavailable("list requests", err)
		}
		items = append(items, req)
	}
	if err := rows.Err(); err != nil {
		return Page{}, unavailable("list requests", err)
	}

	if size <= 0 {
		return Page{Items: items, Total: total, Page: 1, PageSize: total, TotalPages: 1}, nil
	}
	return Page{Items: items, Total: total, Page: page, PageSize: size, TotalPages: totalPages(total, size)}, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Ping reports whether the database answers.
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.Ping(ctx)
}
