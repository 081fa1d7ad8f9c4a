package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/banksampah/banksampah/internal/ledger"
)

// PostgresRepository reads categories from the waste_categories table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed category repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const categoryColumns = `id, name, COALESCE(price, 0)::text, unit`

func scanCategory(row pgx.Row) (Category, error) {
	var (
		c     Category
		price string
		unit  string
	)
	if err := row.Scan(&c.ID, &c.Name, &price, &unit); err != nil {
		return Category{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		p = decimal.Zero
	}
	c.Price = p
	c.Unit = ParseUnit(unit)
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM waste_categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ledger.ErrCategoryNotFound
		}
		return Category{}, &ledger.StoreError{Op: "get category", Err: err}
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM waste_categories ORDER BY name`)
	if err != nil {
		return nil, &ledger.StoreError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, &ledger.StoreError{Op: "list categories", Err: err}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &ledger.StoreError{Op: "list categories", Err: err}
	}
	return out, nil
}
