package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/banksampah/banksampah/internal/ledger"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	_, err := r.db.Exec(ctx, `INSERT INTO users (id, name, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.Name, user.CreatedAt.UTC())
	if err != nil {
		return &ledger.StoreError{Op: "create user", Err: err}
	}
	return nil
}

// FindByID fetches a user by id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	var (
		user      User
		createdAt time.Time
	)
	row := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM users WHERE id = $1`, id)
	if err := row.Scan(&user.ID, &user.Name, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ledger.ErrUserNotFound
		}
		return User{}, &ledger.StoreError{Op: "find user", Err: err}
	}
	user.CreatedAt = createdAt.UTC()
	return user, nil
}

// List returns every user ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM users ORDER BY lower(name), id`)
	if err != nil {
		return nil, &ledger.StoreError{Op: "list users", Err: err}
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (User, error) {
		var u User
		err := row.Scan(&u.ID, &u.Name, &u.CreatedAt)
		return u, err
	})
	if err != nil {
		return nil, &ledger.StoreError{Op: "list users", Err: err}
	}
	return users, nil
}
