package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (p *PostgresRepository) Create(ctx context.Context, a Account) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO studio_accounts (id, username, password_hash, subscribers, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.Username, a.PasswordHash, a.Subscribers, a.Views, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (p *PostgresRepository) ByUsername(ctx context.Context, username string) (Account, error) {
	var a Account
	err := p.db.QueryRow(ctx, `
		SELECT id::text, username, password_hash, subscribers, views, created_at, updated_at
		FROM studio_accounts
		WHERE lower(username) = lower($1)
	`, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Subscribers, &a.Views, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("select account: %w", err)
	}
	return a, nil
}

func (p *PostgresRepository) UpdateScore(ctx context.Context, id string, subscribers, views int64, at time.Time) (Account, error) {
	var a Account
	err := p.db.QueryRow(ctx, `
		UPDATE studio_accounts
		SET subscribers = $2, views = $3, updated_at = $4
		WHERE id = $1
		RETURNING id::text, username, password_hash, subscribers, views, created_at, updated_at
	`, id, subscribers, views, at).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Subscribers, &a.Views, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("update score: %w", err)
	}
	return a, nil
}

func (p *PostgresRepository) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := p.db.Query(ctx, `
		SELECT username, subscribers
		FROM studio_accounts
		ORDER BY subscribers DESC, username ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Username, &e.Subscribers); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
