package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortener-go/internal/shortener"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique constraint
// violations.
const pgUniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) FindByURL(ctx context.Context, url string) (*shortener.Mapping, error) {
	query := `
		SELECT id, original_url, short_code, created_at
		FROM url_mappings
		WHERE original_url = $1
		ORDER BY id
		LIMIT 1
	`

	return p.queryOne(ctx, query, url)
}

func (p *PostgresStore) CodeExists(ctx context.Context, code shortener.Code) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM url_mappings WHERE short_code = $1)`

	var exists bool

	if err := p.pool.QueryRow(ctx, query, string(code)).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// Insert claims the short code atomically. The unique index on short_code
// raises SQLSTATE 23505 when another writer already claimed it; that case is
// surfaced as shortener.ErrCodeExists so the allocation loop can retry.
func (p *PostgresStore) Insert(ctx context.Context, m *shortener.Mapping) error {
	query := `
		INSERT INTO url_mappings (original_url, short_code, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query,
		m.OriginalURL,
		string(m.Code),
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return shortener.ErrCodeExists
		}

		return err
	}

	return nil
}

func (p *PostgresStore) FindByCode(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	query := `
		SELECT id, original_url, short_code, created_at
		FROM url_mappings
		WHERE short_code = $1
	`

	return p.queryOne(ctx, query, string(code))
}

func (p *PostgresStore) queryOne(ctx context.Context, query string, arg any) (*shortener.Mapping, error) {
	var m shortener.Mapping

	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&m.ID,
		&m.OriginalURL,
		&m.Code,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &m, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
