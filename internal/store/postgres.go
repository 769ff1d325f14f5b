package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvalfre/urlshortener/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed short-link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Save(ctx context.Context, link *shortener.ShortLink) (*shortener.ShortLink, error) {
	query := `
		INSERT INTO short_links (hash, target, mode, safe, ip, sponsor, brand, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (hash) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		link.Hash,
		link.Redirection.Target,
		string(link.Redirection.Mode),
		link.Properties.Safe,
		nullable(link.Properties.IP),
		nullable(link.Properties.Sponsor),
		nullable(link.Properties.Brand),
		link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// The first record for a hash wins; read back whatever is stored.
	return p.FindByKey(ctx, link.Hash)
}

func (p *PostgresStore) FindByKey(ctx context.Context, key string) (*shortener.ShortLink, error) {
	query := `
		SELECT hash, target, mode, safe, ip, sponsor, brand, created_at
		FROM short_links
		WHERE hash = $1
	`

	var (
		link               shortener.ShortLink
		mode               string
		ip, sponsor, brand *string
	)

	err := p.pool.QueryRow(ctx, query, key).Scan(
		&link.Hash,
		&link.Redirection.Target,
		&mode,
		&link.Properties.Safe,
		&ip,
		&sponsor,
		&brand,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	link.Redirection.Mode = shortener.RedirectMode(mode)
	link.Properties.IP = deref(ip)
	link.Properties.Sponsor = deref(sponsor)
	link.Properties.Brand = deref(brand)

	return &link, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
