package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const qMarkDonated = `
UPDATE user_profiles
SET paying_status = $1,
    donation_date = $2
WHERE email = $3;
`

// Executor is the slice of *pgxpool.Pool the Postgres backend needs.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

// Postgres writes donation state straight into the database behind Supabase.
type Postgres struct {
	db     Executor
	logger zerolog.Logger
}

// NewPostgres creates a Postgres store over db.
func NewPostgres(db Executor, logger zerolog.Logger) *Postgres {
	return &Postgres{db: db, logger: logger.With().Str("store", "postgres").Logger()}
}

func (p *Postgres) MarkDonated(ctx context.Context, email string, at time.Time) error {
	tag, err := p.db.Exec(ctx, qMarkDonated, StatusDonated, at.UTC(), email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	if tag.RowsAffected() == 0 {
		p.logger.Warn().Str("email", email).Msg("no user_profiles row matched")
	}
	return nil
}

// NewPool initializes a pgx connection pool for databaseURL.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = 4
	poolCfg.MinConns = 0
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

var (
	_ Store    = (*Postgres)(nil)
	_ Executor = (*pgxpool.Pool)(nil)
)
