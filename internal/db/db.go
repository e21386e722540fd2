package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/config"
)

// Database is the Postgres-backed position ledger and stats store.
type Database struct {
	pool *pgxpool.Pool
}

var _ DbInterface = (*Database)(nil)

// New creates a connection pool and verifies connectivity.
func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Database{pool: pool}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *Database) Close() {
	db.pool.Close()
}

// Pool exposes the underlying pool for schema setup.
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

const pgErrUniqueViolation = "23505" // unique_violation

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	return false
}

func isNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
