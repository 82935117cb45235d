package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Postgres stores records in a kv table through a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL, verifies the connection and ensures
// the kv table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, &Error{Op: "open", Message: "postgres store needs a database URL"}
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &Error{Op: "open", Message: "failed to connect to database", Cause: err}
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &Error{Op: "open", Message: "failed to ping database", Cause: err}
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, &Error{Op: "open", Message: "failed to initialize schema", Cause: err}
	}
	return &Postgres{pool: pool}, nil
}

// Get returns the value stored under key.
func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	if err := checkKey("get", key); err != nil {
		return "", err
	}
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &Error{Op: "get", Key: key, Message: "query failed", Cause: err}
	}
	return value, nil
}

// Put upserts value under key.
func (p *Postgres) Put(ctx context.Context, key, value string) error {
	if err := checkKey("put", key); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return &Error{Op: "put", Key: key, Message: "upsert failed", Cause: err}
	}
	return nil
}

// Delete removes key.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM kv WHERE key = $1`, key); err != nil {
		return &Error{Op: "delete", Key: key, Message: "delete failed", Cause: err}
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
