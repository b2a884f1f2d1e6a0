package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS tic_pmem (
	name text PRIMARY KEY,
	data bytea NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// Postgres stores values in the tic_pmem table.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url and creates the table when missing.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: create table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Load(ctx context.Context, key string) ([]uint32, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM tic_pmem WHERE name = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return decode(data)
}

func (p *Postgres) Save(ctx context.Context, key string, values []uint32) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encode(values)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO tic_pmem (name, data) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, key, data)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
