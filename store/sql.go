package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/xo/dburl"
)

// dialect holds the statements that differ between drivers.
type dialect struct {
	schema string
	load   string
	save   string
}

var dialects = map[string]dialect{
	"sqlite3": {
		schema: `CREATE TABLE IF NOT EXISTS tic_pmem (name TEXT PRIMARY KEY, data BLOB NOT NULL)`,
		load:   `SELECT data FROM tic_pmem WHERE name = ?`,
		save:   `INSERT INTO tic_pmem (name, data) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
	},
	"mysql": {
		schema: `CREATE TABLE IF NOT EXISTS tic_pmem (name VARCHAR(255) PRIMARY KEY, data BLOB NOT NULL)`,
		load:   `SELECT data FROM tic_pmem WHERE name = ?`,
		save:   `INSERT INTO tic_pmem (name, data) VALUES (?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data)`,
	},
}

// SQL stores values through database/sql. The driver is chosen from the
// URL scheme, for example sqlite:/tmp/pmem.db or mysql://user@host/db.
type SQL struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQL opens url and creates the table when missing.
func OpenSQL(ctx context.Context, url string) (*SQL, error) {
	u, err := dburl.Parse(url)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	d, ok := dialects[u.Driver]
	if !ok {
		return nil, fmt.Errorf("store: unsupported sql driver %q", u.Driver)
	}
	db, err := sql.Open(u.Driver, u.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create table: %w", err)
	}
	return &SQL{db: db, dialect: d}, nil
}

func (s *SQL) Load(ctx context.Context, key string) ([]uint32, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, s.dialect.load, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return decode(data)
}

func (s *SQL) Save(ctx context.Context, key string, values []uint32) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encode(values)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.save, key, data); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
