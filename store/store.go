// Package store persists a cartridge's pmem slots between runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shamaton/msgpack/v2"

	"github.com/risor-io/tic/config"
)

var (
	// ErrNotFound is returned by Load when nothing was saved under the key.
	ErrNotFound = errors.New("store: key not found")

	ErrInvalidKey = errors.New("store: invalid key")
)

// Store saves and restores pmem values by cartridge key.
type Store interface {
	Load(ctx context.Context, key string) ([]uint32, error)
	Save(ctx context.Context, key string, values []uint32) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.Dir)
	case "leveldb":
		name := cfg.Name
		if name == "" {
			name = "pmem"
		}
		return OpenLevelDB(name, cfg.Dir)
	case "postgres":
		return OpenPostgres(ctx, cfg.URL)
	case "sql":
		return OpenSQL(ctx, cfg.URL)
	case "s3":
		return OpenS3(ctx, S3Options{
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}

// Key derives a store key from a cartridge path.
func Key(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

type record struct {
	Version int      `msgpack:"v"`
	Values  []uint32 `msgpack:"pmem"`
}

const recordVersion = 1

func encode(values []uint32) ([]byte, error) {
	return msgpack.Marshal(record{Version: recordVersion, Values: values})
}

func decode(data []byte) ([]uint32, error) {
	var rec record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("store: decode: %w", err)
	}
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("store: unsupported record version %d", rec.Version)
	}
	return rec.Values, nil
}
