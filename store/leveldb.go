package store

import (
	"context"
	"fmt"

	dbm "github.com/cometbft/cometbft-db"
)

const keyPrefix = "pmem/"

// KV stores values in a cometbft-db database, goleveldb on disk by default.
type KV struct {
	db dbm.DB
}

// OpenLevelDB opens or creates the goleveldb database name in dir.
func OpenLevelDB(name, dir string) (*KV, error) {
	db, err := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("store: open leveldb: %w", err)
	}
	return NewKV(db), nil
}

// NewKV wraps an open database. The KV owns db and closes it.
func NewKV(db dbm.DB) *KV {
	return &KV{db: db}
}

func (s *KV) Load(ctx context.Context, key string) ([]uint32, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := s.db.Get([]byte(keyPrefix + key))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if data == nil {
		return nil, ErrNotFound
	}
	return decode(data)
}

func (s *KV) Save(ctx context.Context, key string, values []uint32) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encode(values)
	if err != nil {
		return err
	}
	if err := s.db.SetSync([]byte(keyPrefix+key), data); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Keys lists the saved cartridge keys in order.
func (s *KV) Keys() ([]string, error) {
	it, err := s.db.Iterator([]byte(keyPrefix), prefixEnd([]byte(keyPrefix)))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer it.Close()
	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()[len(keyPrefix):]))
	}
	return keys, it.Error()
}

func (s *KV) Close() error {
	return s.db.Close()
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
