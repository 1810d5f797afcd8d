package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "artifact/"

// BadgerStore keeps artifacts in an embedded badger database. Entries are
// written with a TTL, so badger evicts them itself.
type BadgerStore struct {
	db    *badger.DB
	codec *codec
}

func newBadgerStore(dir string, c *codec) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	return &BadgerStore{db: db, codec: c}, nil
}

func badgerKey(id string) []byte {
	return []byte(badgerKeyPrefix + id)
}

func (s *BadgerStore) Put(ctx context.Context, a *Artifact) error {
	ttl, err := ttlFor(a, time.Now())
	if err != nil {
		return err
	}

	raw, err := s.codec.encode(a)
	if err != nil {
		return err
	}

	entry := badger.NewEntry(badgerKey(a.ID), raw)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

func (s *BadgerStore) Get(ctx context.Context, id string) (*Artifact, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", id, err)
	}

	a, err := s.codec.decode(raw)
	if err != nil {
		return nil, err
	}
	// badger TTLs have second granularity
	if a.Expired(time.Now()) {
		return nil, ErrExpired
	}
	return a, nil
}

func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(id))
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
