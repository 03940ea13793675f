// Package badgerdb persists slots in an embedded BadgerDB instance.
//
// Each slot lives under "slot/" followed by its id as 8 big-endian bytes,
// so iterating the prefix yields slots in ascending id order.
package badgerdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"smart-parking/internal/parking"
)

var keyPrefix = []byte("slot/")

type Config struct {
	// Path is ignored when InMemory is true.
	Path       string
	InMemory   bool
	SyncWrites bool
	Logger     *slog.Logger

	// GCInterval of zero disables value log garbage collection.
	GCInterval     time.Duration
	GCDiscardRatio float64
}

func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

func InMemoryConfig() Config {
	return Config{InMemory: true}
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

var _ parking.Repository = (*Store)(nil)

type Store struct {
	db     *badger.DB
	logger *slog.Logger
	stopGC chan struct{}
	gcDone chan struct{}
}

func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	s := &Store{db: db, logger: cfg.Logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stopGC = make(chan struct{})
		s.gcDone = make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.stopGC != nil {
		close(s.stopGC)
		<-s.gcDone
		s.stopGC = nil
	}
	return s.db.Close()
}

func (s *Store) runGC(interval time.Duration, ratio float64) {
	defer close(s.gcDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			// ErrNoRewrite only means nothing was worth collecting.
			err := s.db.RunValueLogGC(ratio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) && s.logger != nil {
				s.logger.Warn("badger value log GC error", slog.String("error", err.Error()))
			}
		}
	}
}

func slotKey(id int) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], uint64(id))
	return key
}

func decode(item *badger.Item) (parking.Slot, error) {
	var slot parking.Slot
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &slot)
	})
	return slot, err
}

func (s *Store) Find(_ context.Context, filter parking.Filter) ([]parking.Slot, error) {
	slots := []parking.Slot{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			slot, err := decode(it.Item())
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if filter.Match(slot) {
				slots = append(slots, slot)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *Store) FindByID(_ context.Context, id int) (*parking.Slot, error) {
	var slot parking.Slot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slotKey(id))
		if err != nil {
			return err
		}
		slot, err = decode(item)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, parking.NotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *Store) Create(_ context.Context, slot *parking.Slot) error {
	val, err := json.Marshal(slot)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := slotKey(slot.ID)
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return parking.DuplicateIDError(slot.ID)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set(key, val)
	})
}

func (s *Store) Save(_ context.Context, slot *parking.Slot) error {
	val, err := json.Marshal(slot)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := slotKey(slot.ID)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return parking.NotFoundError(slot.ID)
			}
			return err
		}
		return txn.Set(key, val)
	})
}
