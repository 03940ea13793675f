// Package store opens the slot repository selected by configuration.
package store

import (
	"context"
	"fmt"

	"smart-parking/internal/config"
	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
	"smart-parking/internal/store/badgerdb"
	"smart-parking/internal/store/memory"
	"smart-parking/internal/store/postgres"
)

type Store interface {
	parking.Repository
	Close() error
}

func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	logging.Info(ctx, "opening slot store", "driver", cfg.StoreDriver)

	switch cfg.StoreDriver {
	case "", config.StoreMemory:
		return memory.New(), nil
	case config.StorePostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreBadger:
		bcfg := badgerdb.DefaultConfig(cfg.BadgerPath)
		bcfg.Logger = logging.Logger().With("component", "badger")
		s, err := badgerdb.Open(bcfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
