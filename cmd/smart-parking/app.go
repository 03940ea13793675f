package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"smart-parking/internal/config"
	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
	"smart-parking/internal/store"
	"smart-parking/internal/telemetry"
)

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg       *config.Config
	telemetry *telemetry.Provider
	store     store.Store
	lot       *parking.InstrumentedParkingLot
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagStore != "" {
		cfg.StoreDriver = flagStore
	}
	return cfg
}

// bootstrap brings up telemetry, logging and the slot store in that order.
// Logs go to logOut so the shell can keep stdout for its own output.
func bootstrap(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg := loadConfig()

	var (
		tp  *telemetry.Provider
		err error
	)
	if cfg.OTelConfig.Enabled {
		tp, err = telemetry.Init(ctx, cfg.OTelConfig.ServiceName, cfg.OTelConfig.OTLPEndpoint, cfg.Environment)
		if err != nil {
			return nil, fmt.Errorf("initializing telemetry: %w", err)
		}
	} else {
		tp = telemetry.NewNoop(cfg.OTelConfig.ServiceName)
	}

	logging.InitWithWriter(logOut, cfg.OTelConfig.ServiceName, cfg.Environment)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		shutdownTelemetry(tp)
		return nil, fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}

	lot, err := parking.NewInstrumentedParkingLot(parking.NewParkingLot(st), tp.Tracer, tp.Meter)
	if err != nil {
		_ = st.Close()
		shutdownTelemetry(tp)
		return nil, fmt.Errorf("instrumenting parking lot: %w", err)
	}

	a := &app{cfg: cfg, telemetry: tp, store: st, lot: lot}

	if cfg.SeedSamples {
		created, err := lot.SeedSamples(ctx)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("seeding sample slots: %w", err)
		}
		logging.Info(ctx, "sample slots seeded", "created", created)
	}

	logging.Info(ctx, "smart-parking ready",
		"store", cfg.StoreDriver,
		"environment", cfg.Environment,
		"otel_enabled", cfg.OTelConfig.Enabled,
	)
	return a, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logging.Error(context.Background(), "closing slot store", "error", err)
	}
	shutdownTelemetry(a.telemetry)
}

func shutdownTelemetry(tp *telemetry.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := tp.Shutdown(ctx); err != nil {
		logging.Error(ctx, "shutting down telemetry", "error", err)
	}
}
