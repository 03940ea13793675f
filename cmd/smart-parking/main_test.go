package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	flagPort, flagStore = "", ""
	t.Cleanup(func() { flagPort, flagStore = "", "" })
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	resetFlags(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("STORE_DRIVER", "postgres")

	cfg := loadConfig()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreDriver)

	flagPort = "7070"
	flagStore = "badger"

	cfg = loadConfig()
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "badger", cfg.StoreDriver)
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "shell", "both", "seed"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestSeedCommand(t *testing.T) {
	resetFlags(t)
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("STORE_DRIVER", "memory")

	rootCmd.SetArgs([]string{"seed"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.NoError(t, rootCmd.ExecuteContext(context.Background()))
}

func TestBootstrapRejectsUnknownStore(t *testing.T) {
	resetFlags(t)
	t.Setenv("OTEL_ENABLED", "false")
	flagStore = "cassandra"

	_, err := bootstrap(context.Background(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}
