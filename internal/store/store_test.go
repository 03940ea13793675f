package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-parking/internal/config"
	"smart-parking/internal/store/badgerdb"
	"smart-parking/internal/store/memory"
)

func TestOpenMemory(t *testing.T) {
	s, err := Open(context.Background(), &config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &memory.Store{}, s)
}

func TestOpenBadger(t *testing.T) {
	s, err := Open(context.Background(), &config.Config{
		StoreDriver: config.StoreBadger,
		BadgerPath:  t.TempDir(),
	})
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &badgerdb.Store{}, s)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"mongo"`)
}
