package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/clinical-data-api/internal/config"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

func TestOpenStorage_Memory(t *testing.T) {
	store, closeStore, err := openStorage(&config.Config{StorageDriver: config.DriverMemory})
	require.NoError(t, err)
	defer closeStore()

	_, ok := store.(*storage.MemStorage)
	assert.True(t, ok)
}

func TestOpenStorage_SQLite(t *testing.T) {
	store, closeStore, err := openStorage(&config.Config{
		StorageDriver: config.DriverSQLite,
		SQLitePath:    ":memory:",
		GinMode:       "test",
	})
	require.NoError(t, err)
	defer closeStore()

	ctx := context.Background()
	seeded, err := storage.SeedIfEmpty(ctx, store)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = storage.SeedIfEmpty(ctx, store)
	require.NoError(t, err)
	assert.False(t, seeded)

	datasets, err := store.GetDatasets(ctx, "")
	require.NoError(t, err)
	assert.Len(t, datasets, 3)
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	_, _, err := openStorage(&config.Config{StorageDriver: "oracle"})
	assert.Error(t, err)
}
