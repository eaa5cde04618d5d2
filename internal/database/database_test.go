package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/clinical-data-api/internal/config"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{config.DriverMySQL, config.DriverPostgres, config.DriverSQLite} {
		cfg := &config.Config{StorageDriver: driver, SQLitePath: ":memory:"}
		dialector, err := Dialector(cfg)
		require.NoError(t, err, driver)
		require.NotNil(t, dialector, driver)
	}

	_, err := Dialector(&config.Config{StorageDriver: config.DriverMemory})
	require.Error(t, err)
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.DriverSQLite, SQLitePath: ":memory:", GinMode: "test"}

	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})

	require.NoError(t, Migrate(db))
	for _, table := range []string{"users", "datasets", "files", "models", "audit_logs"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
}
