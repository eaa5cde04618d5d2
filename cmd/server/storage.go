package main

import (
	"log/slog"

	"github.com/yukikurage/clinical-data-api/internal/config"
	"github.com/yukikurage/clinical-data-api/internal/database"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

// openStorage builds the backend named by STORAGE_DRIVER. The returned func
// releases it.
func openStorage(cfg *config.Config) (storage.Storage, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		return storage.NewMemStorage(), func() {}, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			slog.Warn("failed to close database", slog.String("error", err.Error()))
		}
	}
	return storage.NewGormStorage(db), closeDB, nil
}
