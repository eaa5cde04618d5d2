package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/clinical-data-api/internal/config"
	"github.com/yukikurage/clinical-data-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists every model persisted by the SQL backends.
func Tables() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Dataset{},
		&models.FileRecord{},
		&models.Model{},
		&models.AuditLog{},
	}
}

// Dialector returns the GORM dialector for the configured SQL driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.StorageDriver {
	case config.DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("storage driver %q has no SQL dialector", cfg.StorageDriver)
	}
}

// Open connects to the configured SQL database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.GinMode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.StorageDriver == config.DriverSQLite {
		// Every connection to ":memory:" is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to configure sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	slog.Info("database connection established", slog.String("driver", cfg.StorageDriver))
	return db, nil
}

// Migrate creates or updates the tables for every persisted model.
func Migrate(db *gorm.DB) error {
	slog.Info("running database migrations")
	if err := db.AutoMigrate(Tables()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("database migrations completed")
	return nil
}
