package config

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kendall-kelly/reservations-api/utils"
)

const sqlitePrefix = "sqlite:"

// ConnectDatabase opens the database named by cfg.DatabaseURL. URLs starting
// with "sqlite:" open a local sqlite file; anything else is handed to postgres.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.IsProduction() {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	dialector, driver := dialectorFor(cfg.DatabaseURL)
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		// sqlite allows one writer at a time
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	utils.Logger.WithField("driver", driver).Info("Database connection established successfully")
	return db, nil
}

func dialectorFor(url string) (gorm.Dialector, string) {
	if path, ok := strings.CutPrefix(url, sqlitePrefix); ok {
		if !strings.Contains(path, "_foreign_keys") {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}
			path += sep + "_foreign_keys=1"
		}
		return sqlite.Open(path), "sqlite"
	}
	return postgres.Open(url), "postgres"
}
