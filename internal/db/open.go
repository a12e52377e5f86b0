package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"happythoughts/internal/config"
	"happythoughts/internal/repository"
)

// Open connects to the backend selected by cfg.StoreDriver and returns its
// repositories. The caller owns the returned store and must Close it.
func Open(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := NewMongo(ctx, cfg.MongoURL)
		if err != nil {
			return nil, err
		}
		store, err := repository.NewMongoStore(ctx, client, cfg.MongoDatabase)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return store, nil

	case config.DriverMySQL:
		gormDB, err := NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return gormStore(gormDB)

	case config.DriverSQLite:
		gormDB, err := NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return gormStore(gormDB)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func gormStore(gormDB *gorm.DB) (*repository.Store, error) {
	store, err := repository.NewGormStore(gormDB)
	if err != nil {
		if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return store, nil
}
