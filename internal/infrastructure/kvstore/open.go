package kvstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/config"
	"github.com/sangkips/scanpay/internal/domain/repository"
	"github.com/sangkips/scanpay/internal/infrastructure/database"
)

// Open builds the store selected by cfg.Store.Driver
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.KeyValueStore, error) {
	switch cfg.Store.Driver {
	case "bolt":
		log.Info("opening bolt receipt store", zap.String("path", cfg.Store.Path))
		return NewBoltStore(cfg.Store.Path, cfg.Store.Bucket)

	case "sqlite":
		db, err := database.NewSQLiteDB(cfg.Store.Path, cfg.App.Debug, log)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		return NewGormStore(db), nil

	case "postgres":
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		return NewGormStore(db), nil

	case "redis":
		store, err := NewRedisStore(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Store.Bucket)
		if err != nil {
			return nil, err
		}
		log.Info("connected to redis receipt store", zap.String("addr", cfg.Redis.Addr))
		return store, nil

	case "memory":
		log.Warn("using in-memory receipt store; history is lost on restart")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
