package data

import (
	"context"
	"fmt"

	"github.com/roguepikachu/pasteshare/internal/config"
	"github.com/roguepikachu/pasteshare/internal/repository"
	boltRepo "github.com/roguepikachu/pasteshare/internal/repository/bolt"
	"github.com/roguepikachu/pasteshare/internal/repository/fake"
	postgresRepo "github.com/roguepikachu/pasteshare/internal/repository/postgres"
	redisRepo "github.com/roguepikachu/pasteshare/internal/repository/redis"
	"github.com/roguepikachu/pasteshare/pkg/logger"
)

// NewSettingRepository builds the settings store selected by cfg.SettingsStore.
// The returned close function releases the underlying connection.
func NewSettingRepository(ctx context.Context, cfg config.Config) (repository.SettingRepository, func(), error) {
	noop := func() {}
	switch cfg.SettingsStore {
	case "", config.StoreMemory:
		return fake.NewSettingRepository(), noop, nil
	case config.StoreBolt:
		db, err := NewBoltDB(cfg)
		if err != nil {
			return nil, noop, err
		}
		repo, err := boltRepo.NewSettingRepository(db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return repo, func() { _ = db.Close() }, nil
	case config.StoreRedis:
		client := NewRedisClient(cfg)
		return redisRepo.NewSettingRepository(client), func() { _ = client.Close() }, nil
	case config.StorePostgres:
		pool, err := NewPostgresPool(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		repo := postgresRepo.NewSettingRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return repo, pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown settings store %q", cfg.SettingsStore)
	}
}

// MustSettingRepository is NewSettingRepository for program entry points.
func MustSettingRepository(ctx context.Context, cfg config.Config) (repository.SettingRepository, func()) {
	repo, closeFn, err := NewSettingRepository(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "settings store %q: %v", cfg.SettingsStore, err)
	}
	logger.WithField(ctx, "store", orDefault(cfg.SettingsStore, config.StoreMemory)).Info("settings store ready")
	return repo, closeFn
}
