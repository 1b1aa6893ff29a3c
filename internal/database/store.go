package database

import (
	"context"
	"fmt"

	"github.com/mroshb/beach_trivia_bot/internal/config"
	"github.com/mroshb/beach_trivia_bot/internal/repositories"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

// OpenXPStore builds the XP backend selected by cfg.XPStore. The returned close func
// releases whatever connection the backend holds.
func OpenXPStore(ctx context.Context, cfg *config.Config) (repositories.XPRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.XPStore {
	case config.StoreFile, "":
		repo, err := repositories.NewFileXPRepository(cfg.XPDataFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using file XP store", "path", cfg.XPDataFile)
		return repo, noop, nil

	case config.StorePostgres:
		db, err := Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if err := AutoMigrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		logger.Info("Using postgres XP store")
		return repositories.NewPostgresXPRepository(db), sqlDB.Close, nil

	case config.StoreRedis:
		client, err := ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using redis XP store", "prefix", cfg.RedisKeyPrefix)
		return repositories.NewRedisXPRepository(client, cfg.RedisKeyPrefix), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown XP store %q", cfg.XPStore)
	}
}
