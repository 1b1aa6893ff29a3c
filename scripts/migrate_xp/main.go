// Command migrate_xp copies XP records from the JSON file store into the store
// selected by XP_STORE (postgres or redis).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/mroshb/beach_trivia_bot/internal/config"
	"github.com/mroshb/beach_trivia_bot/internal/database"
	"github.com/mroshb/beach_trivia_bot/internal/repositories"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	from := flag.String("from", "", "JSON XP file to read (defaults to XP_DATA_FILE)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()

	if cfg.XPStore == config.StoreFile {
		log.Fatal("XP_STORE must be postgres or redis to migrate")
	}

	src := *from
	if src == "" {
		src = cfg.XPDataFile
	}
	source, err := repositories.NewFileXPRepository(src)
	if err != nil {
		logger.Fatal("Failed to read XP file", err)
	}

	ctx := context.Background()
	target, closeTarget, err := database.OpenXPStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open target store", err)
	}
	defer closeTarget()

	migrated, err := migrate(ctx, source, target)
	if err != nil {
		logger.Fatal("Migration failed", err)
	}

	logger.Info("Migration completed", "store", cfg.XPStore, "migrated", migrated)
}

// migrate copies every positive record from source into target. AddXP is additive, so a
// target that already holds XP is refused rather than double-counted.
func migrate(ctx context.Context, source, target repositories.XPRepository) (int, error) {
	existing, err := target.ListXP(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, fmt.Errorf("target store already holds %d XP records", len(existing))
	}

	records, err := source.ListXP(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, r := range records {
		if r.XP <= 0 {
			continue
		}
		if _, err := target.AddXP(ctx, r.UserID, r.XP); err != nil {
			return migrated, fmt.Errorf("user %s: %w", r.UserID, err)
		}
		migrated++
	}
	return migrated, nil
}
