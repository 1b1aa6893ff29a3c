package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mroshb/beach_trivia_bot/internal/config"
	"github.com/mroshb/beach_trivia_bot/internal/database"
	"github.com/mroshb/beach_trivia_bot/internal/health"
	"github.com/mroshb/beach_trivia_bot/internal/questions"
	"github.com/mroshb/beach_trivia_bot/internal/services"
	"github.com/mroshb/beach_trivia_bot/pkg/logger"
	"github.com/mroshb/beach_trivia_bot/telegram"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()

	logger.Info("Starting Beach Trivia bot...")

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := database.OpenXPStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open XP store", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close XP store", "error", err)
		}
	}()

	bank := questions.Default()
	if cfg.QuestionBank != "" {
		bank, err = questions.Load(cfg.QuestionBank)
		if err != nil {
			logger.Fatal("Failed to load question bank", err)
		}
	}
	logger.Info("Question bank ready", "cases", len(bank.Cases), "quiz", len(bank.Quiz))

	xpSvc := services.NewXPService(store, nil)

	bot, err := telegram.InitBot(cfg, xpSvc, bank)
	if err != nil {
		logger.Fatal("Failed to initialize bot", err)
	}

	logger.Info("Bot started successfully", "env", cfg.AppEnv, "store", cfg.XPStore)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return health.Serve(gctx, ":"+cfg.AppPort)
	})
	g.Go(func() error {
		return bot.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Shutdown with error", "error", err)
	}
	logger.Info("Bot stopped")
}
