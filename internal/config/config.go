package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// XP store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	// Telegram
	BotToken string

	// XP storage
	XPStore    string
	XPDataFile string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// Application
	AppEnv   string
	AppPort  string
	LogLevel string

	// Rate Limiting
	RateLimitPerUser       int
	RateLimitWindowSeconds int
	WorkerCount            int

	// Game
	QuestionBank       string
	XPPerCorrect       int64
	CaseTimeoutSeconds int
	QuizTimeoutSeconds int
	LeaderboardSize    int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken: getEnv("BOT_TOKEN", ""),

		XPStore:    strings.ToLower(getEnv("XP_STORE", StoreFile)),
		XPDataFile: getEnv("XP_DATA_FILE", "beachtrivia_data.json"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "beachtrivia"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "beachtrivia_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "beachtrivia"),

		AppEnv: getEnv("APP_ENV", "development"),
		// Hosting platforms hand the bind port in PORT.
		AppPort:  getEnv("PORT", getEnv("APP_PORT", "8000")),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RateLimitPerUser:       getEnvInt("RATE_LIMIT_PER_USER", 20),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		WorkerCount:            getEnvInt("WORKER_COUNT", 10),

		QuestionBank:       getEnv("QUESTION_BANK", ""),
		XPPerCorrect:       getEnvInt64("XP_PER_CORRECT", 25),
		CaseTimeoutSeconds: getEnvInt("CASE_TIMEOUT_SECONDS", 600),
		QuizTimeoutSeconds: getEnvInt("QUIZ_TIMEOUT_SECONDS", 60),
		LeaderboardSize:    getEnvInt("LEADERBOARD_SIZE", 10),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	switch c.XPStore {
	case StoreFile:
		if c.XPDataFile == "" {
			return fmt.Errorf("XP_DATA_FILE is required for the file store")
		}
	case StorePostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("XP_STORE must be one of file, postgres, redis, got %q", c.XPStore)
	}

	if c.XPPerCorrect <= 0 {
		return fmt.Errorf("XP_PER_CORRECT must be positive")
	}
	if c.CaseTimeoutSeconds <= 0 || c.QuizTimeoutSeconds <= 0 {
		return fmt.Errorf("CASE_TIMEOUT_SECONDS and QUIZ_TIMEOUT_SECONDS must be positive")
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("LEADERBOARD_SIZE must be positive")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.XPStore == StorePostgres && c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.XPStore == StoreRedis && c.RedisPassword == "" {
		return fmt.Errorf("REDIS_PASSWORD must be set in production")
	}
	if c.LogLevel == "debug" {
		return fmt.Errorf("LOG_LEVEL debug is not allowed in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetCaseTimeout() time.Duration {
	return time.Duration(c.CaseTimeoutSeconds) * time.Second
}

func (c *Config) GetQuizTimeout() time.Duration {
	return time.Duration(c.QuizTimeoutSeconds) * time.Second
}

func (c *Config) GetRateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
