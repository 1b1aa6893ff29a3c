package config

import (
	"testing"
	"time"
)

var configKeys = []string{
	"BOT_TOKEN", "XP_STORE", "XP_DATA_FILE", "DB_PASSWORD", "DB_SSLMODE", "REDIS_ADDR",
	"PORT", "APP_PORT", "XP_PER_CORRECT", "CASE_TIMEOUT_SECONDS", "QUIZ_TIMEOUT_SECONDS",
	"LEADERBOARD_SIZE", "WORKER_COUNT", "APP_ENV", "LOG_LEVEL",
}

// clearConfigEnv blanks every key; getEnv treats empty as unset.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BOT_TOKEN", "test_bot_token")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.BotToken != "test_bot_token" {
		t.Errorf("BotToken = %q, want %q", cfg.BotToken, "test_bot_token")
	}
	if cfg.XPStore != StoreFile {
		t.Errorf("XPStore = %q, want %q", cfg.XPStore, StoreFile)
	}
	if cfg.XPDataFile != "beachtrivia_data.json" {
		t.Errorf("XPDataFile = %q", cfg.XPDataFile)
	}
	if cfg.AppPort != "8000" {
		t.Errorf("AppPort = %q, want 8000", cfg.AppPort)
	}
	if cfg.XPPerCorrect != 25 {
		t.Errorf("XPPerCorrect = %d, want 25", cfg.XPPerCorrect)
	}
	if cfg.GetCaseTimeout() != 600*time.Second {
		t.Errorf("GetCaseTimeout() = %v, want 10m", cfg.GetCaseTimeout())
	}
	if cfg.GetQuizTimeout() != 60*time.Second {
		t.Errorf("GetQuizTimeout() = %v, want 1m", cfg.GetQuizTimeout())
	}
	if cfg.LeaderboardSize != 10 {
		t.Errorf("LeaderboardSize = %d, want 10", cfg.LeaderboardSize)
	}
}

func TestLoadConfig_Port(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		appPort string
		want    string
	}{
		{name: "PORT wins", port: "9000", appPort: "8081", want: "9000"},
		{name: "APP_PORT fallback", appPort: "8081", want: "8081"},
		{name: "Default", want: "8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv("BOT_TOKEN", "token")
			t.Setenv("PORT", tt.port)
			t.Setenv("APP_PORT", tt.appPort)

			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.AppPort != tt.want {
				t.Errorf("AppPort = %q, want %q", cfg.AppPort, tt.want)
			}
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "Missing BOT_TOKEN",
			envVars: map[string]string{},
		},
		{
			name:    "Unknown store",
			envVars: map[string]string{"BOT_TOKEN": "token", "XP_STORE": "mongo"},
		},
		{
			name:    "Postgres without password",
			envVars: map[string]string{"BOT_TOKEN": "token", "XP_STORE": "postgres"},
		},
		{
			name:    "Zero XP per answer",
			envVars: map[string]string{"BOT_TOKEN": "token", "XP_PER_CORRECT": "0"},
		},
		{
			name:    "Negative quiz timeout",
			envVars: map[string]string{"BOT_TOKEN": "token", "QUIZ_TIMEOUT_SECONDS": "-5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}

func TestLoadConfig_StoreIsCaseInsensitive(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("XP_STORE", "Redis")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.XPStore != StoreRedis {
		t.Errorf("XPStore = %q, want %q", cfg.XPStore, StoreRedis)
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name:      "Development mode - no validation",
			cfg:       &Config{AppEnv: "development", XPStore: StorePostgres, DBSSLMode: "disable"},
			shouldErr: false,
		},
		{
			name:      "Production file store",
			cfg:       &Config{AppEnv: "production", XPStore: StoreFile, LogLevel: "info"},
			shouldErr: false,
		},
		{
			name:      "Production postgres without SSL",
			cfg:       &Config{AppEnv: "production", XPStore: StorePostgres, DBSSLMode: "disable"},
			shouldErr: true,
		},
		{
			name:      "Production postgres with SSL",
			cfg:       &Config{AppEnv: "production", XPStore: StorePostgres, DBSSLMode: "require"},
			shouldErr: false,
		},
		{
			name:      "Production redis without password",
			cfg:       &Config{AppEnv: "production", XPStore: StoreRedis},
			shouldErr: true,
		},
		{
			name:      "Production debug logging",
			cfg:       &Config{AppEnv: "production", XPStore: StoreFile, LogLevel: "debug"},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProductionSecurity()
			if tt.shouldErr && err == nil {
				t.Error("ValidateProductionSecurity() expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("ValidateProductionSecurity() unexpected error = %v", err)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "testuser",
		DBPassword: "testpass",
		DBName:     "testdb",
		DBSSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn := cfg.GetDSN(); dsn != expected {
		t.Errorf("GetDSN() = %q, want %q", dsn, expected)
	}
}
