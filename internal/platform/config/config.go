package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr              string
	Environment       string
	LedgerPath        string
	DataEncryptionKey string
	JWTSecret         string
	TokenTTL          time.Duration
	Passcode          string
	PasscodeHash      string
	RemoteURL         string
	SyncInterval      time.Duration
	SyncDebounce      time.Duration
	SyncLockWindow    time.Duration
	InsightURL        string
	InsightAPIKey     string
	InsightTimeout    time.Duration
	DatabaseURL       string
	DocumentKey       string
	MaxBodyBytes      int64
	MetricsEnabled    bool
}

func Load() Config {
	return Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		Environment:       getEnv("APP_ENV", "development"),
		LedgerPath:        getEnv("LEDGER_PATH", "storage/ledger.json"),
		DataEncryptionKey: getEnv("DATA_ENCRYPTION_KEY", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTL:          getEnvDuration("TOKEN_TTL", 12*time.Hour),
		Passcode:          getEnv("PASSCODE", ""),
		PasscodeHash:      getEnv("PASSCODE_HASH", ""),
		RemoteURL:         getEnv("REMOTE_URL", ""),
		SyncInterval:      getEnvDuration("SYNC_INTERVAL", 20*time.Second),
		SyncDebounce:      getEnvDuration("SYNC_DEBOUNCE", 2*time.Second),
		SyncLockWindow:    getEnvDuration("SYNC_LOCK_WINDOW", 10*time.Second),
		InsightURL:        getEnv("INSIGHT_URL", ""),
		InsightAPIKey:     getEnv("INSIGHT_API_KEY", ""),
		InsightTimeout:    getEnvDuration("INSIGHT_TIMEOUT", 30*time.Second),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DocumentKey:       getEnv("DOCUMENT_KEY", "salary_app_data_v6"),
		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.LedgerPath) == "" {
		return fmt.Errorf("LEDGER_PATH is required")
	}
	if c.Passcode == "" && c.PasscodeHash == "" {
		return fmt.Errorf("PASSCODE or PASSCODE_HASH is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.PasscodeHash == "" {
			return fmt.Errorf("PASSCODE_HASH must be set in production, plain PASSCODE is for development only")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.SyncInterval <= 0 || c.SyncDebounce <= 0 || c.SyncLockWindow < 0 {
		return fmt.Errorf("sync intervals must be positive")
	}
	if c.RemoteURL != "" && !strings.HasPrefix(c.RemoteURL, "http") {
		return fmt.Errorf("REMOTE_URL must be an http(s) URL")
	}
	return nil
}

func (c Config) ValidateSyncServer() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.DocumentKey) == "" {
		return fmt.Errorf("DOCUMENT_KEY is required")
	}
	return nil
}
