package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server
	ServerPort string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Ingestion
	BatchSize     int
	WorkerCount   int
	StaleJobAfter time.Duration

	// Paths
	DatabaseFile string // $CONFIG_DIR/catalogarr.db
	UploadDir    string // $CONFIG_DIR/uploads

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("TOKEN_TTL_MINUTES", 60)
	viper.SetDefault("BATCH_SIZE", 1000)
	viper.SetDefault("WORKER_COUNT", 2)
	viper.SetDefault("STALE_JOB_TIMEOUT_MINUTES", 30)
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "catalogarr")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	uploadDir := filepath.Join(configDir, "uploads")
	for _, dir := range []string{configDir, uploadDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	config := &Config{
		ServerPort: viper.GetString("SERVER_PORT"),

		JWTSecret: viper.GetString("JWT_SECRET"),
		TokenTTL:  time.Duration(viper.GetInt("TOKEN_TTL_MINUTES")) * time.Minute,

		BatchSize:     viper.GetInt("BATCH_SIZE"),
		WorkerCount:   viper.GetInt("WORKER_COUNT"),
		StaleJobAfter: time.Duration(viper.GetInt("STALE_JOB_TIMEOUT_MINUTES")) * time.Minute,

		DatabaseFile: filepath.Join(configDir, "catalogarr.db"),
		UploadDir:    uploadDir,

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.BatchSize < 1 {
		return nil, fmt.Errorf("BATCH_SIZE must be positive")
	}
	if config.WorkerCount < 1 {
		return nil, fmt.Errorf("WORKER_COUNT must be positive")
	}

	return config, nil
}
