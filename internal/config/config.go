package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required,oneof=development staging production"`
	Port        string `validate:"required"`
	LogLevel    string `validate:"required,oneof=debug info warn error"`
	Adapter     AdapterConfig
	Storage     StorageConfig
	Health      HealthConfig
	RateLimit   RateLimitConfig
}

// AdapterConfig holds adapter-layer configuration
type AdapterConfig struct {
	// TimeBudgetMS is the platform time budget handlers observe through
	// the invocation context.
	TimeBudgetMS int `validate:"gt=0"`
}

// StorageConfig holds storage backend configuration
type StorageConfig struct {
	Type string `validate:"required,oneof=memory sqlite"`
	Path string
}

// HealthConfig holds health probe configuration
type HealthConfig struct {
	URL          string `validate:"required"`
	ExpectStatus int    `validate:"gte=100,lt=600"`
	ExpectBody   string
	Attempts     int `validate:"gt=0"`
	DelayMS      int `validate:"gte=0"`
}

// RateLimitConfig holds demo-server rate limit configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gt=0"`
	Burst             int     `validate:"gt=0"`
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ADAPTER_TIME_BUDGET_MS", 30000)
	viper.SetDefault("STORAGE_TYPE", "memory")
	viper.SetDefault("STORAGE_SQLITE_PATH", "./data/adapter-kit.db")
	viper.SetDefault("HEALTH_URL", "http://localhost:8080/health")
	viper.SetDefault("HEALTH_EXPECT_STATUS", 200)
	viper.SetDefault("HEALTH_ATTEMPTS", 10)
	viper.SetDefault("HEALTH_DELAY_MS", 2000)
	viper.SetDefault("RATE_LIMIT_RPS", 50.0)
	viper.SetDefault("RATE_LIMIT_BURST", 100)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		Adapter: AdapterConfig{
			TimeBudgetMS: viper.GetInt("ADAPTER_TIME_BUDGET_MS"),
		},
		Storage: StorageConfig{
			Type: viper.GetString("STORAGE_TYPE"),
			Path: viper.GetString("STORAGE_SQLITE_PATH"),
		},
		Health: HealthConfig{
			URL:          viper.GetString("HEALTH_URL"),
			ExpectStatus: viper.GetInt("HEALTH_EXPECT_STATUS"),
			ExpectBody:   viper.GetString("HEALTH_EXPECT_BODY"),
			Attempts:     viper.GetInt("HEALTH_ATTEMPTS"),
			DelayMS:      viper.GetInt("HEALTH_DELAY_MS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt gets an environment variable as integer with a fallback value
func GetEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
