package config

import (
	"os"
	"strconv"
	"time"

	"fretedash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Workbooks WorkbookConfig `validate:"required"`
	Server    ServerConfig   `validate:"required"`
	Cache     CacheConfig
}

// WorkbookConfig holds the paths of the three source workbooks
type WorkbookConfig struct {
	BaseValuesFile  string `validate:"required"`
	FreightCalcFile string `validate:"required"`
	QuotationFile   string `validate:"required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Host     string
	Port     string `validate:"required"`
	GinMode  string
	TableCap int // max rows sent to the dashboard table
}

// CacheConfig holds merged-table cache settings
type CacheConfig struct {
	RevalidateInterval time.Duration
	RevalidateEnabled  bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Workbooks: loadWorkbookConfig(),
		Server:    loadServerConfig(),
		Cache:     loadCacheConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadWorkbookConfig() WorkbookConfig {
	return WorkbookConfig{
		BaseValuesFile:  getEnvOrDefault("BASE_VALUES_FILE", "data/BASE_VALORES.xlsx"),
		FreightCalcFile: getEnvOrDefault("FREIGHT_CALC_FILE", "data/CALCULO FRETE PESO.xlsx"),
		QuotationFile:   getEnvOrDefault("QUOTATION_FILE", "data/COTACAO_LOTACAO.xlsm"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:     getEnvOrDefault("HOST", "0.0.0.0"),
		Port:     getEnvOrDefault("PORT", "8501"),
		GinMode:  getEnvOrDefault("GIN_MODE", "release"),
		TableCap: getEnvIntOrDefault("TABLE_ROW_CAP", 500),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		RevalidateInterval: getEnvDurationOrDefault("CACHE_REVALIDATE_INTERVAL", 5*time.Minute),
		RevalidateEnabled:  getEnvBoolOrDefault("CACHE_REVALIDATE_ENABLED", true),
	}
}

func validateConfig(config *Config) error {
	if config.Workbooks.BaseValuesFile == "" {
		return errors.ConfigInvalid("base values workbook path is required")
	}
	if config.Workbooks.FreightCalcFile == "" {
		return errors.ConfigInvalid("freight calculation workbook path is required")
	}
	if config.Workbooks.QuotationFile == "" {
		return errors.ConfigInvalid("quotation workbook path is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Server.TableCap <= 0 {
		return errors.ConfigInvalid("table row cap must be positive")
	}
	return nil
}

// Addr returns the host:port the server binds.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
