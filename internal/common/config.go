// Package common provides shared utilities for networth
package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/networth/internal/models"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "NETWORTH_"

// Config holds all configuration for networth
type Config struct {
	Environment string          `toml:"environment" env:"ENV"`
	Server      ServerConfig    `toml:"server" envPrefix:"SERVER_"`
	Storage     StorageConfig   `toml:"storage" envPrefix:"STORAGE_"`
	Cache       CacheConfig     `toml:"cache" envPrefix:"CACHE_"`
	Clients     ClientsConfig   `toml:"clients" envPrefix:"CLIENTS_"`
	Tax         TaxConfig       `toml:"tax" envPrefix:"TAX_"`
	Accrual     AccrualConfig   `toml:"accrual" envPrefix:"ACCRUAL_"`
	FX          FXConfig        `toml:"fx" envPrefix:"FX_"`
	Scheduler   SchedulerConfig `toml:"scheduler" envPrefix:"SCHEDULER_"`
	Logging     LoggingConfig   `toml:"logging" envPrefix:"LOG_"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host" env:"HOST"`
	Port int    `toml:"port" env:"PORT"`
}

// StorageConfig selects the ledger backend ("surrealdb" or "memory") and
// holds SurrealDB connection settings
type StorageConfig struct {
	Backend   string `toml:"backend" env:"BACKEND"`
	Address   string `toml:"address" env:"ADDRESS"`
	Namespace string `toml:"namespace" env:"NAMESPACE"`
	Database  string `toml:"database" env:"DATABASE"`
	Username  string `toml:"username" env:"USERNAME"`
	Password  string `toml:"password" env:"PASSWORD"`
}

// CacheConfig selects and tunes the quote cache backend ("memory" or "redis").
type CacheConfig struct {
	Backend string      `toml:"backend" env:"BACKEND"`
	TTL     string      `toml:"ttl" env:"TTL"`
	Redis   RedisConfig `toml:"redis" envPrefix:"REDIS_"`
}

// GetTTL parses and returns the quote cache lifetime
func (c *CacheConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Address  string `toml:"address" env:"ADDRESS"`
	Password string `toml:"password" env:"PASSWORD"`
	DB       int    `toml:"db" env:"DB"`
	Prefix   string `toml:"prefix" env:"PREFIX"`
}

// ClientsConfig holds market data client configurations
type ClientsConfig struct {
	Yahoo YahooConfig `toml:"yahoo" envPrefix:"YAHOO_"`
	MFAPI MFAPIConfig `toml:"mfapi" envPrefix:"MFAPI_"`
}

// YahooConfig holds Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL      string `toml:"base_url" env:"BASE_URL"`
	RateLimit    int    `toml:"rate_limit" env:"RATE_LIMIT"`
	Timeout      string `toml:"timeout" env:"TIMEOUT"`
	Retries      int    `toml:"retries" env:"RETRIES"`
	RetryBackoff string `toml:"retry_backoff" env:"RETRY_BACKOFF"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetRetryBackoff parses and returns the base retry delay
func (c *YahooConfig) GetRetryBackoff() time.Duration {
	d, err := time.ParseDuration(c.RetryBackoff)
	if err != nil {
		return time.Second
	}
	return d
}

// MFAPIConfig holds mfapi.in configuration
type MFAPIConfig struct {
	BaseURL   string `toml:"base_url" env:"BASE_URL"`
	RateLimit int    `toml:"rate_limit" env:"RATE_LIMIT"`
	Timeout   string `toml:"timeout" env:"TIMEOUT"`
}

// GetTimeout parses and returns the timeout duration
func (c *MFAPIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// TaxConfig holds the tax regimes applied by the portfolio summary
type TaxConfig struct {
	ShortTermRate      float64 `toml:"short_term_rate" env:"SHORT_TERM_RATE"`
	LongTermRate       float64 `toml:"long_term_rate" env:"LONG_TERM_RATE"`
	LongTermExemption  float64 `toml:"long_term_exemption" env:"LONG_TERM_EXEMPTION"`
	HoldingPeriodYears int     `toml:"holding_period_years" env:"HOLDING_PERIOD_YEARS"`
	FlatRate           float64 `toml:"flat_rate" env:"FLAT_RATE"`
	WashSaleWindowDays int     `toml:"wash_sale_window_days" env:"WASH_SALE_WINDOW_DAYS"`
}

// EquityTaxRules converts the config to engine rules
func (c *TaxConfig) EquityTaxRules() models.EquityTaxRules {
	return models.EquityTaxRules{
		ShortTermRate:      c.ShortTermRate,
		LongTermRate:       c.LongTermRate,
		LongTermExemption:  c.LongTermExemption,
		HoldingPeriodYears: c.HoldingPeriodYears,
	}
}

// FlatTaxRules converts the config to engine rules
func (c *TaxConfig) FlatTaxRules() models.FlatTaxRules {
	return models.FlatTaxRules{Rate: c.FlatRate, Bucket: models.TaxBucketCrypto}
}

// AccrualConfig holds fixed-coupon instrument settings
type AccrualConfig struct {
	SGBAnnualRate float64 `toml:"sgb_annual_rate" env:"SGB_ANNUAL_RATE"`
}

// FXConfig holds home currency settings
type FXConfig struct {
	HomeCurrency   string  `toml:"home_currency" env:"HOME_CURRENCY"`
	FallbackUSDINR float64 `toml:"fallback_usdinr" env:"FALLBACK_USDINR"`
}

// SchedulerConfig holds background job settings
type SchedulerConfig struct {
	Enabled              bool   `toml:"enabled" env:"ENABLED"`
	PriceRefreshInterval string `toml:"price_refresh_interval" env:"PRICE_REFRESH_INTERVAL"`
}

// GetPriceRefreshInterval parses and returns the refresh interval
func (c *SchedulerConfig) GetPriceRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.PriceRefreshInterval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level" env:"LEVEL"`
	Format     string   `toml:"format" env:"FORMAT"`
	Outputs    []string `toml:"outputs" env:"OUTPUTS" envSeparator:","`
	FilePath   string   `toml:"file_path" env:"FILE_PATH"`
	MaxSizeMB  int      `toml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int      `toml:"max_backups" env:"MAX_BACKUPS"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	equity := models.DefaultEquityTaxRules()
	flat := models.DefaultFlatTaxRules()

	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend:   "surrealdb",
			Address:   "ws://localhost:8000/rpc",
			Namespace: "networth",
			Database:  "networth",
			Username:  "root",
			Password:  "root",
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     "60s",
			Redis: RedisConfig{
				Address: "localhost:6379",
				Prefix:  "networth:price:",
			},
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:      "https://query1.finance.yahoo.com",
				RateLimit:    5,
				Timeout:      "10s",
				Retries:      3,
				RetryBackoff: "1s",
			},
			MFAPI: MFAPIConfig{
				BaseURL:   "https://api.mfapi.in",
				RateLimit: 5,
				Timeout:   "10s",
			},
		},
		Tax: TaxConfig{
			ShortTermRate:      equity.ShortTermRate,
			LongTermRate:       equity.LongTermRate,
			LongTermExemption:  equity.LongTermExemption,
			HoldingPeriodYears: equity.HoldingPeriodYears,
			FlatRate:           flat.Rate,
			WashSaleWindowDays: models.DefaultWashSaleWindowDays,
		},
		Accrual: AccrualConfig{
			SGBAnnualRate: 2.5,
		},
		FX: FXConfig{
			HomeCurrency:   "INR",
			FallbackUSDINR: models.DefaultUSDINRRate,
		},
		Scheduler: SchedulerConfig{
			Enabled:              true,
			PriceRefreshInterval: "5m",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "./logs/networth.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory is loaded before overrides are applied.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	_ = godotenv.Load(".env")

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	normalize(config)

	return config, nil
}

// applyEnvOverrides applies NETWORTH_* environment variables on top of config
func applyEnvOverrides(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	return nil
}

// normalize repairs values that would make the engine misbehave.
func normalize(config *Config) {
	defaults := NewDefaultConfig()

	config.FX.HomeCurrency = strings.ToUpper(strings.TrimSpace(config.FX.HomeCurrency))
	if config.FX.HomeCurrency == "" {
		config.FX.HomeCurrency = defaults.FX.HomeCurrency
	}
	if config.FX.FallbackUSDINR <= 0 {
		config.FX.FallbackUSDINR = defaults.FX.FallbackUSDINR
	}

	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	if config.Storage.Backend == "" {
		config.Storage.Backend = defaults.Storage.Backend
	}

	config.Cache.Backend = strings.ToLower(strings.TrimSpace(config.Cache.Backend))
	if config.Cache.Backend != "redis" {
		config.Cache.Backend = "memory"
	}

	if config.Tax.HoldingPeriodYears <= 0 {
		config.Tax.HoldingPeriodYears = defaults.Tax.HoldingPeriodYears
	}
	if config.Tax.WashSaleWindowDays <= 0 {
		config.Tax.WashSaleWindowDays = defaults.Tax.WashSaleWindowDays
	}
	if config.Clients.Yahoo.Retries <= 0 {
		config.Clients.Yahoo.Retries = 1
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	e := strings.ToLower(strings.TrimSpace(c.Environment))
	return e == "production" || e == "prod"
}
