// Package app wires configuration, storage, clients and services together.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/networth/internal/cache/memory"
	"github.com/bobmcallan/networth/internal/cache/redis"
	"github.com/bobmcallan/networth/internal/clients/mfapi"
	"github.com/bobmcallan/networth/internal/clients/yahoo"
	"github.com/bobmcallan/networth/internal/common"
	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/scheduler"
	"github.com/bobmcallan/networth/internal/services/ledger"
	"github.com/bobmcallan/networth/internal/services/portfolio"
	"github.com/bobmcallan/networth/internal/services/quote"
	"github.com/bobmcallan/networth/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	PriceCache       interfaces.PriceCache
	YahooClient      interfaces.YahooClient
	MFAPIClient      interfaces.MFAPIClient
	QuoteService     interfaces.QuoteService
	SearchService    interfaces.TickerSearchService
	LedgerService    interfaces.LedgerService
	PortfolioService interfaces.PortfolioService
	StartupTime      time.Time

	scheduler *scheduler.Scheduler
	closers   []func() error
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and initializes every component.
// configPath may be empty, in which case NETWORTH_CONFIG, the binary
// directory and config/networth.toml are tried in turn.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()
	if configPath == "" {
		configPath = os.Getenv("NETWORTH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "networth.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/networth.toml" // fallback for development
		}
	}

	common.LoadVersion(binDir, filepath.Dir(configPath))

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	return NewAppWithConfig(context.Background(), config, logger)
}

// NewAppWithConfig initializes the application from an already loaded config.
func NewAppWithConfig(ctx context.Context, config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	a := &App{
		Config:      config,
		Logger:      logger,
		StartupTime: startupStart,
	}

	storageManager, err := storage.NewStorageManager(ctx, logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = storageManager
	a.closers = append(a.closers, storageManager.Close)

	priceCache, err := a.newPriceCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.PriceCache = priceCache

	a.YahooClient = yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)
	a.MFAPIClient = mfapi.NewClient(
		mfapi.WithBaseURL(config.Clients.MFAPI.BaseURL),
		mfapi.WithLogger(logger),
		mfapi.WithRateLimit(config.Clients.MFAPI.RateLimit),
		mfapi.WithTimeout(config.Clients.MFAPI.GetTimeout()),
	)

	quoteService := quote.NewService(a.YahooClient, a.MFAPIClient, priceCache, quote.OptionsFromConfig(config), logger)
	a.QuoteService = quoteService
	a.SearchService = quoteService
	a.LedgerService = ledger.NewService(storageManager, logger)
	a.PortfolioService = portfolio.NewService(storageManager, quoteService, config, logger)

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")
	return a, nil
}

// newPriceCache builds the configured quote cache backend.
func (a *App) newPriceCache(ctx context.Context) (interfaces.PriceCache, error) {
	ttl := a.Config.Cache.GetTTL()

	if a.Config.Cache.Backend != "redis" {
		return memory.New(ttl), nil
	}

	client, err := redis.NewClient(ctx, a.Config.Cache.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
	}
	c := redis.New(client, a.Config.Cache.Redis.Prefix, ttl, a.Logger)
	a.closers = append(a.closers, c.Close)

	a.Logger.Info().Str("address", a.Config.Cache.Redis.Address).Dur("ttl", ttl).Msg("Using redis price cache")
	return c, nil
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, then close cache and storage.
func (a *App) Close() {
	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduler shutdown failed")
		}
		a.scheduler = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to release resource")
		}
	}
	a.closers = nil
}
