// Package quote resolves prices and the USD/INR rate with caching and retries
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/networth/internal/clients/yahoo"
	"github.com/bobmcallan/networth/internal/common"
	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
)

// maxConcurrent bounds parallel provider calls in GetPrices.
const maxConcurrent = 5

// Options tunes retry and fallback behaviour.
type Options struct {
	Retries        int
	RetryBackoff   time.Duration
	FallbackUSDINR float64
}

// OptionsFromConfig builds Options from application config.
func OptionsFromConfig(config *common.Config) Options {
	return Options{
		Retries:        config.Clients.Yahoo.Retries,
		RetryBackoff:   config.Clients.Yahoo.GetRetryBackoff(),
		FallbackUSDINR: config.FX.FallbackUSDINR,
	}
}

// Service implements QuoteService over Yahoo and mfapi with a TTL cache.
type Service struct {
	yahoo  interfaces.YahooClient
	mfapi  interfaces.MFAPIClient
	cache  interfaces.PriceCache
	opts   Options
	logger *common.Logger
	sleep  func(ctx context.Context, d time.Duration) error // injectable for testing
}

// NewService creates a new quote service. cache may be nil, in which case
// every call goes to the provider.
func NewService(yahooClient interfaces.YahooClient, mfapiClient interfaces.MFAPIClient, cache interfaces.PriceCache, opts Options, logger *common.Logger) *Service {
	if opts.Retries <= 0 {
		opts.Retries = 1
	}
	if opts.FallbackUSDINR <= 0 {
		opts.FallbackUSDINR = models.DefaultUSDINRRate
	}
	return &Service{
		yahoo:  yahooClient,
		mfapi:  mfapiClient,
		cache:  cache,
		opts:   opts,
		logger: logger,
		sleep:  sleepContext,
	}
}

// GetPrice returns the quote for one asset, from cache when fresh.
func (s *Service) GetPrice(ctx context.Context, ref models.AssetRef) (*models.PriceData, error) {
	if ref.Ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", models.ErrInvalidInput)
	}
	if ref.Provider == "" {
		ref.Provider = models.ProviderYahoo
	}

	key := cacheKey(ref)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	var (
		price *models.PriceData
		err   error
	)
	switch ref.Provider {
	case models.ProviderMFAPI:
		if s.mfapi == nil {
			return nil, fmt.Errorf("mfapi client not configured")
		}
		price, err = s.mfapi.GetNAV(ctx, ref.Ticker)
	case models.ProviderYahoo:
		price, err = s.fetchYahoo(ctx, YahooSymbol(ref.Ticker, ref.Market))
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", models.ErrInvalidInput, ref.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price for %s: %w", ref.Ticker, err)
	}

	price.Ticker = ref.Ticker
	if s.cache != nil {
		s.cache.Set(ctx, key, price)
	}
	return price, nil
}

// GetPrices fetches quotes concurrently. Failures are logged and omitted.
func (s *Service) GetPrices(ctx context.Context, refs []models.AssetRef) map[string]*models.PriceData {
	prices := make(map[string]*models.PriceData, len(refs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)

	for _, ref := range refs {
		wg.Add(1)
		go func(ref models.AssetRef) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			price, err := s.GetPrice(ctx, ref)
			if err != nil {
				s.logger.Warn().Err(err).Str("ticker", ref.Ticker).Msg("Price lookup failed")
				return
			}
			mu.Lock()
			prices[ref.Ticker] = price
			mu.Unlock()
		}(ref)
	}

	wg.Wait()
	return prices
}

// GetUSDINRRate returns the live rupee rate, or the configured fallback.
func (s *Service) GetUSDINRRate(ctx context.Context) float64 {
	price, err := s.GetPrice(ctx, models.AssetRef{
		Ticker:   models.USDINRSymbol,
		Provider: models.ProviderYahoo,
	})
	if err != nil || price == nil || !(price.Price > 0) {
		if err != nil {
			s.logger.Warn().Err(err).Float64("fallback", s.opts.FallbackUSDINR).Msg("USDINR lookup failed, using fallback")
		}
		return s.opts.FallbackUSDINR
	}
	return price.Price
}

// fetchYahoo retries with linear backoff; a 404 is not retried.
func (s *Service) fetchYahoo(ctx context.Context, symbol string) (*models.PriceData, error) {
	if s.yahoo == nil {
		return nil, fmt.Errorf("yahoo client not configured")
	}

	var lastErr error
	for attempt := 0; attempt < s.opts.Retries; attempt++ {
		price, err := s.yahoo.GetQuote(ctx, symbol)
		if err == nil {
			return price, nil
		}
		lastErr = err

		var apiErr *yahoo.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			break
		}
		if attempt == s.opts.Retries-1 {
			break
		}

		wait := time.Duration(attempt+1) * s.opts.RetryBackoff
		s.logger.Debug().Err(err).Str("symbol", symbol).Int("attempt", attempt+1).Dur("wait", wait).Msg("Retrying Yahoo quote")
		if err := s.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// YahooSymbol maps a ticker to its Yahoo symbol. Indian listings default
// to NSE unless an exchange suffix is already present.
func YahooSymbol(ticker string, market models.Market) string {
	upper := strings.ToUpper(ticker)
	if market == models.MarketIN && !strings.HasSuffix(upper, ".NS") && !strings.HasSuffix(upper, ".BO") {
		return ticker + ".NS"
	}
	return ticker
}

func cacheKey(ref models.AssetRef) string {
	return fmt.Sprintf("%s:%s:%s", ref.Provider, ref.Market, ref.Ticker)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
