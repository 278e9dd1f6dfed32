package quote

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/networth/internal/cache/memory"
	"github.com/bobmcallan/networth/internal/clients/yahoo"
	"github.com/bobmcallan/networth/internal/common"
	"github.com/bobmcallan/networth/internal/models"
)

type mockYahoo struct {
	mu      sync.Mutex
	calls   []string
	prices  map[string]float64
	failN   int32 // fail this many calls before succeeding
	errFunc func(symbol string) error
	count   int32

	searchResults []models.TickerMatch
	searchErr     error
	lookups       map[string]*models.TickerMatch
}

func (m *mockYahoo) Search(_ context.Context, query string, _ int) ([]models.TickerMatch, error) {
	m.mu.Lock()
	m.calls = append(m.calls, "search:"+query)
	m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *mockYahoo) Lookup(_ context.Context, symbol string) (*models.TickerMatch, error) {
	m.mu.Lock()
	m.calls = append(m.calls, "lookup:"+symbol)
	m.mu.Unlock()
	match, ok := m.lookups[symbol]
	if !ok {
		return nil, &yahoo.APIError{StatusCode: 404, Message: "not found", Endpoint: symbol}
	}
	cp := *match
	return &cp, nil
}

func (m *mockYahoo) GetQuote(_ context.Context, symbol string) (*models.PriceData, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()

	n := atomic.AddInt32(&m.count, 1)
	if n <= m.failN {
		return nil, &yahoo.APIError{StatusCode: 500, Message: "boom", Endpoint: symbol}
	}
	if m.errFunc != nil {
		if err := m.errFunc(symbol); err != nil {
			return nil, err
		}
	}
	p, ok := m.prices[symbol]
	if !ok {
		return nil, &yahoo.APIError{StatusCode: 404, Message: "not found", Endpoint: symbol}
	}
	return &models.PriceData{Ticker: symbol, Price: p, Currency: "INR", Provider: models.ProviderYahoo}, nil
}

type mockMFAPI struct {
	navs    map[string]float64
	schemes map[string]string
}

func (m *mockMFAPI) GetScheme(_ context.Context, code string) (*models.TickerMatch, error) {
	name, ok := m.schemes[code]
	if !ok {
		return nil, errors.New("unknown scheme")
	}
	return &models.TickerMatch{Ticker: code, Name: name, Type: "MUTUAL_FUND"}, nil
}

func (m *mockMFAPI) SearchSchemes(_ context.Context, query string, limit int) ([]models.TickerMatch, error) {
	var out []models.TickerMatch
	for code, name := range m.schemes {
		if strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
			out = append(out, models.TickerMatch{Ticker: code, Name: name, Type: "MUTUAL_FUND"})
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockMFAPI) GetNAV(_ context.Context, code string) (*models.PriceData, error) {
	nav, ok := m.navs[code]
	if !ok {
		return nil, errors.New("unknown scheme")
	}
	return &models.PriceData{Ticker: code, Price: nav, Currency: "INR", Provider: models.ProviderMFAPI}, nil
}

func newTestService(y *mockYahoo, mf *mockMFAPI) (*Service, *[]time.Duration) {
	svc := NewService(y, mf, memory.New(time.Minute), Options{
		Retries:        3,
		RetryBackoff:   time.Second,
		FallbackUSDINR: 83.5,
	}, common.NewSilentLogger())
	var waits []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return svc, &waits
}

func TestYahooSymbol(t *testing.T) {
	tests := []struct {
		ticker string
		market models.Market
		want   string
	}{
		{"RELIANCE", models.MarketIN, "RELIANCE.NS"},
		{"RELIANCE.NS", models.MarketIN, "RELIANCE.NS"},
		{"500325.BO", models.MarketIN, "500325.BO"},
		{"AAPL", models.MarketUS, "AAPL"},
		{"BTC-USD", models.MarketCrypto, "BTC-USD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, YahooSymbol(tt.ticker, tt.market), tt.ticker)
	}
}

func TestGetPrice_RoutesAndCaches(t *testing.T) {
	y := &mockYahoo{prices: map[string]float64{"TCS.NS": 3500}}
	svc, _ := newTestService(y, &mockMFAPI{})
	ctx := context.Background()
	ref := models.AssetRef{Ticker: "TCS", Provider: models.ProviderYahoo, Market: models.MarketIN}

	p, err := svc.GetPrice(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, p.Price)
	assert.Equal(t, "TCS", p.Ticker)

	_, err = svc.GetPrice(ctx, ref)
	require.NoError(t, err)
	assert.Len(t, y.calls, 1, "second lookup should be served from cache")
}

func TestGetPrice_MFAPI(t *testing.T) {
	svc, _ := newTestService(&mockYahoo{}, &mockMFAPI{navs: map[string]float64{"119551": 45.67}})

	p, err := svc.GetPrice(context.Background(), models.AssetRef{Ticker: "119551", Provider: models.ProviderMFAPI, Market: models.MarketIN})
	require.NoError(t, err)
	assert.Equal(t, 45.67, p.Price)
	assert.Equal(t, models.ProviderMFAPI, p.Provider)
}

func TestGetPrice_RetriesWithLinearBackoff(t *testing.T) {
	y := &mockYahoo{prices: map[string]float64{"AAPL": 190}, failN: 2}
	svc, waits := newTestService(y, &mockMFAPI{})

	p, err := svc.GetPrice(context.Background(), models.AssetRef{Ticker: "AAPL", Provider: models.ProviderYahoo, Market: models.MarketUS})
	require.NoError(t, err)
	assert.Equal(t, 190.0, p.Price)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *waits)
}

func TestGetPrice_GivesUpAfterRetries(t *testing.T) {
	y := &mockYahoo{prices: map[string]float64{"AAPL": 190}, failN: 10}
	svc, waits := newTestService(y, &mockMFAPI{})

	_, err := svc.GetPrice(context.Background(), models.AssetRef{Ticker: "AAPL", Provider: models.ProviderYahoo, Market: models.MarketUS})
	require.Error(t, err)
	assert.Len(t, y.calls, 3)
	assert.Len(t, *waits, 2)
}

func TestGetPrice_NotFoundIsNotRetried(t *testing.T) {
	y := &mockYahoo{prices: map[string]float64{}}
	svc, waits := newTestService(y, &mockMFAPI{})

	_, err := svc.GetPrice(context.Background(), models.AssetRef{Ticker: "NOPE", Provider: models.ProviderYahoo, Market: models.MarketUS})
	require.Error(t, err)
	assert.Len(t, y.calls, 1)
	assert.Empty(t, *waits)
}

func TestGetPrice_InvalidInput(t *testing.T) {
	svc, _ := newTestService(&mockYahoo{}, &mockMFAPI{})

	_, err := svc.GetPrice(context.Background(), models.AssetRef{})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	_, err = svc.GetPrice(context.Background(), models.AssetRef{Ticker: "X", Provider: "BLOOMBERG"})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestGetPrices_Concurrent(t *testing.T) {
	y := &mockYahoo{prices: map[string]float64{"INFY.NS": 1500, "MSFT": 410}}
	mf := &mockMFAPI{navs: map[string]float64{"120503": 80}}
	svc, _ := newTestService(y, mf)

	prices := svc.GetPrices(context.Background(), []models.AssetRef{
		{Ticker: "INFY", Provider: models.ProviderYahoo, Market: models.MarketIN},
		{Ticker: "MSFT", Provider: models.ProviderYahoo, Market: models.MarketUS},
		{Ticker: "120503", Provider: models.ProviderMFAPI, Market: models.MarketIN},
		{Ticker: "GONE", Provider: models.ProviderYahoo, Market: models.MarketUS},
	})

	require.Len(t, prices, 3)
	assert.Equal(t, 1500.0, prices["INFY"].Price)
	assert.Equal(t, 410.0, prices["MSFT"].Price)
	assert.Equal(t, 80.0, prices["120503"].Price)
	assert.Nil(t, prices["GONE"])
}

func TestGetUSDINRRate(t *testing.T) {
	y := &mockYahoo{prices: map[string]float64{models.USDINRSymbol: 84.1}}
	svc, _ := newTestService(y, &mockMFAPI{})
	assert.Equal(t, 84.1, svc.GetUSDINRRate(context.Background()))

	svc, _ = newTestService(&mockYahoo{prices: map[string]float64{}}, &mockMFAPI{})
	assert.Equal(t, 83.5, svc.GetUSDINRRate(context.Background()))
}
