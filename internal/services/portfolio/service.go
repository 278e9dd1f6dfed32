package portfolio

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/bobmcallan/networth/internal/common"
	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
	"github.com/bobmcallan/networth/internal/services/tax"
)

// maxConcurrent bounds the per-holding computation fan-out.
const maxConcurrent = 8

// Allocation categories, in display order.
const (
	CategoryIndianEquity = "Indian Equity"
	CategoryUSEquity     = "US Equity"
	CategoryMutualFunds  = "Mutual Funds"
	CategoryCrypto       = "Crypto"
	CategorySGB          = "SGB"
	CategoryCash         = "Cash"
)

var categoryOrder = []string{
	CategoryIndianEquity,
	CategoryUSEquity,
	CategoryMutualFunds,
	CategoryCrypto,
	CategorySGB,
	CategoryCash,
}

// Service implements PortfolioService over the ledger and the quote service.
type Service struct {
	storage interfaces.StorageManager
	quotes  interfaces.QuoteService
	config  *common.Config
	logger  *common.Logger
}

// NewService creates a new portfolio service
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteService, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		quotes:  quotes,
		config:  config,
		logger:  logger,
	}
}

// holdingInput is one open position ready for valuation.
type holdingInput struct {
	asset    models.Asset
	txs      []models.Transaction
	position models.Position
}

// GetSummary values every open holding as of asOf (zero means now).
// Trades dated after asOf are ignored.
func (s *Service) GetSummary(ctx context.Context, asOf time.Time) (*models.PortfolioSummary, error) {
	asOf = resolveAsOf(asOf)

	inputs, err := s.loadHoldings(ctx, asOf)
	if err != nil {
		return nil, err
	}

	refs := make([]models.AssetRef, 0, len(inputs))
	for _, in := range inputs {
		if in.asset.AssetType == models.AssetCash {
			continue
		}
		refs = append(refs, models.AssetRef{Ticker: in.asset.Ticker, Provider: in.asset.Provider, Market: in.asset.Market})
	}
	prices := s.quotes.GetPrices(ctx, refs)
	usdinr := s.quotes.GetUSDINRRate(ctx)

	holdings := make([]models.HoldingSummary, len(inputs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in holdingInput) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			holdings[i] = s.summarizeHolding(in, prices[in.asset.Ticker], usdinr, asOf)
		}(i, in)
	}
	wg.Wait()

	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].CurrentValue != holdings[j].CurrentValue {
			return holdings[i].CurrentValue > holdings[j].CurrentValue
		}
		return holdings[i].Ticker < holdings[j].Ticker
	})

	summary := &models.PortfolioSummary{
		AsOf:         asOf,
		HomeCurrency: s.config.FX.HomeCurrency,
		USDINRRate:   usdinr,
		Holdings:     holdings,
	}
	summary.NetWorth = computeNetWorth(holdings)
	summary.Allocations = computeAllocations(holdings, summary.NetWorth.TotalValue)
	summary.CurrencyExposure = computeCurrencyExposure(holdings, summary.NetWorth.TotalValue)
	summary.TaxHarvest = computeTaxHarvest(holdings)

	s.logger.Info().
		Int("holdings", len(holdings)).
		Float64("total_value", summary.NetWorth.TotalValue).
		Float64("usdinr", usdinr).
		Msg("Portfolio summary computed")

	return summary, nil
}

// loadHoldings groups the ledger by asset and keeps open positions.
func (s *Service) loadHoldings(ctx context.Context, asOf time.Time) ([]holdingInput, error) {
	assets, err := s.storage.AssetStore().ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	trades, err := s.storage.TransactionStore().ListTransactions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	byAsset := make(map[string][]models.Transaction)
	for _, t := range trades {
		if t.Date.After(asOf) {
			continue
		}
		byAsset[t.AssetID] = append(byAsset[t.AssetID], *t)
	}

	var inputs []holdingInput
	for _, a := range assets {
		txs := byAsset[a.ID]
		if len(txs) == 0 {
			continue
		}
		// store order is newest first
		sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

		pos := AggregatePosition(txs)
		if !(pos.NetQuantity > 0) {
			continue
		}
		inputs = append(inputs, holdingInput{asset: *a, txs: txs, position: pos})
	}
	return inputs, nil
}

func (s *Service) summarizeHolding(in holdingInput, quote *models.PriceData, usdinr float64, asOf time.Time) models.HoldingSummary {
	a := in.asset
	pos := in.position

	fx := 1.0
	currency := "INR"
	if a.IsForeign() {
		fx = usdinr
		currency = "USD"
	}

	avgHome := 0.0
	if pos.AveragePrice != nil {
		avgHome = *pos.AveragePrice
	}

	h := models.HoldingSummary{
		AssetID:      a.ID,
		Ticker:       a.Ticker,
		Name:         a.Name,
		AssetType:    a.AssetType,
		Market:       a.Market,
		Quantity:     pos.NetQuantity,
		AveragePrice: avgHome,
		Invested:     pos.TotalCostBasis,
		FxRate:       fx,
		Currency:     currency,
		IsMutualFund: a.AssetType == models.AssetMutualFund,
	}

	switch {
	case quote != nil && quote.Price > 0:
		h.CurrentPrice = quote.Price
	default:
		// value at cost when no quote is available
		h.CurrentPrice = avgHome / fx
		h.PriceUnavailable = a.AssetType != models.AssetCash
	}

	h.CurrentValue = h.Quantity * h.CurrentPrice * fx
	h.ProfitLoss = h.CurrentValue - h.Invested
	if h.Invested > 0 {
		h.ProfitLossPct = h.ProfitLoss / h.Invested * 100
	}

	h.Return = ComputeReturn(models.HoldingData{
		Transactions:  in.txs,
		CurrentPrice:  h.CurrentPrice,
		CurrentFxRate: fx,
		AsOf:          asOf,
	})

	if quote != nil && quote.Change != nil {
		h.DayChange = *quote.Change * h.Quantity * fx
		if quote.ChangePercent != nil {
			h.DayChangePct = *quote.ChangePercent
		}
	}

	h.Harvest = tax.FindHarvestOpportunity(a, in.txs, h.ProfitLoss, s.config.Tax.EquityTaxRules(), asOf)

	var firstBuy time.Time
	for _, t := range in.txs {
		if t.Type != models.TransactionBuy {
			continue
		}
		if firstBuy.IsZero() || t.Date.Before(firstBuy) {
			firstBuy = t.Date
		}
		if t.IsSIP {
			h.SIPCount++
		}
	}

	if a.AssetType == models.AssetSGB && !firstBuy.IsZero() {
		h.AccruedInterest = ComputeAccrual(avgHome, h.Quantity, firstBuy, s.config.Accrual.SGBAnnualRate, asOf)
	}

	return h
}

// Category maps an asset onto its allocation bucket.
func Category(assetType models.AssetType, market models.Market) string {
	switch assetType {
	case models.AssetMutualFund:
		return CategoryMutualFunds
	case models.AssetCrypto:
		return CategoryCrypto
	case models.AssetSGB:
		return CategorySGB
	case models.AssetCash:
		return CategoryCash
	}
	switch market {
	case models.MarketUS:
		return CategoryUSEquity
	case models.MarketCrypto:
		return CategoryCrypto
	default:
		return CategoryIndianEquity
	}
}

func computeNetWorth(holdings []models.HoldingSummary) models.NetWorth {
	var nw models.NetWorth
	for _, h := range holdings {
		nw.TotalValue += h.CurrentValue
		nw.TotalInvested += h.Invested
		nw.DayChange += h.DayChange
		nw.AccruedInterest += h.AccruedInterest
	}
	nw.TotalGain = nw.TotalValue - nw.TotalInvested
	if nw.TotalInvested > 0 {
		nw.TotalGainPct = nw.TotalGain / nw.TotalInvested * 100
	}
	if prev := nw.TotalValue - nw.DayChange; prev > 0 {
		nw.DayChangePct = nw.DayChange / prev * 100
	}
	return nw
}

func computeAllocations(holdings []models.HoldingSummary, total float64) []models.Allocation {
	values := make(map[string]float64)
	for _, h := range holdings {
		values[Category(h.AssetType, h.Market)] += h.CurrentValue
	}

	allocations := make([]models.Allocation, 0, len(values))
	for _, cat := range categoryOrder {
		v, ok := values[cat]
		if !ok {
			continue
		}
		a := models.Allocation{Category: cat, Value: v}
		if total > 0 {
			a.Percent = v / total * 100
		}
		allocations = append(allocations, a)
	}
	return allocations
}

func computeCurrencyExposure(holdings []models.HoldingSummary, total float64) []models.CurrencyExposure {
	var inr, usd float64
	for _, h := range holdings {
		if h.Currency == "USD" {
			usd += h.CurrentValue
		} else {
			inr += h.CurrentValue
		}
	}

	out := make([]models.CurrencyExposure, 0, 2)
	for _, e := range []models.CurrencyExposure{{Currency: "INR", Value: inr}, {Currency: "USD", Value: usd}} {
		if e.Value == 0 {
			continue
		}
		if total > 0 {
			e.Percent = e.Value / total * 100
		}
		out = append(out, e)
	}
	return out
}

func computeTaxHarvest(holdings []models.HoldingSummary) models.TaxHarvestSummary {
	var th models.TaxHarvestSummary
	for _, h := range holdings {
		if h.Harvest == nil {
			continue
		}
		th.TotalSavings += h.Harvest.Savings
		th.Opportunities++
		th.Tickers = append(th.Tickers, h.Ticker)
	}
	th.TotalSavings = math.Round(th.TotalSavings)
	return th
}

// WarmPrices refreshes the quote cache for every asset with an open position.
// It returns the number of quotes resolved.
func (s *Service) WarmPrices(ctx context.Context) (int, error) {
	inputs, err := s.loadHoldings(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	refs := make([]models.AssetRef, 0, len(inputs))
	for _, in := range inputs {
		if in.asset.AssetType == models.AssetCash {
			continue
		}
		refs = append(refs, models.AssetRef{Ticker: in.asset.Ticker, Provider: in.asset.Provider, Market: in.asset.Market})
	}

	prices := s.quotes.GetPrices(ctx, refs)
	s.quotes.GetUSDINRRate(ctx)
	return len(prices), nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
