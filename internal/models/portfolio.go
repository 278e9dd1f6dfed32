package models

import "time"

// HoldingSummary is the computed view of one open holding.
type HoldingSummary struct {
	AssetID          string              `json:"asset_id"`
	Ticker           string              `json:"ticker"`
	Name             string              `json:"name"`
	AssetType        AssetType           `json:"asset_type"`
	Market           Market              `json:"market"`
	Quantity         float64             `json:"quantity"`
	AveragePrice     float64             `json:"average_price"`
	Invested         float64             `json:"invested"`
	CurrentPrice     float64             `json:"current_price"`
	CurrentValue     float64             `json:"current_value"`
	FxRate           float64             `json:"fx_rate"`
	Currency         string              `json:"currency"`
	ProfitLoss       float64             `json:"profit_loss"`
	ProfitLossPct    float64             `json:"profit_loss_pct"`
	Return           ReturnResult        `json:"return"`
	DayChange        float64             `json:"day_change"`
	DayChangePct     float64             `json:"day_change_pct"`
	Harvest          *HarvestOpportunity `json:"harvest,omitempty"`
	AccruedInterest  float64             `json:"accrued_interest,omitempty"`
	SIPCount         int                 `json:"sip_count"`
	IsMutualFund     bool                `json:"is_mutual_fund"`
	PriceUnavailable bool                `json:"price_unavailable,omitempty"`
}

// NetWorth is the portfolio-wide total in home currency.
type NetWorth struct {
	TotalValue      float64 `json:"total_value"`
	TotalInvested   float64 `json:"total_invested"`
	TotalGain       float64 `json:"total_gain"`
	TotalGainPct    float64 `json:"total_gain_pct"`
	DayChange       float64 `json:"day_change"`
	DayChangePct    float64 `json:"day_change_pct"`
	AccruedInterest float64 `json:"accrued_interest"`
}

// Allocation is one category's share of net worth.
type Allocation struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Percent  float64 `json:"percent"`
}

// CurrencyExposure is net worth split by underlying currency.
type CurrencyExposure struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
	Percent  float64 `json:"percent"`
}

// TaxHarvestSummary aggregates harvest opportunities across holdings.
type TaxHarvestSummary struct {
	TotalSavings  float64  `json:"total_savings"`
	Opportunities int      `json:"opportunities"`
	Tickers       []string `json:"tickers,omitempty"`
}

// PortfolioSummary is the full computed portfolio view as of a point in time.
type PortfolioSummary struct {
	AsOf             time.Time          `json:"as_of"`
	HomeCurrency     string             `json:"home_currency"`
	USDINRRate       float64            `json:"usdinr_rate"`
	NetWorth         NetWorth           `json:"net_worth"`
	Allocations      []Allocation       `json:"allocations"`
	CurrencyExposure []CurrencyExposure `json:"currency_exposure"`
	TaxHarvest       TaxHarvestSummary  `json:"tax_harvest"`
	Holdings         []HoldingSummary   `json:"holdings"`
}
