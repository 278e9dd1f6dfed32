package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/networth/internal/models"
)

// QuoteService resolves prices and the USD/INR rate.
type QuoteService interface {
	GetPrice(ctx context.Context, ref models.AssetRef) (*models.PriceData, error)
	// GetPrices returns whatever could be resolved, keyed by ticker.
	GetPrices(ctx context.Context, refs []models.AssetRef) map[string]*models.PriceData
	GetUSDINRRate(ctx context.Context) float64
}

// TickerSearchService finds instruments by name and resolves tickers to names.
type TickerSearchService interface {
	SearchTickers(ctx context.Context, query models.TickerQuery) ([]models.TickerMatch, error)
	// LookupTicker returns nil when the ticker cannot be resolved.
	LookupTicker(ctx context.Context, query models.TickerQuery) (*models.TickerMatch, error)
}

// LedgerService records and lists transactions and assets.
type LedgerService interface {
	RecordTransaction(ctx context.Context, req models.NewTransaction) (*models.Transaction, *models.Asset, error)
	ListTransactions(ctx context.Context, assetID string) ([]*models.Transaction, error)
	ListAssets(ctx context.Context) ([]*models.Asset, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// PortfolioService builds the computed portfolio view.
type PortfolioService interface {
	GetSummary(ctx context.Context, asOf time.Time) (*models.PortfolioSummary, error)
	// WarmPrices refreshes cached quotes for open holdings, returning how many resolved.
	WarmPrices(ctx context.Context) (int, error)
}
