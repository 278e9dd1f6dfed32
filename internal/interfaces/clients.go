package interfaces

import (
	"context"

	"github.com/bobmcallan/networth/internal/models"
)

// YahooClient fetches listed equity, crypto and FX quotes.
type YahooClient interface {
	GetQuote(ctx context.Context, symbol string) (*models.PriceData, error)
	Search(ctx context.Context, query string, limit int) ([]models.TickerMatch, error)
	Lookup(ctx context.Context, symbol string) (*models.TickerMatch, error)
}

// MFAPIClient fetches Indian mutual fund NAVs by scheme code.
type MFAPIClient interface {
	GetNAV(ctx context.Context, schemeCode string) (*models.PriceData, error)
	GetScheme(ctx context.Context, schemeCode string) (*models.TickerMatch, error)
	SearchSchemes(ctx context.Context, query string, limit int) ([]models.TickerMatch, error)
}

// PriceCache is a short-lived quote cache keyed by provider, market and ticker.
type PriceCache interface {
	Get(ctx context.Context, key string) (*models.PriceData, bool)
	Set(ctx context.Context, key string, price *models.PriceData)
}
