package models

import (
	"fmt"
	"strings"
	"time"
)

// AssetType classifies an asset for tax regime and allocation purposes.
type AssetType string

const (
	AssetStock      AssetType = "STOCK"
	AssetMutualFund AssetType = "MUTUAL_FUND"
	AssetCrypto     AssetType = "CRYPTO"
	AssetSGB        AssetType = "SGB"
	AssetCash       AssetType = "CASH"
)

// Market is the listing venue of an asset.
type Market string

const (
	MarketIN     Market = "IN"
	MarketUS     Market = "US"
	MarketCrypto Market = "CRYPTO"
)

// Provider is the price source for an asset.
type Provider string

const (
	ProviderYahoo Provider = "YAHOO"
	ProviderMFAPI Provider = "MFAPI"
)

// Asset identifies one holding's instrument.
type Asset struct {
	ID        string    `json:"id"`
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name"`
	AssetType AssetType `json:"asset_type"`
	Market    Market    `json:"market"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// DefaultProvider picks the price source: mfapi for Indian mutual funds, Yahoo otherwise.
func DefaultProvider(assetType AssetType, market Market) Provider {
	if assetType == AssetMutualFund && market == MarketIN {
		return ProviderMFAPI
	}
	return ProviderYahoo
}

// Normalize fills defaults (STOCK, IN, derived provider) and upper-cases enums.
func (a *Asset) Normalize() {
	a.Ticker = strings.TrimSpace(a.Ticker)
	a.AssetType = AssetType(strings.ToUpper(string(a.AssetType)))
	a.Market = Market(strings.ToUpper(string(a.Market)))
	a.Provider = Provider(strings.ToUpper(string(a.Provider)))
	if a.AssetType == "" {
		a.AssetType = AssetStock
	}
	if a.Market == "" {
		a.Market = MarketIN
	}
	if a.Provider == "" {
		a.Provider = DefaultProvider(a.AssetType, a.Market)
	}
	if a.Name == "" {
		a.Name = a.Ticker
	}
}

// Validate checks enum membership and the ticker.
func (a Asset) Validate() error {
	if a.Ticker == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidInput)
	}
	switch a.AssetType {
	case AssetStock, AssetMutualFund, AssetCrypto, AssetSGB, AssetCash:
	default:
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidInput, a.AssetType)
	}
	switch a.Market {
	case MarketIN, MarketUS, MarketCrypto:
	default:
		return fmt.Errorf("%w: unknown market %q", ErrInvalidInput, a.Market)
	}
	switch a.Provider {
	case ProviderYahoo, ProviderMFAPI:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, a.Provider)
	}
	return nil
}

// IsForeign reports whether the asset is priced in USD.
func (a Asset) IsForeign() bool {
	return a.Market == MarketUS || a.Market == MarketCrypto
}
