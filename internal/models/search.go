package models

import (
	"fmt"
	"strings"
)

// SearchMode selects free-text search or single-ticker lookup.
type SearchMode string

const (
	SearchModeSearch SearchMode = "search"
	SearchModeLookup SearchMode = "lookup"
)

// TickerMatch is one instrument returned by a symbol search or lookup.
type TickerMatch struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Exchange string `json:"exchange,omitempty"`
}

// TickerQuery describes a search or lookup request.
type TickerQuery struct {
	Query     string     `json:"q"`
	AssetType AssetType  `json:"asset_type"`
	Market    Market     `json:"market"`
	Mode      SearchMode `json:"mode"`
}

// Normalize trims the query and fills defaults (STOCK, IN, search).
func (q *TickerQuery) Normalize() {
	q.Query = strings.TrimSpace(q.Query)
	q.AssetType = AssetType(strings.ToUpper(strings.TrimSpace(string(q.AssetType))))
	q.Market = Market(strings.ToUpper(strings.TrimSpace(string(q.Market))))
	q.Mode = SearchMode(strings.ToLower(strings.TrimSpace(string(q.Mode))))
	if q.AssetType == "" {
		q.AssetType = AssetStock
	}
	if q.Market == "" {
		q.Market = MarketIN
	}
	if q.Mode == "" {
		q.Mode = SearchModeSearch
	}
}

// Validate checks the enums. An empty query is valid and matches nothing.
func (q TickerQuery) Validate() error {
	switch q.AssetType {
	case AssetStock, AssetMutualFund, AssetCrypto, AssetSGB, AssetCash:
	default:
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidInput, q.AssetType)
	}
	switch q.Market {
	case MarketIN, MarketUS, MarketCrypto:
	default:
		return fmt.Errorf("%w: unknown market %q", ErrInvalidInput, q.Market)
	}
	switch q.Mode {
	case SearchModeSearch, SearchModeLookup:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, q.Mode)
	}
	return nil
}

// Searchable reports whether the asset type has an external symbol source.
// SGB and cash holdings are entered by hand.
func (q TickerQuery) Searchable() bool {
	return q.AssetType != AssetSGB && q.AssetType != AssetCash
}
