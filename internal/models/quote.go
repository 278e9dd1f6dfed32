package models

import "time"

// PriceData is a resolved quote in the quote's own currency.
type PriceData struct {
	Ticker        string    `json:"ticker"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Change        *float64  `json:"change,omitempty"`
	ChangePercent *float64  `json:"change_percent,omitempty"`
	PreviousClose *float64  `json:"previous_close,omitempty"`
	Provider      Provider  `json:"provider,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// AssetRef is the minimum needed to look up a price.
type AssetRef struct {
	Ticker   string   `json:"ticker"`
	Provider Provider `json:"provider"`
	Market   Market   `json:"market"`
}

// USDINRSymbol is the Yahoo symbol for the rupee rate.
const USDINRSymbol = "USDINR=X"

// DefaultUSDINRRate is used when no live rate can be fetched.
const DefaultUSDINRRate = 83.5
