// Package models defines data structures for networth
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidInput marks malformed caller data (bad quantity, price, fx rate or date).
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// TransactionType is the direction of a trade.
type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// Transaction is a single immutable ledger entry. Quantity and Price are
// always positive; direction is carried by Type. Price is in the asset's
// native currency and FXRate converts it to home currency at trade time.
type Transaction struct {
	ID        string          `json:"id,omitempty"`
	AssetID   string          `json:"asset_id,omitempty"`
	Type      TransactionType `json:"type"`
	Quantity  float64         `json:"quantity"`
	Price     float64         `json:"price"`
	Date      time.Time       `json:"date"`
	FXRate    float64         `json:"fx_rate"`
	Currency  string          `json:"currency,omitempty"`
	IsSIP     bool            `json:"is_sip"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// IsBuy reports whether the transaction adds to the position.
func (t Transaction) IsBuy() bool {
	return t.Type == TransactionBuy
}

// HomeAmount is qty × price × fxRate, unsigned.
func (t Transaction) HomeAmount() float64 {
	return t.Quantity * t.Price * t.FXRate
}

// Validate checks the transaction against the ledger rules.
func (t Transaction) Validate() error {
	switch t.Type {
	case TransactionBuy, TransactionSell:
	default:
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, t.Type)
	}
	if !(t.Quantity > 0) || math.IsInf(t.Quantity, 0) {
		return fmt.Errorf("%w: quantity must be positive, got %v", ErrInvalidInput, t.Quantity)
	}
	if !(t.Price > 0) || math.IsInf(t.Price, 0) {
		return fmt.Errorf("%w: price must be positive, got %v", ErrInvalidInput, t.Price)
	}
	if !(t.FXRate > 0) || math.IsInf(t.FXRate, 0) {
		return fmt.Errorf("%w: fx rate must be positive, got %v", ErrInvalidInput, t.FXRate)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction date is required", ErrInvalidInput)
	}
	return nil
}

// ValidateTransactions validates every entry, reporting the first failure with its index.
func ValidateTransactions(txs []Transaction) error {
	for i, t := range txs {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}

// ParseDate accepts RFC3339 timestamps or plain YYYY-MM-DD calendar dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unparsable date %q", ErrInvalidInput, s)
	}
	return t, nil
}

// NewTransaction is a request to record a trade, creating the asset on first use.
type NewTransaction struct {
	Ticker    string          `json:"ticker"`
	Name      string          `json:"name,omitempty"`
	AssetType AssetType       `json:"asset_type,omitempty"`
	Market    Market          `json:"market,omitempty"`
	Provider  Provider        `json:"provider,omitempty"`
	Type      TransactionType `json:"type"`
	Quantity  float64         `json:"quantity"`
	Price     float64         `json:"price"`
	Date      string          `json:"date"`
	FXRate    float64         `json:"fx_rate,omitempty"`
	Currency  string          `json:"currency,omitempty"`
	IsSIP     bool            `json:"is_sip"`
}

// Asset returns the normalised asset the request refers to.
func (r NewTransaction) Asset() Asset {
	a := Asset{
		Ticker:    r.Ticker,
		Name:      r.Name,
		AssetType: r.AssetType,
		Market:    r.Market,
		Provider:  r.Provider,
	}
	a.Normalize()
	return a
}

// Transaction builds the ledger entry, applying the fx rate (1) and
// currency (INR) defaults. The result is validated.
func (r NewTransaction) Transaction() (Transaction, error) {
	if r.Ticker == "" {
		return Transaction{}, fmt.Errorf("%w: ticker is required", ErrInvalidInput)
	}
	if r.Date == "" {
		return Transaction{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return Transaction{}, err
	}

	t := Transaction{
		Type:     TransactionType(strings.ToUpper(string(r.Type))),
		Quantity: r.Quantity,
		Price:    r.Price,
		Date:     date,
		FXRate:   r.FXRate,
		Currency: strings.ToUpper(r.Currency),
		IsSIP:    r.IsSIP,
	}
	if t.FXRate == 0 {
		t.FXRate = 1
	}
	if t.Currency == "" {
		t.Currency = "INR"
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}
