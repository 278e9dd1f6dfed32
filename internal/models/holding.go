package models

import "time"

// HoldingData is one asset's ledger plus the caller-resolved valuation snapshot.
// CurrentPrice is in the asset's native currency; CurrentFxRate converts it to home currency.
type HoldingData struct {
	Transactions  []Transaction `json:"transactions"`
	CurrentPrice  float64       `json:"current_price"`
	CurrentFxRate float64       `json:"current_fx_rate"`
	AsOf          time.Time     `json:"as_of"`
}

// CashFlow is a signed home-currency amount on a date. Outflows are negative.
type CashFlow struct {
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}
