// Package portfolio computes positions, cash flows and returns from a
// transaction ledger, and assembles the portfolio summary.
package portfolio

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/networth/internal/models"
)

// toDecimal converts a float, mapping non-finite values to zero.
// decimal.NewFromFloat panics on NaN and Inf.
func toDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// AggregatePosition folds a ledger into net quantity and cost basis.
//
// Cost basis follows a cash-ledger rule: a SELL removes qty × price × fxRate
// at the sell's own price, not at the running average. This is not FIFO lot
// accounting. Input order does not matter and unknown transaction types are
// ignored. AveragePrice is nil when the net quantity is zero or negative.
func AggregatePosition(txs []models.Transaction) models.Position {
	qty := decimal.Zero
	cost := decimal.Zero

	for _, t := range txs {
		q := toDecimal(t.Quantity)
		amount := q.Mul(toDecimal(t.Price)).Mul(toDecimal(t.FXRate))

		switch t.Type {
		case models.TransactionBuy:
			qty = qty.Add(q)
			cost = cost.Add(amount)
		case models.TransactionSell:
			qty = qty.Sub(q)
			cost = cost.Sub(amount)
		}
	}

	pos := models.Position{
		NetQuantity:    qty.InexactFloat64(),
		TotalCostBasis: cost.InexactFloat64(),
	}
	if qty.IsPositive() {
		avg := pos.TotalCostBasis / pos.NetQuantity
		pos.AveragePrice = &avg
	}
	return pos
}

// TotalInvested is the signed home-currency amount put into the ledger.
func TotalInvested(txs []models.Transaction) float64 {
	return AggregatePosition(txs).TotalCostBasis
}

// TotalValue sums quantity × price × fx over a set of positions.
func TotalValue(positions []models.ValuedPosition) float64 {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(toDecimal(p.Quantity).Mul(toDecimal(p.CurrentPrice)).Mul(toDecimal(p.FxRate)))
	}
	return total.InexactFloat64()
}
