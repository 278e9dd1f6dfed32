package portfolio

import (
	"time"

	"github.com/bobmcallan/networth/internal/models"
)

// resolveAsOf returns asOf, or the wall clock when asOf is zero.
func resolveAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return time.Now()
	}
	return asOf
}

// fxOrOne treats a missing valuation FX rate as a home-currency asset.
func fxOrOne(fx float64) float64 {
	if fx > 0 {
		return fx
	}
	return 1
}

// BuildCashFlows derives the signed cash-flow sequence for a holding.
// Buys are outflows, sells are inflows, and when the net quantity is
// positive a terminal inflow of the current market value is dated AsOf.
// Flows are returned in ledger order followed by the terminal flow.
func BuildCashFlows(h models.HoldingData) []models.CashFlow {
	flows := make([]models.CashFlow, 0, len(h.Transactions)+1)

	for _, t := range h.Transactions {
		switch t.Type {
		case models.TransactionBuy:
			flows = append(flows, models.CashFlow{Amount: -t.HomeAmount(), Date: t.Date})
		case models.TransactionSell:
			flows = append(flows, models.CashFlow{Amount: t.HomeAmount(), Date: t.Date})
		}
	}

	pos := AggregatePosition(h.Transactions)
	if pos.NetQuantity > 0 {
		flows = append(flows, models.CashFlow{
			Amount: pos.NetQuantity * h.CurrentPrice * fxOrOne(h.CurrentFxRate),
			Date:   resolveAsOf(h.AsOf),
		})
	}

	return flows
}

// CurrentValue is netQuantity × currentPrice × currentFxRate.
func CurrentValue(h models.HoldingData) float64 {
	pos := AggregatePosition(h.Transactions)
	return pos.NetQuantity * h.CurrentPrice * fxOrOne(h.CurrentFxRate)
}
