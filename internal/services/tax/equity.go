// Package tax computes capital gains exposure, harvestable losses and
// wash-sale flags for a single holding's ledger.
package tax

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/networth/internal/models"
)

func toDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func resolveAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return time.Now()
	}
	return asOf
}

// lotGain is (currentPrice − price × fxRate) × quantity for one buy lot.
func lotGain(t models.Transaction, currentPrice float64) decimal.Decimal {
	cost := toDecimal(t.Price).Mul(toDecimal(t.FXRate))
	return toDecimal(currentPrice).Sub(cost).Mul(toDecimal(t.Quantity))
}

// ShortTermCutoff is the instant after which a lot is short-term.
func ShortTermCutoff(rules models.EquityTaxRules, asOf time.Time) time.Time {
	years := rules.HoldingPeriodYears
	if years <= 0 {
		years = 1
	}
	return resolveAsOf(asOf).AddDate(-years, 0, 0)
}

// IsShortTerm reports whether a lot bought on date is inside the holding period.
func IsShortTerm(date time.Time, rules models.EquityTaxRules, asOf time.Time) bool {
	return date.After(ShortTermCutoff(rules, asOf))
}

// ComputeEquityTax buckets every BUY lot as short-term (bought after
// asOf − holding period) or long-term, and sums unrealised gain per bucket
// at currentPrice (home currency). All lots are treated as still held.
//
// Short-term taxable = max(0, gain) × shortRate.
// Long-term taxable = max(0, gain − exemption) × longRate, with the exemption
// applied once for this holding only.
// A bucket is harvestable when its gain is negative. Buckets with zero gain
// are omitted, so the result may be empty.
func ComputeEquityTax(txs []models.Transaction, currentPrice float64, rules models.EquityTaxRules, asOf time.Time) []models.TaxInfo {
	cutoff := ShortTermCutoff(rules, asOf)

	shortGain, longGain := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.Type != models.TransactionBuy {
			continue
		}
		if t.Date.After(cutoff) {
			shortGain = shortGain.Add(lotGain(t, currentPrice))
		} else {
			longGain = longGain.Add(lotGain(t, currentPrice))
		}
	}

	result := make([]models.TaxInfo, 0, 2)

	if !shortGain.IsZero() {
		rate := toDecimal(rules.ShortTermRate)
		taxable := decimal.Max(decimal.Zero, shortGain).Mul(rate).Div(decimal.NewFromInt(100))
		result = append(result, models.TaxInfo{
			Bucket:        models.TaxBucketSTCG,
			Rate:          rules.ShortTermRate,
			Gain:          shortGain.InexactFloat64(),
			TaxableAmount: taxable.InexactFloat64(),
			Harvestable:   shortGain.IsNegative(),
		})
	}

	if !longGain.IsZero() {
		rate := toDecimal(rules.LongTermRate)
		excess := longGain.Sub(toDecimal(rules.LongTermExemption))
		taxable := decimal.Max(decimal.Zero, excess).Mul(rate).Div(decimal.NewFromInt(100))
		result = append(result, models.TaxInfo{
			Bucket:        models.TaxBucketLTCG,
			Rate:          rules.LongTermRate,
			Gain:          longGain.InexactFloat64(),
			TaxableAmount: taxable.InexactFloat64(),
			Harvestable:   longGain.IsNegative(),
		})
	}

	return result
}
