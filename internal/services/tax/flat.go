package tax

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/networth/internal/models"
)

// ComputeFlatTax applies a single rate to the total unrealised gain over all
// BUY lots. Losses never offset anything under this regime, so the entry is
// never harvestable.
func ComputeFlatTax(txs []models.Transaction, currentPrice float64, rules models.FlatTaxRules) models.TaxInfo {
	bucket := rules.Bucket
	if bucket == "" {
		bucket = models.TaxBucketCrypto
	}

	gain := decimal.Zero
	for _, t := range txs {
		if t.Type == models.TransactionBuy {
			gain = gain.Add(lotGain(t, currentPrice))
		}
	}

	taxable := decimal.Max(decimal.Zero, gain).Mul(toDecimal(rules.Rate)).Div(decimal.NewFromInt(100))

	return models.TaxInfo{
		Bucket:        bucket,
		Rate:          rules.Rate,
		Gain:          gain.InexactFloat64(),
		TaxableAmount: taxable.InexactFloat64(),
		Harvestable:   false,
	}
}
