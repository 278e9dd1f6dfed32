package tax

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/networth/internal/models"
)

var asOf = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return asOf.AddDate(0, 0, -n)
}

func lot(kind models.TransactionType, qty, price float64, date time.Time) models.Transaction {
	return models.Transaction{Type: kind, Quantity: qty, Price: price, FXRate: 1, Date: date}
}

func TestComputeEquityTax_LongTermAboveExemption(t *testing.T) {
	// gain = (3000 − 1000) × 100 = 200,000
	txs := []models.Transaction{lot(models.TransactionBuy, 100, 1000, daysAgo(400))}

	got := ComputeEquityTax(txs, 3000, models.DefaultEquityTaxRules(), asOf)

	require.Len(t, got, 1)
	assert.Equal(t, models.TaxBucketLTCG, got[0].Bucket)
	assert.Equal(t, 12.5, got[0].Rate)
	assert.InDelta(t, 200000, got[0].Gain, 1e-9)
	assert.InDelta(t, 9375, got[0].TaxableAmount, 1e-9)
	assert.False(t, got[0].Harvestable)
}

func TestComputeEquityTax_LongTermBelowExemption(t *testing.T) {
	txs := []models.Transaction{lot(models.TransactionBuy, 100, 1000, daysAgo(500))}

	got := ComputeEquityTax(txs, 2000, models.DefaultEquityTaxRules(), asOf)

	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].TaxableAmount)
	assert.False(t, got[0].Harvestable)
}

func TestComputeEquityTax_ShortTerm(t *testing.T) {
	txs := []models.Transaction{lot(models.TransactionBuy, 10, 100, daysAgo(30))}

	got := ComputeEquityTax(txs, 150, models.DefaultEquityTaxRules(), asOf)

	require.Len(t, got, 1)
	assert.Equal(t, models.TaxBucketSTCG, got[0].Bucket)
	assert.InDelta(t, 100, got[0].TaxableAmount, 1e-9) // 500 × 20%
}

func TestComputeEquityTax_BothBucketsAndHarvestable(t *testing.T) {
	txs := []models.Transaction{
		lot(models.TransactionBuy, 10, 200, daysAgo(10)),  // short: (150−200)×10 = −500
		lot(models.TransactionBuy, 10, 100, daysAgo(800)), // long: (150−100)×10 = 500
		lot(models.TransactionSell, 5, 170, daysAgo(5)),   // sells are not lots
	}

	got := ComputeEquityTax(txs, 150, models.DefaultEquityTaxRules(), asOf)

	require.Len(t, got, 2)
	assert.Equal(t, models.TaxBucketSTCG, got[0].Bucket)
	assert.True(t, got[0].Harvestable)
	assert.Equal(t, 0.0, got[0].TaxableAmount)
	assert.Equal(t, models.TaxBucketLTCG, got[1].Bucket)
	assert.False(t, got[1].Harvestable)
}

func TestComputeEquityTax_BoundaryIsLongTerm(t *testing.T) {
	// bought exactly one year before asOf: not after the cutoff
	txs := []models.Transaction{lot(models.TransactionBuy, 1, 100, asOf.AddDate(-1, 0, 0))}

	got := ComputeEquityTax(txs, 110, models.DefaultEquityTaxRules(), asOf)

	require.Len(t, got, 1)
	assert.Equal(t, models.TaxBucketLTCG, got[0].Bucket)
}

func TestComputeEquityTax_ZeroGainOmitted(t *testing.T) {
	txs := []models.Transaction{lot(models.TransactionBuy, 10, 100, daysAgo(10))}

	got := ComputeEquityTax(txs, 100, models.DefaultEquityTaxRules(), asOf)

	assert.Empty(t, got)
}

func TestComputeEquityTax_UsesLotFxRate(t *testing.T) {
	txs := []models.Transaction{
		{Type: models.TransactionBuy, Quantity: 2, Price: 100, FXRate: 80, Date: daysAgo(20)},
	}

	// current price is already in home currency
	got := ComputeEquityTax(txs, 9000, models.DefaultEquityTaxRules(), asOf)

	require.Len(t, got, 1)
	assert.InDelta(t, 2000, got[0].Gain, 1e-9)
}

func TestComputeEquityTax_Deterministic(t *testing.T) {
	txs := []models.Transaction{
		lot(models.TransactionBuy, 3.3, 101.1, daysAgo(100)),
		lot(models.TransactionBuy, 7.7, 87.9, daysAgo(900)),
	}
	a := ComputeEquityTax(txs, 123.45, models.DefaultEquityTaxRules(), asOf)
	b := ComputeEquityTax(txs, 123.45, models.DefaultEquityTaxRules(), asOf)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, math.Float64bits(a[i].TaxableAmount), math.Float64bits(b[i].TaxableAmount))
	}
}

func TestComputeFlatTax_LossNeverHarvestable(t *testing.T) {
	txs := []models.Transaction{lot(models.TransactionBuy, 1, 1500, daysAgo(10))}

	got := ComputeFlatTax(txs, 1000, models.DefaultFlatTaxRules())

	assert.Equal(t, models.TaxBucketCrypto, got.Bucket)
	assert.InDelta(t, -500, got.Gain, 1e-9)
	assert.Equal(t, 0.0, got.TaxableAmount)
	assert.False(t, got.Harvestable)
}

func TestComputeFlatTax_Gain(t *testing.T) {
	txs := []models.Transaction{
		lot(models.TransactionBuy, 2, 1000, daysAgo(10)),
		lot(models.TransactionBuy, 1, 1000, daysAgo(1000)),
	}

	got := ComputeFlatTax(txs, 1500, models.FlatTaxRules{Rate: 30})

	assert.Equal(t, models.TaxBucketCrypto, got.Bucket)
	assert.InDelta(t, 450, got.TaxableAmount, 1e-9) // 1500 × 30%
	assert.False(t, got.Harvestable)
}

func TestDetectWashSale_BuyInsideWindow(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day10 := base.AddDate(0, 0, 10)
	txs := []models.Transaction{
		lot(models.TransactionBuy, 1, 100, base.AddDate(0, 0, 25)),
		lot(models.TransactionSell, 1, 90, day10),
		lot(models.TransactionBuy, 1, 110, base),
	}

	got := DetectWashSale(txs, 30)

	assert.True(t, got.IsWashSale)
	require.Len(t, got.AffectedDates, 1)
	assert.True(t, got.AffectedDates[0].Equal(day10))
}

func TestDetectWashSale_BuyOutsideWindow(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		lot(models.TransactionSell, 1, 90, base.AddDate(0, 0, 10)),
		lot(models.TransactionBuy, 1, 100, base.AddDate(0, 0, 40)),
	}

	got := DetectWashSale(txs, 30)

	assert.False(t, got.IsWashSale)
	assert.Empty(t, got.AffectedDates)
	assert.NotNil(t, got.AffectedDates)
}

func TestDetectWashSale_DefaultWindowAndMultipleSells(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		lot(models.TransactionSell, 1, 90, base),
		lot(models.TransactionSell, 1, 90, base.AddDate(0, 0, 5)),
		lot(models.TransactionBuy, 1, 100, base.AddDate(0, 0, 20)),
		lot(models.TransactionSell, 1, 90, base.AddDate(0, 0, 100)),
	}

	got := DetectWashSale(txs, 0)

	require.Len(t, got.AffectedDates, 2)
	assert.True(t, got.AffectedDates[0].Equal(base))
	assert.True(t, got.AffectedDates[1].Equal(base.AddDate(0, 0, 5)))
}

func TestFindHarvestOpportunity(t *testing.T) {
	rules := models.DefaultEquityTaxRules()
	inStock := models.Asset{Ticker: "INFY", AssetType: models.AssetStock, Market: models.MarketIN}

	tests := []struct {
		name       string
		asset      models.Asset
		txs        []models.Transaction
		pnl        float64
		wantNil    bool
		wantBucket models.TaxBucket
		wantSaving float64
	}{
		{
			name:       "short term loss",
			asset:      inStock,
			txs:        []models.Transaction{lot(models.TransactionBuy, 1, 100, daysAgo(20))},
			pnl:        -1000,
			wantBucket: models.TaxBucketSTCG,
			wantSaving: 200,
		},
		{
			name:       "long term loss",
			asset:      inStock,
			txs:        []models.Transaction{lot(models.TransactionBuy, 1, 100, daysAgo(700))},
			pnl:        -1000,
			wantBucket: models.TaxBucketLTCG,
			wantSaving: 125,
		},
		{
			name:    "gain is not harvestable",
			asset:   inStock,
			txs:     []models.Transaction{lot(models.TransactionBuy, 1, 100, daysAgo(20))},
			pnl:     500,
			wantNil: true,
		},
		{
			name:    "us stock not eligible",
			asset:   models.Asset{Ticker: "AAPL", AssetType: models.AssetStock, Market: models.MarketUS},
			txs:     []models.Transaction{lot(models.TransactionBuy, 1, 100, daysAgo(20))},
			pnl:     -500,
			wantNil: true,
		},
		{
			name:    "crypto not eligible",
			asset:   models.Asset{Ticker: "BTC-USD", AssetType: models.AssetCrypto, Market: models.MarketCrypto},
			txs:     []models.Transaction{lot(models.TransactionBuy, 1, 100, daysAgo(20))},
			pnl:     -500,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindHarvestOpportunity(tt.asset, tt.txs, tt.pnl, rules, asOf)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantBucket, got.Bucket)
			assert.InDelta(t, tt.wantSaving, got.Savings, 1e-9)
		})
	}
}
