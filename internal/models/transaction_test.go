package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{Type: TransactionBuy, Quantity: 1, Price: 10, FXRate: 1, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"zero quantity", func(tx *Transaction) { tx.Quantity = 0 }},
		{"negative quantity", func(tx *Transaction) { tx.Quantity = -1 }},
		{"NaN price", func(tx *Transaction) { tx.Price = math.NaN() }},
		{"zero price", func(tx *Transaction) { tx.Price = 0 }},
		{"infinite fx", func(tx *Transaction) { tx.FXRate = math.Inf(1) }},
		{"missing date", func(tx *Transaction) { tx.Date = time.Time{} }},
		{"unknown type", func(tx *Transaction) { tx.Type = "HOLD" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestValidateTransactions_ReportsIndex(t *testing.T) {
	txs := []Transaction{
		{Type: TransactionBuy, Quantity: 1, Price: 10, FXRate: 1, Date: time.Now()},
		{Type: TransactionSell, Quantity: 0, Price: 10, FXRate: 1, Date: time.Now()},
	}
	err := ValidateTransactions(txs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "transaction 1")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2024-02-29T10:00:00+05:30")
	require.NoError(t, err)

	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewTransaction_Defaults(t *testing.T) {
	req := NewTransaction{Ticker: "INFY", Type: "buy", Quantity: 5, Price: 1500, Date: "2024-06-01"}

	tx, err := req.Transaction()
	require.NoError(t, err)
	assert.Equal(t, TransactionBuy, tx.Type)
	assert.Equal(t, 1.0, tx.FXRate)
	assert.Equal(t, "INR", tx.Currency)
	assert.False(t, tx.IsSIP)

	asset := req.Asset()
	assert.Equal(t, AssetStock, asset.AssetType)
	assert.Equal(t, MarketIN, asset.Market)
	assert.Equal(t, ProviderYahoo, asset.Provider)
	assert.Equal(t, "INFY", asset.Name)
}

func TestNewTransaction_MutualFundUsesMFAPI(t *testing.T) {
	req := NewTransaction{Ticker: "120503", AssetType: AssetMutualFund, Type: TransactionBuy, Quantity: 10, Price: 50, Date: "2024-06-01", IsSIP: true}
	asset := req.Asset()
	assert.Equal(t, ProviderMFAPI, asset.Provider)
	require.NoError(t, asset.Validate())
}

func TestNewTransaction_Rejects(t *testing.T) {
	cases := []NewTransaction{
		{Type: TransactionBuy, Quantity: 1, Price: 1, Date: "2024-01-01"},
		{Ticker: "X", Type: TransactionBuy, Quantity: 1, Price: 1},
		{Ticker: "X", Type: TransactionBuy, Quantity: 1, Price: 1, Date: "yesterday"},
		{Ticker: "X", Type: TransactionSell, Quantity: -2, Price: 1, Date: "2024-01-01"},
	}
	for i, c := range cases {
		_, err := c.Transaction()
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}
}

func TestAssetValidate(t *testing.T) {
	a := Asset{Ticker: "BTC-USD", AssetType: AssetCrypto, Market: MarketCrypto}
	a.Normalize()
	require.NoError(t, a.Validate())
	assert.True(t, a.IsForeign())

	bad := Asset{Ticker: "X", AssetType: "BOND", Market: MarketIN, Provider: ProviderYahoo}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)
}

func TestReturnResultDisplay(t *testing.T) {
	r := ReturnResult{XIRR: XIRRResult{Status: XIRRStatusNonConvergence}, AbsoluteReturnPct: 12}
	assert.Equal(t, 12.0, r.Display())
	r.XIRR = XIRRResult{Status: XIRRStatusOK, Percent: 9}
	assert.Equal(t, 9.0, r.Display())
}

func TestTickerQueryNormalize(t *testing.T) {
	q := TickerQuery{Query: "  infy "}
	q.Normalize()
	assert.Equal(t, "infy", q.Query)
	assert.Equal(t, AssetStock, q.AssetType)
	assert.Equal(t, MarketIN, q.Market)
	assert.Equal(t, SearchModeSearch, q.Mode)
	require.NoError(t, q.Validate())
	assert.True(t, q.Searchable())

	q = TickerQuery{Query: "gold", AssetType: "sgb", Mode: "LOOKUP"}
	q.Normalize()
	assert.Equal(t, SearchModeLookup, q.Mode)
	assert.False(t, q.Searchable())

	bad := TickerQuery{Query: "x", Mode: "browse"}
	bad.Normalize()
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidInput))
}
