package models

import "time"

// TaxBucket tags the regime a TaxInfo entry was computed under.
type TaxBucket string

const (
	TaxBucketSTCG   TaxBucket = "STCG"
	TaxBucketLTCG   TaxBucket = "LTCG"
	TaxBucketCrypto TaxBucket = "CRYPTO"
)

// TaxInfo is one bucket's exposure for a holding. Rate is in percent.
type TaxInfo struct {
	Bucket        TaxBucket `json:"bucket"`
	Rate          float64   `json:"rate"`
	Gain          float64   `json:"gain"`
	TaxableAmount float64   `json:"taxable_amount"`
	Harvestable   bool      `json:"harvestable"`
}

// EquityTaxRules parameterises the two-bucket capital gains regime.
// Rates are in percent; the exemption applies once per long-term bucket.
type EquityTaxRules struct {
	ShortTermRate      float64 `json:"short_term_rate" toml:"short_term_rate"`
	LongTermRate       float64 `json:"long_term_rate" toml:"long_term_rate"`
	LongTermExemption  float64 `json:"long_term_exemption" toml:"long_term_exemption"`
	HoldingPeriodYears int     `json:"holding_period_years" toml:"holding_period_years"`
}

// DefaultEquityTaxRules returns the Indian listed equity rules effective July 2024.
func DefaultEquityTaxRules() EquityTaxRules {
	return EquityTaxRules{
		ShortTermRate:      20,
		LongTermRate:       12.5,
		LongTermExemption:  125000,
		HoldingPeriodYears: 1,
	}
}

// FlatTaxRules parameterises a single-rate regime with no loss offset.
type FlatTaxRules struct {
	Rate   float64   `json:"rate" toml:"rate"`
	Bucket TaxBucket `json:"bucket" toml:"bucket"`
}

// DefaultFlatTaxRules returns the Indian virtual digital asset rules.
func DefaultFlatTaxRules() FlatTaxRules {
	return FlatTaxRules{Rate: 30, Bucket: TaxBucketCrypto}
}

// DefaultWashSaleWindowDays is the look-ahead window after a sell.
const DefaultWashSaleWindowDays = 30

// WashSaleResult lists the sell dates followed by a buy inside the window.
// The detector is structural: it does not check whether the sell realised a loss.
type WashSaleResult struct {
	IsWashSale    bool        `json:"is_wash_sale"`
	AffectedDates []time.Time `json:"affected_dates"`
}

// HarvestOpportunity is the estimated tax saved by realising a holding's loss.
type HarvestOpportunity struct {
	Loss    float64   `json:"loss"`
	Bucket  TaxBucket `json:"bucket"`
	Rate    float64   `json:"rate"`
	Savings float64   `json:"savings"`
}
