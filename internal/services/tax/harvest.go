package tax

import (
	"math"
	"time"

	"github.com/bobmcallan/networth/internal/models"
)

// HarvestEligible reports whether losses on the asset can be harvested
// against equity gains: Indian listed stocks and mutual funds only.
func HarvestEligible(asset models.Asset) bool {
	if asset.Market != models.MarketIN {
		return false
	}
	return asset.AssetType == models.AssetStock || asset.AssetType == models.AssetMutualFund
}

// FindHarvestOpportunity estimates the tax saved by booking an unrealised
// loss. If any buy lot is short-term the loss is valued at the short-term
// rate, otherwise at the long-term rate. Returns nil when the asset is not
// eligible, there is no loss, or there are no buy lots.
func FindHarvestOpportunity(asset models.Asset, txs []models.Transaction, profitLoss float64, rules models.EquityTaxRules, asOf time.Time) *models.HarvestOpportunity {
	if !HarvestEligible(asset) || !(profitLoss < 0) {
		return nil
	}

	cutoff := ShortTermCutoff(rules, asOf)
	hasBuy, hasShort := false, false
	for _, t := range txs {
		if t.Type != models.TransactionBuy {
			continue
		}
		hasBuy = true
		if t.Date.After(cutoff) {
			hasShort = true
			break
		}
	}
	if !hasBuy {
		return nil
	}

	loss := math.Abs(profitLoss)
	opp := &models.HarvestOpportunity{Loss: loss, Bucket: models.TaxBucketLTCG, Rate: rules.LongTermRate}
	if hasShort {
		opp.Bucket = models.TaxBucketSTCG
		opp.Rate = rules.ShortTermRate
	}
	opp.Savings = loss * opp.Rate / 100
	return opp
}
