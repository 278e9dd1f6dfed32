package portfolio

import (
	"fmt"
	"math"

	"github.com/bobmcallan/networth/internal/models"
)

// AttributeForexReturn splits a home-currency return multiplicatively:
//
//	forexChange = currentFx/buyFx − 1
//	total       = ((1 + assetReturn/100) × (1 + forexChange) − 1) × 100
func AttributeForexReturn(buyFxRate, currentFxRate, assetReturnPct float64) (models.ForexAttribution, error) {
	if !(buyFxRate > 0) || math.IsInf(buyFxRate, 0) {
		return models.ForexAttribution{}, fmt.Errorf("%w: buy fx rate must be positive, got %v", models.ErrInvalidInput, buyFxRate)
	}
	if !(currentFxRate > 0) || math.IsInf(currentFxRate, 0) {
		return models.ForexAttribution{}, fmt.Errorf("%w: current fx rate must be positive, got %v", models.ErrInvalidInput, currentFxRate)
	}
	if math.IsNaN(assetReturnPct) || math.IsInf(assetReturnPct, 0) {
		return models.ForexAttribution{}, fmt.Errorf("%w: asset return must be finite", models.ErrInvalidInput)
	}

	forexChange := currentFxRate/buyFxRate - 1
	total := (1+assetReturnPct/100)*(1+forexChange) - 1

	return models.ForexAttribution{
		TotalReturn:       total * 100,
		AssetContribution: assetReturnPct,
		ForexContribution: forexChange * 100,
	}, nil
}

// WeightedBuyFxRate is the quantity-weighted FX rate across buy lots, or 0 with no buys.
func WeightedBuyFxRate(txs []models.Transaction) float64 {
	qty, weighted := 0.0, 0.0
	for _, t := range txs {
		if t.Type != models.TransactionBuy {
			continue
		}
		qty += t.Quantity
		weighted += t.Quantity * t.FXRate
	}
	if qty == 0 {
		return 0
	}
	return weighted / qty
}
