package tax

import (
	"sort"
	"time"

	"github.com/bobmcallan/networth/internal/models"
)

// DetectWashSale flags every SELL followed by a BUY less than windowDays
// later. windowDays <= 0 uses the 30 day default.
//
// The check is structural only: it does not know whether the sell realised
// a loss. Callers wanting strict wash-sale treatment should pass only
// loss-making sells.
func DetectWashSale(txs []models.Transaction, windowDays int) models.WashSaleResult {
	if windowDays <= 0 {
		windowDays = models.DefaultWashSaleWindowDays
	}

	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	affected := []time.Time{}
	for i, sell := range sorted {
		if sell.Type != models.TransactionSell {
			continue
		}
		windowEnd := sell.Date.AddDate(0, 0, windowDays)
		for _, next := range sorted[i+1:] {
			if !next.Date.Before(windowEnd) {
				break
			}
			if next.Type == models.TransactionBuy {
				affected = append(affected, sell.Date)
				break
			}
		}
	}

	return models.WashSaleResult{
		IsWashSale:    len(affected) > 0,
		AffectedDates: affected,
	}
}
