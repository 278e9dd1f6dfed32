package portfolio

import (
	"github.com/bobmcallan/networth/internal/models"
)

// ComputeXIRR returns the holding's annualised return in percent.
// A closed, empty or oversold position is not applicable; solver failure
// (no sign change, no root found) is reported as non-convergence.
func ComputeXIRR(h models.HoldingData) models.XIRRResult {
	pos := AggregatePosition(h.Transactions)
	if !(pos.NetQuantity > 0) {
		return models.XIRRResult{Status: models.XIRRStatusNotApplicable}
	}

	rate, err := SolveXIRR(BuildCashFlows(h))
	if err != nil {
		return models.XIRRResult{Status: models.XIRRStatusNonConvergence}
	}
	return models.XIRRResult{Status: models.XIRRStatusOK, Percent: rate * 100}
}

// AbsoluteReturn is ((currentValue − invested) / invested) × 100 with a
// signed invested total. Returns 0 when nothing is invested.
func AbsoluteReturn(h models.HoldingData) float64 {
	invested := TotalInvested(h.Transactions)
	if invested == 0 {
		return 0
	}
	return (CurrentValue(h) - invested) / invested * 100
}

// ComputeReturn evaluates both XIRR and the absolute-return fallback.
// Callers should prefer XIRR when it is ok; ReturnResult.Display does that.
func ComputeReturn(h models.HoldingData) models.ReturnResult {
	h.AsOf = resolveAsOf(h.AsOf)
	return models.ReturnResult{
		XIRR:              ComputeXIRR(h),
		AbsoluteReturnPct: AbsoluteReturn(h),
	}
}
