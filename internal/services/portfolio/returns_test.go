package portfolio

import (
	"math"
	"testing"

	"github.com/bobmcallan/networth/internal/models"
)

func TestAbsoluteReturn_FiftyPercent(t *testing.T) {
	h := models.HoldingData{
		Transactions:  []models.Transaction{buy(10, 100, day(2024, 1, 1))},
		CurrentPrice:  150,
		CurrentFxRate: 1,
		AsOf:          day(2025, 1, 1),
	}
	if got := AbsoluteReturn(h); !approxEqual(got, 50, 1e-9) {
		t.Errorf("AbsoluteReturn = %v, want 50", got)
	}
}

func TestAbsoluteReturn_ZeroInvested(t *testing.T) {
	h := models.HoldingData{CurrentPrice: 150, CurrentFxRate: 1}
	if got := AbsoluteReturn(h); got != 0 {
		t.Errorf("AbsoluteReturn = %v, want 0", got)
	}
}

func TestComputeReturn_OpenPosition(t *testing.T) {
	h := models.HoldingData{
		Transactions:  []models.Transaction{buy(10, 100, day(2023, 1, 1))},
		CurrentPrice:  110,
		CurrentFxRate: 1,
		AsOf:          day(2023, 1, 1).AddDate(0, 0, 365),
	}
	r := ComputeReturn(h)
	if !r.XIRR.OK() {
		t.Fatalf("XIRR status = %s, want ok", r.XIRR.Status)
	}
	if !approxEqual(r.XIRR.Percent, 10, 0.1) {
		t.Errorf("XIRR = %v, want ~10", r.XIRR.Percent)
	}
	if !approxEqual(r.AbsoluteReturnPct, 10, 1e-9) {
		t.Errorf("AbsoluteReturnPct = %v, want 10", r.AbsoluteReturnPct)
	}
	if r.Display() != r.XIRR.Percent {
		t.Error("Display should prefer XIRR when solved")
	}
}

func TestComputeReturn_ClosedPositionNotApplicable(t *testing.T) {
	h := models.HoldingData{
		Transactions: []models.Transaction{
			buy(10, 100, day(2024, 1, 1)),
			sell(10, 120, day(2024, 6, 1)),
		},
		CurrentPrice:  130,
		CurrentFxRate: 1,
		AsOf:          day(2025, 1, 1),
	}
	r := ComputeReturn(h)
	if r.XIRR.Status != models.XIRRStatusNotApplicable {
		t.Errorf("XIRR status = %s, want not_applicable", r.XIRR.Status)
	}
	// invested = 1000 − 1200 = −200, current value = 0
	want := (0 - (-200.0)) / -200.0 * 100
	if !approxEqual(r.AbsoluteReturnPct, want, 1e-9) {
		t.Errorf("AbsoluteReturnPct = %v, want %v", r.AbsoluteReturnPct, want)
	}
	if r.Display() != r.AbsoluteReturnPct {
		t.Error("Display should fall back to absolute return")
	}
}

func TestComputeReturn_EmptyHolding(t *testing.T) {
	r := ComputeReturn(models.HoldingData{AsOf: day(2025, 1, 1)})
	if r.XIRR.Status != models.XIRRStatusNotApplicable {
		t.Errorf("XIRR status = %s, want not_applicable", r.XIRR.Status)
	}
	if r.AbsoluteReturnPct != 0 {
		t.Errorf("AbsoluteReturnPct = %v, want 0", r.AbsoluteReturnPct)
	}
}

func TestComputeXIRR_ZeroPriceIsNonConvergence(t *testing.T) {
	h := models.HoldingData{
		Transactions:  []models.Transaction{buy(10, 100, day(2024, 1, 1))},
		CurrentPrice:  0,
		CurrentFxRate: 1,
		AsOf:          day(2025, 1, 1),
	}
	r := ComputeXIRR(h)
	if r.Status != models.XIRRStatusNonConvergence {
		t.Errorf("status = %s, want non_convergence", r.Status)
	}
}

func TestComputeReturn_Idempotent(t *testing.T) {
	h := models.HoldingData{
		Transactions: []models.Transaction{
			buy(5, 1000, day(2022, 2, 14)),
			buy(3, 1100, day(2023, 5, 1)),
			sell(2, 1300, day(2024, 1, 20)),
		},
		CurrentPrice:  1250,
		CurrentFxRate: 1,
		AsOf:          day(2024, 10, 1),
	}
	a := ComputeReturn(h)
	b := ComputeReturn(h)
	if math.Float64bits(a.XIRR.Percent) != math.Float64bits(b.XIRR.Percent) ||
		math.Float64bits(a.AbsoluteReturnPct) != math.Float64bits(b.AbsoluteReturnPct) {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
}
