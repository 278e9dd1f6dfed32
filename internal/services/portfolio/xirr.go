package portfolio

import (
	"errors"
	"math"
	"sort"

	"github.com/bobmcallan/networth/internal/models"
)

var (
	// ErrNoCashFlows is returned for an empty flow list.
	ErrNoCashFlows = errors.New("xirr: no cash flows")
	// ErrNoSignChange is returned when every flow has the same sign.
	ErrNoSignChange = errors.New("xirr: cash flows do not change sign")
	// ErrNonConvergence is returned when neither Newton nor bisection finds a root.
	ErrNonConvergence = errors.New("xirr: solver did not converge")
)

const daysPerYear = 365.0

// SolveXIRR finds r such that Σ amount_i × (1+r)^(−t_i) = 0, where t_i is
// the years from the earliest flow (days / 365). Input order is irrelevant.
// Returns r as a decimal fraction (0.1 for 10%).
//
// Newton-Raphson runs first, seeded from the simple return. If it stalls or
// leaves the valid domain, a bracketed bisection over (-1, 1e6] is used.
func SolveXIRR(flows []models.CashFlow) (float64, error) {
	if len(flows) == 0 {
		return 0, ErrNoCashFlows
	}

	sorted := make([]models.CashFlow, len(flows))
	copy(sorted, flows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	hasNeg, hasPos := false, false
	scale := 0.0
	for _, f := range sorted {
		if f.Amount < 0 {
			hasNeg = true
		}
		if f.Amount > 0 {
			hasPos = true
		}
		scale += math.Abs(f.Amount)
	}
	if !hasNeg || !hasPos {
		return 0, ErrNoSignChange
	}

	baseDate := sorted[0].Date
	years := make([]float64, len(sorted))
	for i, f := range sorted {
		years[i] = f.Date.Sub(baseDate).Hours() / 24 / daysPerYear
	}

	// NPV tolerance scales with the size of the flows
	tol := 1e-9 * math.Max(1, scale)

	if rate, ok := newtonXIRR(sorted, years, tol); ok {
		return rate, nil
	}
	if rate, ok := bisectXIRR(sorted, years, tol); ok {
		return rate, nil
	}
	return 0, ErrNonConvergence
}

// npv returns the net present value and its derivative at rate.
func npv(flows []models.CashFlow, years []float64, rate float64) (float64, float64) {
	base := 1 + rate
	sum, deriv := 0.0, 0.0
	for i, f := range flows {
		discount := math.Pow(base, years[i])
		sum += f.Amount / discount
		if years[i] != 0 {
			deriv -= years[i] * f.Amount / (discount * base)
		}
	}
	return sum, deriv
}

func newtonXIRR(flows []models.CashFlow, years []float64, tol float64) (float64, bool) {
	const (
		maxIter = 100
		minRate = -0.999
		maxRate = 100.0
	)

	invested, received := 0.0, 0.0
	for _, f := range flows {
		if f.Amount < 0 {
			invested -= f.Amount
		} else {
			received += f.Amount
		}
	}

	rate := 0.1
	if invested > 0 {
		simple := received/invested - 1
		if simple > -0.9 && simple < 10 {
			rate = simple
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		value, deriv := npv(flows, years, rate)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, false
		}
		if math.Abs(value) < tol {
			return rate, true
		}
		if deriv == 0 || math.IsNaN(deriv) || math.IsInf(deriv, 0) {
			return 0, false
		}

		next := rate - value/deriv
		if next < minRate {
			next = minRate
		}
		if next > maxRate {
			next = maxRate
		}
		if math.Abs(next-rate) < 1e-12 {
			// step collapsed without reaching tolerance, usually pinned at a clamp
			return 0, false
		}
		rate = next
	}

	return 0, false
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// bracketPoints are tried in order to find a sign change of the NPV. The
// grid is dense over [-0.95, 1] so a pair of nearby roots in that range is
// not stepped over.
var bracketPoints = buildBracketPoints()

func buildBracketPoints() []float64 {
	points := []float64{-0.9999, -0.999, -0.99}
	for i := -19; i <= 20; i++ {
		points = append(points, float64(i)*0.05)
	}
	return append(points, 1.5, 2, 3, 5, 10, 100, 1e3, 1e4, 1e6)
}

func bisectXIRR(flows []models.CashFlow, years []float64, tol float64) (float64, bool) {
	const maxIter = 300

	at := func(rate float64) float64 {
		v, _ := npv(flows, years, rate)
		return v
	}

	lo, hi := math.NaN(), math.NaN()
	prev := bracketPoints[0]
	prevVal := at(prev)
	for _, p := range bracketPoints[1:] {
		val := at(p)
		if math.IsNaN(prevVal) || math.IsNaN(val) {
			prev, prevVal = p, val
			continue
		}
		if sign(prevVal) == 0 {
			return prev, true
		}
		if sign(prevVal) != sign(val) {
			lo, hi = prev, p
			break
		}
		prev, prevVal = p, val
	}
	if math.IsNaN(lo) {
		return 0, false
	}

	loSign := sign(at(lo))
	for iter := 0; iter < maxIter; iter++ {
		mid := (lo + hi) / 2
		val := at(mid)
		if math.IsNaN(val) {
			return 0, false
		}
		if math.Abs(val) < tol || (hi-lo)/2 < 1e-12 {
			return mid, true
		}
		if sign(val) == loSign {
			lo = mid
		} else {
			hi = mid
		}
	}

	return (lo + hi) / 2, true
}
