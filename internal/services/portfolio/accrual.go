package portfolio

import (
	"time"
)

// daysPerAccrualYear averages leap years into the coupon day count.
const daysPerAccrualYear = 365.25

// DefaultSGBAnnualRate is the sovereign gold bond coupon in percent.
const DefaultSGBAnnualRate = 2.5

// ComputeAccrual returns simple interest issuePrice × quantity × rate × years
// from issueDate to asOf, with annualRatePct in percent. No compounding and
// no maturity cap. The result is never negative.
func ComputeAccrual(issuePrice, quantity float64, issueDate time.Time, annualRatePct float64, asOf time.Time) float64 {
	asOf = resolveAsOf(asOf)
	if !asOf.After(issueDate) {
		return 0
	}

	years := asOf.Sub(issueDate).Hours() / 24 / daysPerAccrualYear
	accrued := issuePrice * quantity * (annualRatePct / 100) * years
	if !(accrued > 0) {
		return 0
	}
	return accrued
}
