package models

// Position is the folded state of a transaction ledger.
// AveragePrice is nil when NetQuantity <= 0.
type Position struct {
	NetQuantity    float64  `json:"net_quantity"`
	TotalCostBasis float64  `json:"total_cost_basis"`
	AveragePrice   *float64 `json:"average_price"`
}

// XIRRStatus distinguishes a solved rate from the two non-results.
type XIRRStatus string

const (
	XIRRStatusOK             XIRRStatus = "ok"
	XIRRStatusNotApplicable  XIRRStatus = "not_applicable"
	XIRRStatusNonConvergence XIRRStatus = "non_convergence"
)

// XIRRResult carries an annualised rate in percent when Status is ok.
type XIRRResult struct {
	Status  XIRRStatus `json:"status"`
	Percent float64    `json:"percent"`
}

// OK reports whether Percent holds a solved rate.
func (r XIRRResult) OK() bool {
	return r.Status == XIRRStatusOK
}

// ReturnResult pairs XIRR with the absolute-return fallback.
type ReturnResult struct {
	XIRR              XIRRResult `json:"xirr"`
	AbsoluteReturnPct float64    `json:"absolute_return_pct"`
}

// Display returns the XIRR when solved, otherwise the absolute return.
func (r ReturnResult) Display() float64 {
	if r.XIRR.OK() {
		return r.XIRR.Percent
	}
	return r.AbsoluteReturnPct
}

// ValuedPosition is a quantity with its current home-currency unit value.
type ValuedPosition struct {
	Quantity     float64 `json:"quantity"`
	CurrentPrice float64 `json:"current_price"`
	FxRate       float64 `json:"fx_rate"`
}

// ForexAttribution splits a home-currency return into asset and currency parts, all in percent.
type ForexAttribution struct {
	TotalReturn       float64 `json:"total_return"`
	AssetContribution float64 `json:"asset_contribution"`
	ForexContribution float64 `json:"forex_contribution"`
}
