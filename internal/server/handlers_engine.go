package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/networth/internal/models"
	"github.com/bobmcallan/networth/internal/services/portfolio"
	"github.com/bobmcallan/networth/internal/services/tax"
)

// engineTransaction accepts plain calendar dates as well as RFC3339.
type engineTransaction struct {
	Type     models.TransactionType `json:"type"`
	Quantity float64                `json:"quantity"`
	Price    float64                `json:"price"`
	Date     string                 `json:"date"`
	FXRate   float64                `json:"fx_rate"`
}

type engineRequest struct {
	Transactions  []engineTransaction    `json:"transactions"`
	CurrentPrice  float64                `json:"current_price"`
	CurrentFxRate float64                `json:"current_fx_rate"`
	AsOf          string                 `json:"as_of"`
	EquityRules   *models.EquityTaxRules `json:"equity_rules,omitempty"`
	FlatRules     *models.FlatTaxRules   `json:"flat_rules,omitempty"`
	WindowDays    int                    `json:"window_days"`
}

// decodeEngine parses and validates the shared engine request shape.
func decodeEngine(w http.ResponseWriter, r *http.Request) (engineRequest, []models.Transaction, time.Time, bool) {
	var req engineRequest
	if !RequireMethod(w, r, http.MethodPost) || !DecodeJSON(w, r, &req) {
		return req, nil, time.Time{}, false
	}

	txs := make([]models.Transaction, len(req.Transactions))
	for i, et := range req.Transactions {
		date, err := models.ParseDate(et.Date)
		if err != nil {
			WriteServiceError(w, err)
			return req, nil, time.Time{}, false
		}
		fx := et.FXRate
		if fx == 0 {
			fx = 1
		}
		txs[i] = models.Transaction{Type: et.Type, Quantity: et.Quantity, Price: et.Price, Date: date, FXRate: fx}
	}
	if err := models.ValidateTransactions(txs); err != nil {
		WriteServiceError(w, err)
		return req, nil, time.Time{}, false
	}

	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		WriteServiceError(w, err)
		return req, nil, time.Time{}, false
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return req, txs, asOf, true
}

// handleEnginePosition handles POST /api/engine/position.
func (s *Server) handleEnginePosition(w http.ResponseWriter, r *http.Request) {
	_, txs, _, ok := decodeEngine(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"position": portfolio.AggregatePosition(txs),
		"invested": portfolio.TotalInvested(txs),
	})
}

// handleEngineReturn handles POST /api/engine/return.
func (s *Server) handleEngineReturn(w http.ResponseWriter, r *http.Request) {
	req, txs, asOf, ok := decodeEngine(w, r)
	if !ok {
		return
	}
	h := models.HoldingData{
		Transactions:  txs,
		CurrentPrice:  req.CurrentPrice,
		CurrentFxRate: req.CurrentFxRate,
		AsOf:          asOf,
	}
	result := portfolio.ComputeReturn(h)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"return":     result,
		"display":    result.Display(),
		"cash_flows": portfolio.BuildCashFlows(h),
		"value":      portfolio.CurrentValue(h),
	})
}

// handleEngineEquityTax handles POST /api/engine/tax/equity.
func (s *Server) handleEngineEquityTax(w http.ResponseWriter, r *http.Request) {
	req, txs, asOf, ok := decodeEngine(w, r)
	if !ok {
		return
	}
	rules := s.app.Config.Tax.EquityTaxRules()
	if req.EquityRules != nil {
		rules = *req.EquityRules
	}
	info := tax.ComputeEquityTax(txs, req.CurrentPrice, rules, asOf)
	if info == nil {
		info = []models.TaxInfo{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"tax": info})
}

// handleEngineFlatTax handles POST /api/engine/tax/flat.
func (s *Server) handleEngineFlatTax(w http.ResponseWriter, r *http.Request) {
	req, txs, _, ok := decodeEngine(w, r)
	if !ok {
		return
	}
	rules := s.app.Config.Tax.FlatTaxRules()
	if req.FlatRules != nil {
		rules = *req.FlatRules
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tax": tax.ComputeFlatTax(txs, req.CurrentPrice, rules),
	})
}

// handleEngineWashSale handles POST /api/engine/wash-sale.
func (s *Server) handleEngineWashSale(w http.ResponseWriter, r *http.Request) {
	req, txs, _, ok := decodeEngine(w, r)
	if !ok {
		return
	}
	window := req.WindowDays
	if window <= 0 {
		window = s.app.Config.Tax.WashSaleWindowDays
	}
	WriteJSON(w, http.StatusOK, tax.DetectWashSale(txs, window))
}

type accrualRequest struct {
	IssuePrice    float64  `json:"issue_price"`
	Quantity      float64  `json:"quantity"`
	IssueDate     string   `json:"issue_date"`
	AnnualRatePct *float64 `json:"annual_rate_pct,omitempty"`
	AsOf          string   `json:"as_of"`
}

// handleEngineAccrual handles POST /api/engine/accrual.
func (s *Server) handleEngineAccrual(w http.ResponseWriter, r *http.Request) {
	var req accrualRequest
	if !RequireMethod(w, r, http.MethodPost) || !DecodeJSON(w, r, &req) {
		return
	}

	issueDate, err := models.ParseDate(req.IssueDate)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	rate := s.app.Config.Accrual.SGBAnnualRate
	if req.AnnualRatePct != nil {
		rate = *req.AnnualRatePct
	}

	WriteJSON(w, http.StatusOK, map[string]float64{
		"accrued_interest": portfolio.ComputeAccrual(req.IssuePrice, req.Quantity, issueDate, rate, asOf),
	})
}

type forexRequest struct {
	BuyFxRate      float64 `json:"buy_fx_rate"`
	CurrentFxRate  float64 `json:"current_fx_rate"`
	AssetReturnPct float64 `json:"asset_return_pct"`
}

// handleEngineForex handles POST /api/engine/forex.
func (s *Server) handleEngineForex(w http.ResponseWriter, r *http.Request) {
	var req forexRequest
	if !RequireMethod(w, r, http.MethodPost) || !DecodeJSON(w, r, &req) {
		return
	}

	attr, err := portfolio.AttributeForexReturn(req.BuyFxRate, req.CurrentFxRate, req.AssetReturnPct)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, attr)
}
