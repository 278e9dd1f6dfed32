package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/networth/internal/models"
)

// handlePortfolio handles GET /api/portfolio?as_of=.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	summary, err := s.app.PortfolioService.GetSummary(r.Context(), asOf)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleAssets handles GET /api/assets.
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	assets, err := s.app.LedgerService.ListAssets(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if assets == nil {
		assets = []*models.Asset{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"assets": assets})
}

// handleTransactions handles GET and POST /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txs, err := s.app.LedgerService.ListTransactions(r.Context(), r.URL.Query().Get("asset_id"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if txs == nil {
			txs = []*models.Transaction{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})

	case http.MethodPost:
		var req models.NewTransaction
		if !DecodeJSON(w, r, &req) {
			return
		}
		tx, asset, err := s.app.LedgerService.RecordTransaction(r.Context(), req)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"transaction": tx,
			"asset":       asset,
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTransactionDelete handles DELETE /api/transactions/{id}.
func (s *Server) handleTransactionDelete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id := PathParam(r, "/api/transactions/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "transaction id is required")
		return
	}
	if err := s.app.LedgerService.DeleteTransaction(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePrices handles GET /api/prices?tickers=T[:PROVIDER[:MARKET]],...
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	refs, err := parseTickerRefs(r.URL.Query().Get("tickers"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	prices := s.app.QuoteService.GetPrices(r.Context(), refs)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"prices":      prices,
		"usdinr_rate": s.app.QuoteService.GetUSDINRRate(r.Context()),
	})
}

// parseTickerRefs parses "T[:PROVIDER[:MARKET]]" items. Provider defaults
// from the market, market defaults to IN.
func parseTickerRefs(raw string) ([]models.AssetRef, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: tickers is required", models.ErrInvalidInput)
	}

	var refs []models.AssetRef
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ":")
		if len(parts) > 3 {
			return nil, fmt.Errorf("%w: malformed ticker %q", models.ErrInvalidInput, item)
		}

		a := models.Asset{Ticker: parts[0]}
		if len(parts) > 1 {
			a.Provider = models.Provider(parts[1])
		}
		if len(parts) > 2 {
			a.Market = models.Market(parts[2])
		}
		a.Normalize()
		if err := a.Validate(); err != nil {
			return nil, err
		}
		refs = append(refs, models.AssetRef{Ticker: a.Ticker, Provider: a.Provider, Market: a.Market})
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: tickers is required", models.ErrInvalidInput)
	}
	return refs, nil
}

// handleSearch handles GET /api/search?q=&asset_type=&market=&mode=.
// mode=lookup resolves q as a ticker and answers {"result": match|null};
// the default search mode answers {"results": [...]}.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if s.app.SearchService == nil {
		WriteError(w, http.StatusServiceUnavailable, "ticker search is not configured")
		return
	}

	params := r.URL.Query()
	query := models.TickerQuery{
		Query:     params.Get("q"),
		AssetType: models.AssetType(params.Get("asset_type")),
		Market:    models.Market(params.Get("market")),
		Mode:      models.SearchMode(params.Get("mode")),
	}
	query.Normalize()
	if err := query.Validate(); err != nil {
		WriteServiceError(w, err)
		return
	}

	if query.Mode == models.SearchModeLookup {
		match, err := s.app.SearchService.LookupTicker(r.Context(), query)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"result": match})
		return
	}

	results, err := s.app.SearchService.SearchTickers(r.Context(), query)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	resp := map[string]interface{}{"results": results}
	if query.Query != "" && !query.Searchable() {
		resp["message"] = "manual entry required for this asset type"
	}
	WriteJSON(w, http.StatusOK, resp)
}
