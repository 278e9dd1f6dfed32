package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/networth/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Ledger and portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/assets", s.handleAssets)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/", s.handleTransactionDelete)
	mux.HandleFunc("/api/prices", s.handlePrices)
	mux.HandleFunc("/api/search", s.handleSearch)

	// Stateless engine
	mux.HandleFunc("/api/engine/position", s.handleEnginePosition)
	mux.HandleFunc("/api/engine/return", s.handleEngineReturn)
	mux.HandleFunc("/api/engine/tax/equity", s.handleEngineEquityTax)
	mux.HandleFunc("/api/engine/tax/flat", s.handleEngineFlatTax)
	mux.HandleFunc("/api/engine/wash-sale", s.handleEngineWashSale)
	mux.HandleFunc("/api/engine/accrual", s.handleEngineAccrual)
	mux.HandleFunc("/api/engine/forex", s.handleEngineForex)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	info := common.GetVersionInfo()
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": info.Version,
		"build":   info.Build,
		"commit":  info.Commit,
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}
