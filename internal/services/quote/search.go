package quote

import (
	"context"
	"strings"

	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
)

const (
	yahooSearchLimit  = 15
	schemeSearchLimit = 10
)

// Yahoo exchange codes accepted for each market filter.
var marketExchanges = map[models.Market]map[string]bool{
	models.MarketIN: {"NSI": true, "NSE": true, "BSE": true},
	models.MarketUS: {"NYQ": true, "NMS": true, "NGM": true, "NYSE": true, "NASDAQ": true},
}

// SearchTickers finds instruments matching a free-text query. Mutual funds
// are searched on mfapi, everything else on Yahoo filtered by market or
// crypto quote type. Provider failures are logged and yield no matches.
func (s *Service) SearchTickers(ctx context.Context, query models.TickerQuery) ([]models.TickerMatch, error) {
	query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}
	matches := []models.TickerMatch{}
	if query.Query == "" || !query.Searchable() {
		return matches, nil
	}

	if query.AssetType == models.AssetMutualFund {
		if s.mfapi == nil {
			return matches, nil
		}
		found, err := s.mfapi.SearchSchemes(ctx, query.Query, schemeSearchLimit)
		if err != nil {
			s.logger.Warn().Err(err).Str("q", query.Query).Msg("Scheme search failed")
			return matches, nil
		}
		return append(matches, found...), nil
	}

	if s.yahoo == nil {
		return matches, nil
	}
	found, err := s.yahoo.Search(ctx, query.Query, yahooSearchLimit)
	if err != nil {
		s.logger.Warn().Err(err).Str("q", query.Query).Msg("Yahoo search failed")
		return matches, nil
	}
	for _, m := range found {
		if !acceptMatch(m, query) {
			continue
		}
		m.Ticker = stripExchangeSuffix(m.Ticker)
		matches = append(matches, m)
	}
	return matches, nil
}

// LookupTicker resolves one ticker to its display name. Crypto tickers
// without a pair get a -USD suffix and Indian listings resolve on NSE.
// The returned match keeps the caller's ticker.
func (s *Service) LookupTicker(ctx context.Context, query models.TickerQuery) (*models.TickerMatch, error) {
	query.Normalize()
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if query.Query == "" || !query.Searchable() {
		return nil, nil
	}

	var (
		match *models.TickerMatch
		err   error
	)
	switch query.AssetType {
	case models.AssetMutualFund:
		if s.mfapi == nil {
			return nil, nil
		}
		match, err = s.mfapi.GetScheme(ctx, query.Query)
	case models.AssetCrypto:
		if s.yahoo == nil {
			return nil, nil
		}
		symbol := query.Query
		if !strings.Contains(symbol, "-") {
			symbol += "-USD"
		}
		match, err = s.yahoo.Lookup(ctx, symbol)
		if match != nil {
			match.Type = "CRYPTOCURRENCY"
		}
	default:
		if s.yahoo == nil {
			return nil, nil
		}
		match, err = s.yahoo.Lookup(ctx, YahooSymbol(query.Query, query.Market))
		if match != nil {
			match.Type = string(models.AssetStock)
		}
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", query.Query).Str("asset_type", string(query.AssetType)).Msg("Ticker lookup failed")
		return nil, nil
	}
	if match == nil {
		return nil, nil
	}

	match.Ticker = query.Query
	if match.Name == "" {
		match.Name = query.Query
	}
	return match, nil
}

func acceptMatch(m models.TickerMatch, query models.TickerQuery) bool {
	if query.AssetType == models.AssetCrypto {
		return m.Type == "CRYPTOCURRENCY"
	}
	exchanges, ok := marketExchanges[query.Market]
	if !ok {
		return true
	}
	return exchanges[m.Exchange]
}

func stripExchangeSuffix(ticker string) string {
	upper := strings.ToUpper(ticker)
	for _, suffix := range []string{".NS", ".BO"} {
		if strings.HasSuffix(upper, suffix) {
			return ticker[:len(ticker)-len(suffix)]
		}
	}
	return ticker
}

// Ensure Service implements TickerSearchService
var _ interfaces.TickerSearchService = (*Service)(nil)
