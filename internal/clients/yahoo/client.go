// Package yahoo provides a client for the Yahoo Finance chart API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/networth/internal/common"
	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
)

const (
	DefaultBaseURL     = "https://query1.finance.yahoo.com"
	DefaultTimeout     = 10 * time.Second
	DefaultRateLimit   = 5 // requests per second
	DefaultQuotesCount = 15

	userAgent = "Mozilla/5.0 (compatible; networth/1.0)"
)

// Client implements the YahooClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("url", path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta chartMeta `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartMeta struct {
	Symbol             string   `json:"symbol"`
	Currency           string   `json:"currency"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	PreviousClose      *float64 `json:"previousClose"`
	ChartPreviousClose *float64 `json:"chartPreviousClose"`
	ShortName          string   `json:"shortName"`
	LongName           string   `json:"longName"`
	ExchangeName       string   `json:"exchangeName"`
	InstrumentType     string   `json:"instrumentType"`
}

// fetchChartMeta returns the chart metadata for a symbol. A chart error or an
// empty result is reported as a 404 APIError.
func (c *Client) fetchChartMeta(ctx context.Context, symbol string) (*chartMeta, error) {
	path := "/v8/finance/chart/" + url.PathEscape(symbol)
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "5d")

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusNotFound,
			Message:    resp.Chart.Error.Code + ": " + resp.Chart.Error.Description,
			Endpoint:   path,
		}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "no chart result", Endpoint: path}
	}
	return &resp.Chart.Result[0].Meta, nil
}

// GetQuote returns the latest price for a Yahoo symbol (e.g. "INFY.NS", "AAPL", "USDINR=X").
// Change fields are derived from the previous close when Yahoo reports one.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.PriceData, error) {
	meta, err := c.fetchChartMeta(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if meta.RegularMarketPrice == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "no price in response", Endpoint: "/v8/finance/chart/" + symbol}
	}

	price := &models.PriceData{
		Ticker:    symbol,
		Price:     *meta.RegularMarketPrice,
		Currency:  meta.Currency,
		Provider:  models.ProviderYahoo,
		FetchedAt: time.Now(),
	}

	prev := meta.PreviousClose
	if prev == nil {
		prev = meta.ChartPreviousClose
	}
	if prev != nil && *prev > 0 {
		change := price.Price - *prev
		changePct := change / *prev * 100
		pc := *prev
		price.PreviousClose = &pc
		price.Change = &change
		price.ChangePercent = &changePct
	}

	return price, nil
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		Exchange  string `json:"exchange"`
		Shortname string `json:"shortname"`
		Longname  string `json:"longname"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Search runs a Yahoo symbol search. Matches are returned unfiltered with
// the Yahoo symbol, exchange code and quote type as reported.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.TickerMatch, error) {
	if limit <= 0 {
		limit = DefaultQuotesCount
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(limit))
	params.Set("newsCount", "0")

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return nil, err
	}

	matches := make([]models.TickerMatch, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		matches = append(matches, models.TickerMatch{
			Ticker:   q.Symbol,
			Name:     firstNonEmpty(q.Shortname, q.Longname, q.Symbol),
			Type:     firstNonEmpty(q.QuoteType, "EQUITY"),
			Exchange: q.Exchange,
		})
	}
	return matches, nil
}

// Lookup resolves a Yahoo symbol to its display name and exchange.
func (c *Client) Lookup(ctx context.Context, symbol string) (*models.TickerMatch, error) {
	meta, err := c.fetchChartMeta(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &models.TickerMatch{
		Ticker:   firstNonEmpty(meta.Symbol, symbol),
		Name:     firstNonEmpty(meta.ShortName, meta.LongName, symbol),
		Type:     meta.InstrumentType,
		Exchange: meta.ExchangeName,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Compile-time check
var _ interfaces.YahooClient = (*Client)(nil)
