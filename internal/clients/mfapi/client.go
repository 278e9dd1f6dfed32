// Package mfapi provides a client for the mfapi.in mutual fund NAV API
package mfapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/networth/internal/common"
	"github.com/bobmcallan/networth/internal/interfaces"
	"github.com/bobmcallan/networth/internal/models"
)

const (
	DefaultBaseURL   = "https://api.mfapi.in"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	DefaultSearchLimit = 10
)

// Client implements the MFAPIClient interface
type Client struct {
	client  *resty.Client
	logger  *common.Logger
	limiter *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.client.SetBaseURL(baseURL)
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
		c.client.SetTimeout(timeout)
	}
}

// NewClient creates a new mfapi client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		client: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(DefaultTimeout).
			SetHeader("Accept", "application/json"),
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
	return fmt.Sprintf("mfapi error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

type navResponse struct {
	Meta struct {
		FundHouse  string `json:"fund_house"`
		SchemeName string `json:"scheme_name"`
		SchemeCode int    `json:"scheme_code"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
	Status string `json:"status"`
}

// fetchScheme loads the scheme document for a code.
func (c *Client) fetchScheme(ctx context.Context, schemeCode string) (*navResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := "/mf/" + schemeCode
	c.logger.Debug().Str("url", endpoint).Msg("mfapi request")

	var body navResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("code", schemeCode).
		SetResult(&body).
		Get("/mf/{code}")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: resp.String(), Endpoint: endpoint}
	}
	return &body, nil
}

// GetNAV returns the latest NAV for a scheme code, in INR. When a second
// NAV is present it is reported as the previous close.
func (c *Client) GetNAV(ctx context.Context, schemeCode string) (*models.PriceData, error) {
	body, err := c.fetchScheme(ctx, schemeCode)
	if err != nil {
		return nil, err
	}
	if len(body.Data) == 0 {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "no NAV data for scheme", Endpoint: "/mf/" + schemeCode}
	}

	nav, err := parseNAV(body.Data[0].NAV)
	if err != nil {
		return nil, fmt.Errorf("scheme %s: %w", schemeCode, err)
	}

	price := &models.PriceData{
		Ticker:    schemeCode,
		Price:     nav,
		Currency:  "INR",
		Provider:  models.ProviderMFAPI,
		FetchedAt: time.Now(),
	}

	if len(body.Data) > 1 {
		if prev, err := parseNAV(body.Data[1].NAV); err == nil && prev > 0 {
			change := nav - prev
			changePct := change / prev * 100
			price.PreviousClose = &prev
			price.Change = &change
			price.ChangePercent = &changePct
		}
	}

	return price, nil
}

// GetScheme resolves a scheme code to its name. The fund house stands in
// when the scheme name is missing.
func (c *Client) GetScheme(ctx context.Context, schemeCode string) (*models.TickerMatch, error) {
	body, err := c.fetchScheme(ctx, schemeCode)
	if err != nil {
		return nil, err
	}
	name := body.Meta.SchemeName
	if name == "" {
		name = body.Meta.FundHouse
	}
	if name == "" {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "unknown scheme", Endpoint: "/mf/" + schemeCode}
	}
	return &models.TickerMatch{
		Ticker: schemeCode,
		Name:   name,
		Type:   string(models.AssetMutualFund),
	}, nil
}

type schemeSummary struct {
	SchemeCode int    `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
}

// SearchSchemes finds schemes whose name matches the query, capped at limit.
func (c *Client) SearchSchemes(ctx context.Context, query string, limit int) ([]models.TickerMatch, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	c.logger.Debug().Str("url", "/mf/search").Str("q", query).Msg("mfapi request")

	var body []schemeSummary
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetResult(&body).
		Get("/mf/search")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: resp.String(), Endpoint: "/mf/search"}
	}

	if len(body) > limit {
		body = body[:limit]
	}
	matches := make([]models.TickerMatch, 0, len(body))
	for _, scheme := range body {
		matches = append(matches, models.TickerMatch{
			Ticker: strconv.Itoa(scheme.SchemeCode),
			Name:   scheme.SchemeName,
			Type:   string(models.AssetMutualFund),
		})
	}
	return matches, nil
}

func parseNAV(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid NAV %q: %w", s, err)
	}
	return v, nil
}

// Compile-time check
var _ interfaces.MFAPIClient = (*Client)(nil)
