package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"city-explorer-api/internal/models"
)

const DefaultBaseURL = "https://us1.locationiq.com/v1/search.php"

// Client calls a LocationIQ-compatible forward geocoding endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each provider request, whichever HTTP client is in use.
// Zero keeps the client's own timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a geocoding client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		userAgent:  "city-explorer-api/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

type candidate struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Resolve geocodes the raw query and maps the first candidate into a record keyed by the
// normalized query. It never retries.
func (c *Client) Resolve(ctx context.Context, query string) (*models.LocationRecord, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", query)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderNetwork, Query: query, Err: err}
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderNetwork, Query: query, Err: err}
	}
	defer resp.Body.Close()

	// LocationIQ answers 404 when nothing matches.
	if resp.StatusCode == http.StatusNotFound {
		return nil, &models.ProviderError{Kind: models.ProviderEmptyResult, Query: query, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.ProviderError{Kind: models.ProviderStatus, Query: query, StatusCode: resp.StatusCode}
	}

	var candidates []candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderBadResponse, Query: query, StatusCode: resp.StatusCode, Err: err}
	}
	if len(candidates) == 0 {
		return nil, &models.ProviderError{Kind: models.ProviderEmptyResult, Query: query, StatusCode: resp.StatusCode}
	}

	rec, err := candidates[0].toRecord(query)
	if err != nil {
		return nil, &models.ProviderError{Kind: models.ProviderBadResponse, Query: query, StatusCode: resp.StatusCode, Err: err}
	}
	return rec, nil
}

func (c candidate) toRecord(query string) (*models.LocationRecord, error) {
	lat, err := strconv.ParseFloat(c.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", c.Lat, err)
	}
	lon, err := strconv.ParseFloat(c.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", c.Lon, err)
	}

	rec, err := models.NewLocationRecord(query, c.DisplayName, lat, lon)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
