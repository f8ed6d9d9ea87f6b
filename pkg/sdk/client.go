package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

// Identity headers read by the server.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client calls the assetq HTTP API. Safe for concurrent use.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	apiKey     string
	userID     string
	userEmail  string
	userAgent  string
	obs        *observer
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout, userAgent: "assetq-sdk"}
	for _, o := range opts {
		o.apply(cfg)
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("assetq: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("assetq: base url must be http or https, got %q", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		base:       base,
		httpClient: hc,
		apiKey:     cfg.apiKey,
		userID:     cfg.userID,
		userEmail:  cfg.userEmail,
		userAgent:  cfg.userAgent,
		obs:        obs,
	}, nil
}

// As returns a copy of c that sends the given caller identity.
func (c *Client) As(userID, email string) *Client {
	cp := *c
	cp.userID = userID
	cp.userEmail = email
	return &cp
}

// SearchAssets calls GET /v1/assets/search.
func (c *Client) SearchAssets(ctx context.Context, p AssetsParams) (*Page, error) {
	var page Page
	if err := c.get(ctx, "search_assets", "/v1/assets/search", p, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Activity calls GET /v1/activity.
func (c *Client) Activity(ctx context.Context, p ActivityParams) (*Page, error) {
	var page Page
	if err := c.get(ctx, "activity", "/v1/activity", p, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Certs calls GET /v1/certs.
func (c *Client) Certs(ctx context.Context, p CertsParams) (*Page, error) {
	var page Page
	if err := c.get(ctx, "certs", "/v1/certs", p, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Health calls GET /health. A degraded or failing server is reported in Status,
// not as an error.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	err := c.get(ctx, "health", "/health", nil, &h)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && h.Status != "" {
		return &h, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// get sends a GET with params encoded as the query string and decodes the JSON body
// into out. Non-2xx responses return *APIError; the body is still decoded into out
// when it parses.
func (c *Client) get(ctx context.Context, op, path string, params any, out any) (err error) {
	start := time.Now()
	status := 0
	defer func() { c.obs.observe(op, status, start, err) }()

	u := *c.base
	u.Path = c.base.Path + path
	if params != nil {
		v, err := query.Values(params)
		if err != nil {
			return fmt.Errorf("assetq: encode %s params: %w", op, err)
		}
		u.RawQuery = v.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("assetq: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.userID != "" {
		req.Header.Set(HeaderUserID, c.userID)
	}
	if c.userEmail != "" {
		req.Header.Set(HeaderUserEmail, c.userEmail)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assetq: %s: %w", op, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if status >= 200 && status < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("assetq: decode %s response: %w", op, err)
		}
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: status}
	if json.Unmarshal(body, apiErr) != nil || apiErr.Code == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	_ = json.Unmarshal(body, out)
	return apiErr
}
