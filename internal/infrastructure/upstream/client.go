// Package upstream implements the HTTP client for the fleet assistant
// analytics API, including OAuth client-credentials auth and pagination.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

const feedbackPageSize = 200

// Config carries the upstream connection settings.
type Config struct {
	BaseURL         string
	TokenURL        string
	ClientID        string
	ClientSecret    string
	Timeout         time.Duration
	PaginationLimit int
}

// Client talks to the upstream analytics API. It caches the bearer token
// until shortly before expiry and serializes refreshes so concurrent callers
// never race multiple token requests.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *logging.ChanneledLogger

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
	now         func() time.Time
}

// NewClient creates an upstream API client.
func NewClient(cfg Config, logger *logging.ChanneledLogger) *Client {
	if cfg.PaginationLimit <= 0 {
		cfg.PaginationLimit = 1000
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// bearerToken returns a valid access token, refreshing when the cached one
// is missing or within a minute of expiry.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && c.now().Add(time.Minute).Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access token")
	}

	c.token = tr.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	if c.logger != nil {
		c.logger.Upstream().Debug("Refreshed upstream bearer token", "expiresIn", tr.ExpiresIn)
	}
	return c.token, nil
}

// get performs an authenticated GET and returns the response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if c.logger != nil {
		c.logger.Upstream().Debug("Upstream request completed", "path", path, "duration", time.Since(start), "bytes", len(body))
	}
	return body, nil
}

// FetchAnalyticsPage retrieves one page of raw analytics events.
func (c *Client) FetchAnalyticsPage(ctx context.Context, page, limit int) ([]analytics.RawEvent, *Pagination, error) {
	query := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	body, err := c.get(ctx, "/analytics/data", query)
	if err != nil {
		return nil, nil, err
	}

	events, pagination, ok, err := decodeEventPage(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode analytics page %d: %w", page, err)
	}
	if !ok && c.logger != nil {
		c.logger.Upstream().Warn("Analytics page carried no recognized record array, treating as empty", "page", page)
	}
	return events, pagination, nil
}

// FetchAllAnalytics paginates through the analytics endpoint until the
// upstream reports no further pages, or, when no pagination block is
// present, until a short page is observed. Any page failure aborts the whole
// fetch so the cache is never partially populated.
func (c *Client) FetchAllAnalytics(ctx context.Context) ([]analytics.RawEvent, error) {
	limit := c.cfg.PaginationLimit
	var all []analytics.RawEvent

	for page := 1; ; page++ {
		events, pagination, err := c.FetchAnalyticsPage(ctx, page, limit)
		if err != nil {
			return nil, fmt.Errorf("analytics pagination aborted at page %d: %w", page, err)
		}
		all = append(all, events...)

		if pagination != nil {
			if !pagination.HasNextPage {
				break
			}
			continue
		}
		if len(events) < limit {
			break
		}
	}

	if c.logger != nil {
		c.logger.Upstream().Info("Fetched full analytics data set", "events", len(all))
	}
	return all, nil
}

// FetchSessions retrieves the sessions payload for a date window. The
// sessions endpoint is single-page.
func (c *Client) FetchSessions(ctx context.Context, startDate, endDate string) (analytics.SessionsPayload, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	body, err := c.get(ctx, "/sessions", query)
	if err != nil {
		return analytics.SessionsPayload{}, err
	}

	var payload analytics.SessionsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return analytics.SessionsPayload{}, fmt.Errorf("failed to decode sessions response: %w", err)
	}
	return payload, nil
}

type feedbackPage struct {
	Body struct {
		Content []analytics.FeedbackEntry `json:"content"`
	} `json:"body"`
}

// FetchFeedbackPage retrieves one page of product feedback entries.
func (c *Client) FetchFeedbackPage(ctx context.Context, startDate, endDate string, pageSize, pageNumber int) ([]analytics.FeedbackEntry, error) {
	query := url.Values{
		"startDate":  {startDate},
		"endDate":    {endDate},
		"pageSize":   {strconv.Itoa(pageSize)},
		"pageNumber": {strconv.Itoa(pageNumber)},
	}
	body, err := c.get(ctx, "/feedback/product", query)
	if err != nil {
		return nil, err
	}

	var page feedbackPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode feedback page %d: %w", pageNumber, err)
	}
	return page.Body.Content, nil
}

// FetchAllFeedback paginates the feedback endpoint until a short page.
func (c *Client) FetchAllFeedback(ctx context.Context, startDate, endDate string) ([]analytics.FeedbackEntry, error) {
	var all []analytics.FeedbackEntry
	for page := 0; ; page++ {
		entries, err := c.FetchFeedbackPage(ctx, startDate, endDate, feedbackPageSize, page)
		if err != nil {
			return nil, fmt.Errorf("feedback pagination aborted at page %d: %w", page, err)
		}
		all = append(all, entries...)
		if len(entries) < feedbackPageSize {
			break
		}
	}
	return all, nil
}
