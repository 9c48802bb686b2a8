package daemon

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
)

const (
	requestTimeout = 2 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
)

var (
	// ErrUnreachable indicates nothing answered at the daemon address.
	ErrUnreachable = errors.New("daemon: unreachable")
	// ErrBadRequest indicates the daemon rejected a query parameter.
	ErrBadRequest = errors.New("daemon: bad request")
)

// Client reads a running daemon's HTTP API.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client for addr ("host:port" or a full URL).
func NewClient(addr string) *Client {
	base := strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{base: base, http: &http.Client{}}
}

// Status fetches /v1/status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	err := c.getJSON(ctx, "/v1/status", nil, &st)
	return st, err
}

// Budgets fetches /v1/budgets, optionally only the active ones.
func (c *Client) Budgets(ctx context.Context, activeOnly bool) ([]BudgetView, error) {
	q := url.Values{}
	if activeOnly {
		q.Set("active", "true")
	}
	var out []BudgetView
	err := c.getJSON(ctx, "/v1/budgets", q, &out)
	return out, err
}

// Goals fetches /v1/goals for a filter name (active, completed, expired, all).
func (c *Client) Goals(ctx context.Context, filter string) ([]GoalView, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	var out []GoalView
	err := c.getJSON(ctx, "/v1/goals", q, &out)
	return out, err
}

// Events fetches the buffered event history.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	var out []Event
	err := c.getJSON(ctx, "/v1/events", nil, &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("daemon: parsing %s: %w", path, err)
	}
	return nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("daemon: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, strings.TrimSpace(string(msg)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("daemon: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("daemon: reading response: %w", err)
	}
	return body, nil
}
