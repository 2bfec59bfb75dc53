// Package warehouse is the client boundary to the external warehouse API. The
// service does not own warehouse data; it reads and creates records remotely
// on behalf of the caller.
package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx response surfaced to the caller with the status code
// and body text. There is no retry or backoff at this layer; two identical
// calls are two independent requests.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("warehouse API returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the warehouse API. Auth token and tenant id are attached to
// every request as headers; cancellation and deadlines come from the caller's
// context.
type Client struct {
	baseURL   string
	authToken string
	tenantID  string
	http      *http.Client
}

func NewClient(baseURL, authToken, tenantID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		tenantID:  tenantID,
		http:      httpClient,
	}
}

// List fetches all warehouse records.
func (c *Client) List(ctx context.Context) ([]Warehouse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/warehouses", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	var out []Warehouse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a new warehouse record and returns it as created by the API.
func (c *Client) Create(ctx context.Context, create CreateRequest) (Warehouse, error) {
	payload, err := json.Marshal(create)
	if err != nil {
		return Warehouse{}, fmt.Errorf("marshal create request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/warehouses", bytes.NewReader(payload))
	if err != nil {
		return Warehouse{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	var out Warehouse
	if err := c.do(req, &out); err != nil {
		return Warehouse{}, err
	}
	return out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	req.Header.Set("X-Tenant-ID", c.tenantID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("warehouse request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read warehouse response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode warehouse response: %w", err)
	}
	return nil
}
