// Package gatewayclient is the storefront's HTTP client for the catalog gateway.
package gatewayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "http://localhost:5000"

var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx gateway response.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway returned %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the gateway at baseURL, or DefaultBaseURL when it is empty.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// GetProducts fetches one page of the catalog. An empty search lists everything.
func (c *Client) GetProducts(ctx context.Context, page, limit int, search string) (*domain.Page[domain.Product], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if search != "" {
		params.Set("search", search)
	}

	var result domain.Page[domain.Product]
	if err := c.do(ctx, http.MethodGet, "/api/products?"+params.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateStock(ctx context.Context, id int64, stock int) error {
	body, err := json.Marshal(map[string]int{"stock": stock})
	if err != nil {
		return fmt.Errorf("marshal stock update failed: %w", err)
	}
	return c.do(ctx, http.MethodPatch, productPath(id), body, nil)
}

func productPath(id int64) string {
	return "/api/products/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			statusErr.Message = payload.Message
			statusErr.Code = payload.Code
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
