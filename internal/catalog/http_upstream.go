package catalog

import (
	"bytes"
	"context"
	"encoding/json"
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

const DefaultUpstreamURL = "https://dummyjson.com"

// HTTPUpstream talks to a dummyjson-compatible catalog over HTTP.
type HTTPUpstream struct {
	baseURL string
	client  *http.Client
}

func NewHTTPUpstream(baseURL string, timeout time.Duration) *HTTPUpstream {
	return &HTTPUpstream{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// productsEnvelope is the listing/search response body. The upstream also reports
// total/skip/limit, which the gateway ignores.
type productsEnvelope struct {
	Products []domain.Product `json:"products"`
}

type stockPatch struct {
	Stock int `json:"stock"`
}

func (u *HTTPUpstream) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var env productsEnvelope
	if err := u.do(ctx, http.MethodGet, u.baseURL+"/products", nil, &env); err != nil {
		return nil, err
	}
	return env.Products, nil
}

func (u *HTTPUpstream) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	endpoint := u.baseURL + "/products/search?" + url.Values{"q": {query}}.Encode()
	var env productsEnvelope
	if err := u.do(ctx, http.MethodGet, endpoint, nil, &env); err != nil {
		return nil, err
	}
	return env.Products, nil
}

func (u *HTTPUpstream) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := u.do(ctx, http.MethodGet, u.productURL(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (u *HTTPUpstream) UpdateStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	body, err := json.Marshal(stockPatch{Stock: stock})
	if err != nil {
		return nil, fmt.Errorf("marshal stock patch failed: %w", err)
	}
	var p domain.Product
	if err := u.do(ctx, http.MethodPatch, u.productURL(id), body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (u *HTTPUpstream) productURL(id int64) string {
	return u.baseURL + "/products/" + strconv.FormatInt(id, 10)
}

func (u *HTTPUpstream) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUpstream, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d", ErrUpstream, method, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, endpoint, err)
	}
	return nil
}
