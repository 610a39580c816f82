package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ExternalProduct is one record of the external catalog listing
type ExternalProduct struct {
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	Stock       int             `json:"stock"`
}

// PriceUnits returns the price truncated to whole currency units
func (p ExternalProduct) PriceUnits() int64 {
	return p.Price.Truncate(0).IntPart()
}

type catalogListing struct {
	Products []ExternalProduct `json:"products"`
}

// CatalogClient reads product listings from the external catalog API
type CatalogClient interface {
	FetchProducts(ctx context.Context) ([]ExternalProduct, error)
}

type catalogClient struct {
	url        string
	httpClient *http.Client
	retrier    *Retrier
}

// NewCatalogClient creates a client for a listing URL
func NewCatalogClient(url string, timeout time.Duration, retrier *Retrier) CatalogClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if retrier == nil {
		retrier = NewRetrier(nil)
	}
	return &catalogClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		retrier:    retrier,
	}
}

// FetchProducts downloads and decodes the listing
func (c *catalogClient) FetchProducts(ctx context.Context) ([]ExternalProduct, error) {
	resp, attempts, err := c.retrier.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog after %d attempts: %w", attempts, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog API error (status %d): %s", resp.StatusCode, string(body))
	}

	var listing catalogListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return listing.Products, nil
}
