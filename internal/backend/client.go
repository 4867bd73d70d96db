// Package backend is the HTTP client for the price API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pricewatch/pricewatch/internal/catalog"
	"github.com/pricewatch/pricewatch/internal/observability"
)

const tracerName = "github.com/pricewatch/pricewatch/internal/backend"

// Client calls the price API. A single attempt is made per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	upstream   *observability.Upstream
	tracer     trace.Tracer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every call. Zero leaves calls bounded only by their
// context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUpstreamMetrics records call counts and latency.
func WithUpstreamMetrics(u *observability.Upstream) Option {
	return func(c *Client) {
		c.upstream = u
	}
}

// NewClient constructs a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DashboardStats fetches the summary counters.
func (c *Client) DashboardStats(ctx context.Context) (catalog.DashboardStats, error) {
	var stats catalog.DashboardStats
	if err := c.do(ctx, "dashboard_stats", http.MethodGet, "/api/dashboard-stats", nil, &stats); err != nil {
		return catalog.DashboardStats{}, err
	}
	return stats, nil
}

// ListSuppliers fetches every supplier.
func (c *Client) ListSuppliers(ctx context.Context) ([]catalog.Supplier, error) {
	var suppliers []catalog.Supplier
	if err := c.do(ctx, "list_suppliers", http.MethodGet, "/api/suppliers", nil, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// CreateSupplier creates a supplier and returns the stored record.
func (c *Client) CreateSupplier(ctx context.Context, in catalog.SupplierInput) (catalog.Supplier, error) {
	var created catalog.Supplier
	if err := c.do(ctx, "create_supplier", http.MethodPost, "/api/suppliers", in, &created); err != nil {
		return catalog.Supplier{}, err
	}
	return created, nil
}

// ListProducts fetches every product.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, "list_products", http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct creates a product and returns the stored record.
func (c *Client) CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error) {
	var created catalog.Product
	if err := c.do(ctx, "create_product", http.MethodPost, "/api/products", in, &created); err != nil {
		return catalog.Product{}, err
	}
	return created, nil
}

// ListPrices fetches every price entry.
func (c *Client) ListPrices(ctx context.Context) ([]catalog.PriceEntry, error) {
	var prices []catalog.PriceEntry
	if err := c.do(ctx, "list_prices", http.MethodGet, "/api/prices", nil, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

type createPricePayload struct {
	SupplierID int64   `json:"supplier_id"`
	ProductID  int64   `json:"product_id"`
	Price      float64 `json:"price"`
	Notes      string  `json:"notes"`
}

// CreatePrice records a price entry. The price travels as a JSON number.
func (c *Client) CreatePrice(ctx context.Context, in catalog.PriceInput) (catalog.PriceEntry, error) {
	payload := createPricePayload{
		SupplierID: in.SupplierID,
		ProductID:  in.ProductID,
		Price:      in.Price.InexactFloat64(),
		Notes:      in.Notes,
	}
	var created catalog.PriceEntry
	if err := c.do(ctx, "create_price", http.MethodPost, "/api/prices", payload, &created); err != nil {
		return catalog.PriceEntry{}, err
	}
	return created, nil
}

// PriceComparison fetches the latest quote per supplier for a product.
func (c *Client) PriceComparison(ctx context.Context, productID int64) ([]catalog.ComparisonEntry, error) {
	var entries []catalog.ComparisonEntry
	path := fmt.Sprintf("/api/price-comparison/%d", productID)
	if err := c.do(ctx, "price_comparison", http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "backend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	call := c.upstream.Track(op)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Error("backend call failed",
				slog.String("op", op),
				slog.String("kind", KindOf(err).String()),
				slog.Any("error", err),
			)
		}
		span.End()
		_ = call.End(err)
	}()

	var reader io.Reader
	if body != nil {
		data, merr := json.Marshal(body)
		if merr != nil {
			return &Error{Op: op, Kind: KindEncode, Err: fmt.Errorf("encode request: %w", merr)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Kind: KindStatus, Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}
	return nil
}
