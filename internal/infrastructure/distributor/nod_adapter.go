package distributor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/catalogsync/backend/internal/infrastructure/feed"
)

// maxFeedResponseSize caps one feed response body (50MB; the full product
// feed is large)
const maxFeedResponseSize = 50 * 1024 * 1024

// NODAdapter fetches the NOD B2B catalog over their signed REST API
type NODAdapter struct {
	config     *NODConfig
	httpClient *http.Client
	signer     feed.RequestSigner
	now        func() time.Time
}

// NewNODAdapter creates a new NOD adapter with the given configuration
func NewNODAdapter(config *NODConfig) (*NODAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &NODAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		signer:     feed.RequestSigner{Identity: config.APIUser, Secret: config.APIKey},
		now:        time.Now,
	}, nil
}

// Key returns the registry key of the distributor
func (a *NODAdapter) Key() string { return "nod" }

// Name returns the distributor name
func (a *NODAdapter) Name() string { return "NOD B2B" }

// TestConnection probes the category endpoint with the configured credentials
func (a *NODAdapter) TestConnection(ctx context.Context) provider.TestResult {
	start := a.now()
	if _, err := a.doRequest(ctx, "/product-categories/", nil); err != nil {
		return provider.TestResult{
			Success:   false,
			Message:   err.Error(),
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}
	return provider.TestResult{
		Success:   true,
		Message:   "NOD B2B API reachable",
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// FetchBrands returns the manufacturer list
func (a *NODAdapter) FetchBrands(ctx context.Context) ([]provider.NormalizedBrand, error) {
	params := url.Values{}
	params.Set("count", "10000")
	params.Set("order_by", "name")
	params.Set("order_direction", "asc")

	raw, err := a.doRequest(ctx, "/manufacturers/", params)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if arr, ok := raw.([]any); ok {
		items = nodObjects(arr)
	} else if obj, ok := raw.(map[string]any); ok {
		if m, ok := obj["manufacturers"]; ok {
			items = nodObjectOrList(m)
		}
	}

	brands := make([]provider.NormalizedBrand, 0, len(items))
	for _, m := range items {
		id := nodString(m, "id")
		name := nodString(m, "name")
		if id == "" || name == "" {
			continue
		}
		brands = append(brands, provider.NormalizedBrand{ExternalID: id, Name: name})
	}
	return brands, nil
}

// FetchCategories returns the category tree flattened to parent references
func (a *NODAdapter) FetchCategories(ctx context.Context) ([]provider.NormalizedCategory, error) {
	raw, err := a.doRequest(ctx, "/product-categories/", nil)
	if err != nil {
		return nil, err
	}

	flat := nodFlattenCategories(raw)
	categories := make([]provider.NormalizedCategory, 0, len(flat))
	for _, m := range flat {
		id := nodString(m, "id")
		name := nodString(m, "name")
		if id == "" || name == "" {
			continue
		}
		parent := nodString(m, "parent_id")
		if parent == "0" {
			parent = ""
		}
		categories = append(categories, provider.NormalizedCategory{
			ExternalID:       id,
			Name:             name,
			ParentExternalID: parent,
		})
	}
	return categories, nil
}

// FetchProducts returns the full feed, or the sparse stock-changes delta
// when a window is requested. Passing cursor "full" forces the full feed
// regardless of the window.
func (a *NODAdapter) FetchProducts(ctx context.Context, opts provider.FetchOptions) (*provider.FetchResult, error) {
	if opts.UpdatedSince != nil && opts.Cursor != "full" {
		return a.fetchStockChanges(ctx, *opts.UpdatedSince)
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("include_inactive", "0")
	params.Set("show_extended_info", "1")
	params.Set("show_product_properties", "0")

	raw, err := a.doRequest(ctx, "/products/full-feed", params)
	if err != nil {
		return nil, err
	}

	rows := nodProductList(raw)
	products := make([]provider.NormalizedProduct, 0, len(rows))
	for _, m := range rows {
		if nodString(m, "id") == "" && nodString(m, "code") == "" {
			continue
		}
		products = append(products, nodNormalizeProduct(m))
	}
	return &provider.FetchResult{Products: products}, nil
}

// fetchStockChanges performs the delta fetch. Only id, code and stock
// arrive; everything else keeps its stored value. A failed delta request
// collapses to an empty page, the next full sync will catch up.
func (a *NODAdapter) fetchStockChanges(ctx context.Context, since time.Time) (*provider.FetchResult, error) {
	params := url.Values{}
	params.Set("changedfrom", since.UTC().Format("2006-01-02 15:04:05"))

	raw, err := a.doRequest(ctx, "/products/stock-changes", params)
	if err != nil {
		return &provider.FetchResult{}, nil
	}

	var items []map[string]any
	if obj, ok := raw.(map[string]any); ok {
		for _, key := range []string{"result", "results"} {
			if list, ok := obj[key].([]any); ok {
				items = nodObjects(list)
				break
			}
		}
	} else if arr, ok := raw.([]any); ok {
		items = nodObjects(arr)
	}

	products := make([]provider.NormalizedProduct, 0, len(items))
	for _, m := range items {
		id := nodString(m, "id")
		if id == "" {
			continue
		}
		code := nodString(m, "code")
		stock := 0
		if n, ok := nodInt(m, "stock_value"); ok {
			stock = n
		}
		name := code
		if name == "" {
			name = id
		}
		qty := stock
		products = append(products, provider.NormalizedProduct{
			ExternalID: id,
			SKU:        code,
			Name:       name,
			StockQty:   &qty,
			InStock:    stock > 0,
		})
	}
	return &provider.FetchResult{Products: products}, nil
}

// doRequest performs one signed GET against the feed. The signature
// covers the raw query string without the leading "?", never the path.
func (a *NODAdapter) doRequest(ctx context.Context, path string, params url.Values) (any, error) {
	u, err := url.Parse(a.config.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedRequestFailed, err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedRequestFailed, err)
	}

	sig := a.signer.Sign(http.MethodGet, u.RawQuery, a.now())
	req.Header.Set("Date", sig.Date)
	req.Header.Set("X-NodWS-User", sig.Identity)
	req.Header.Set("X-NodWS-Accept", "json")
	req.Header.Set("X-NodWS-Auth", sig.Signature)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("%w: nod %d: %s", provider.ErrFeedRequestFailed, resp.StatusCode, string(body))
	}

	var raw any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedResponseSize)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedInvalidResponse, err)
	}
	return raw, nil
}

// Ensure NODAdapter implements Adapter
var _ provider.Adapter = (*NODAdapter)(nil)
