package distributor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/catalogsync/backend/internal/infrastructure/feed"
	"github.com/shopspring/decimal"
)

// IngramAdapter fetches the Ingram Micro 24 availability CSV over HTTP.
// The feed has no brand or category endpoints; both ride along as product
// attributes and are discovered implicitly.
type IngramAdapter struct {
	config     *IngramConfig
	httpClient *http.Client
}

// NewIngramAdapter creates a new Ingram adapter with the given configuration
func NewIngramAdapter(config *IngramConfig) (*IngramAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &IngramAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// Key returns the registry key of the distributor
func (a *IngramAdapter) Key() string { return "ingram" }

// Name returns the distributor name
func (a *IngramAdapter) Name() string { return "Ingram Micro 24" }

// TestConnection downloads the feed head and checks it looks delimited.
// A non-delimited body usually means the API key is wrong, the portal
// serves an HTML error page with status 200.
func (a *IngramAdapter) TestConnection(ctx context.Context) provider.TestResult {
	start := time.Now()
	body, err := a.download(ctx)
	if err != nil {
		return provider.TestResult{
			Success:   false,
			Message:   err.Error(),
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}
	defer body.Close()

	head := make([]byte, 200)
	n, _ := io.ReadFull(body, head)
	preview := string(head[:n])
	if !strings.ContainsAny(preview, ",;") {
		return provider.TestResult{
			Success:   false,
			Message:   "unexpected feed response, possibly invalid API key",
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}
	return provider.TestResult{
		Success:   true,
		Message:   "Ingram availability feed reachable",
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// FetchBrands returns nothing; brands are collected from products
func (a *IngramAdapter) FetchBrands(ctx context.Context) ([]provider.NormalizedBrand, error) {
	return []provider.NormalizedBrand{}, nil
}

// FetchCategories returns nothing; categories ride along as attributes
func (a *IngramAdapter) FetchCategories(ctx context.Context) ([]provider.NormalizedCategory, error) {
	return []provider.NormalizedCategory{}, nil
}

// FetchProducts downloads and parses the availability CSV in one page
func (a *IngramAdapter) FetchProducts(ctx context.Context, opts provider.FetchOptions) (*provider.FetchResult, error) {
	body, err := a.download(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	buffered := bufio.NewReader(body)
	firstLine, err := buffered.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedInvalidResponse, err)
	}
	delimiter := feed.DetectDelimiter(firstLineOf(string(firstLine)))

	table, err := feed.ParseDelimited(buffered, delimiter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedInvalidResponse, err)
	}

	products := make([]provider.NormalizedProduct, 0, len(table.Rows))
	for _, row := range table.Rows {
		get := func(names ...string) string {
			for _, n := range names {
				if v := feed.Field(row, table.ColumnIndex(n)); v != "" {
					return v
				}
			}
			return ""
		}

		externalID := get("p_id", "ImSKU", "p_pn", "VPN")
		if externalID == "" {
			continue
		}
		sku := get("p_pn", "VPN", "p_id")

		price := ingramPrice(get("FinalPrice", "finalPrice"))
		if price == nil {
			price = ingramPrice(get("price", "StdPrice"))
		}
		if price == nil {
			price = ingramPrice(get("l_price", "ListPrice"))
		}

		localFree := ingramInt(get("stockFree", "FreeOnStock"))
		central := ingramInt(get("imStock", "CentralStock"))
		stock := localFree + central

		name := get("p_name", "Name")
		if name == "" {
			name = sku
		}
		if name == "" {
			name = externalID
		}

		attrs := map[string]string{
			"local_stock":   strconv.Itoa(localFree),
			"central_stock": strconv.Itoa(central),
		}
		if ean := get("eancode", "EANCode"); ean != "" {
			attrs["ean"] = ean
		}
		if brand := get("manufacturer_name", "Brand"); brand != "" {
			attrs["brand"] = brand
		}
		if category := get("category_name", "Category"); category != "" {
			attrs["category"] = category
		}

		raw := make(map[string]string, len(table.Header))
		for i, h := range table.Header {
			raw[strings.TrimSpace(h)] = feed.Field(row, i)
		}

		qty := stock
		products = append(products, provider.NormalizedProduct{
			ExternalID: externalID,
			SKU:        sku,
			Name:       name,
			Price:      price,
			Currency:   "EUR",
			StockQty:   &qty,
			InStock:    stock > 0,
			Attributes: attrs,
			RawPayload: raw,
		})
	}

	return &provider.FetchResult{Products: products}, nil
}

func (a *IngramAdapter) download(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.availabilityURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedRequestFailed, err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: ingram %d", provider.ErrFeedRequestFailed, resp.StatusCode)
	}
	return resp.Body, nil
}

func firstLineOf(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// ingramPrice parses a feed price, tolerating comma decimals. Zero and
// garbage both mean "no price".
func ingramPrice(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil || !d.IsPositive() {
		return nil
	}
	return &d
}

func ingramInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Ensure IngramAdapter implements Adapter
var _ provider.Adapter = (*IngramAdapter)(nil)
