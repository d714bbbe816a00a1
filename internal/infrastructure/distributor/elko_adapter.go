package distributor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// ElkoAdapter fetches the ELKO catalog over their bearer-token REST API.
// Price and stock live on a per-product availability endpoint, so a
// product fetch fans out one secondary call per item, paced by a rate
// limiter so the portal does not throttle us.
type ElkoAdapter struct {
	config     *ElkoConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewElkoAdapter creates a new ELKO adapter with the given configuration
func NewElkoAdapter(config *ElkoConfig) (*ElkoAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ElkoAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		// One token per 10ms, burst 10: ten quick calls then a 100ms breath
		limiter: rate.NewLimiter(rate.Every(10*time.Millisecond), 10),
	}, nil
}

// Key returns the registry key of the distributor
func (a *ElkoAdapter) Key() string { return "elko" }

// Name returns the distributor name
func (a *ElkoAdapter) Name() string { return "ELKO" }

// TestConnection probes the category listing with the configured token
func (a *ElkoAdapter) TestConnection(ctx context.Context) provider.TestResult {
	start := time.Now()
	var cats []elkoCategory
	if err := a.doRequest(ctx, "Catalogs/Categories", &cats); err != nil {
		return provider.TestResult{
			Success:   false,
			Message:   err.Error(),
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}
	return provider.TestResult{
		Success:   true,
		Message:   fmt.Sprintf("ELKO API reachable, %d categories", len(cats)),
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// FetchBrands returns the vendor list
func (a *ElkoAdapter) FetchBrands(ctx context.Context) ([]provider.NormalizedBrand, error) {
	var vendors []elkoVendor
	if err := a.doRequest(ctx, "Catalogs/Vendors", &vendors); err != nil {
		return nil, err
	}
	brands := make([]provider.NormalizedBrand, 0, len(vendors))
	for _, v := range vendors {
		if v.Code == "" || v.Name == "" {
			continue
		}
		brands = append(brands, provider.NormalizedBrand{ExternalID: v.Code, Name: v.Name})
	}
	return brands, nil
}

// FetchCategories returns the category list with parent references
func (a *ElkoAdapter) FetchCategories(ctx context.Context) ([]provider.NormalizedCategory, error) {
	var cats []elkoCategory
	if err := a.doRequest(ctx, "Catalogs/Categories", &cats); err != nil {
		return nil, err
	}
	categories := make([]provider.NormalizedCategory, 0, len(cats))
	for _, c := range cats {
		if c.Code == "" || c.Name == "" {
			continue
		}
		categories = append(categories, provider.NormalizedCategory{
			ExternalID:       c.Code,
			Name:             c.Name,
			ParentExternalID: c.ParentCode,
		})
	}
	return categories, nil
}

// FetchProducts returns the product listing enriched with per-product
// availability. An availability failure is non-fatal: the product keeps
// the values from the base listing.
func (a *ElkoAdapter) FetchProducts(ctx context.Context, opts provider.FetchOptions) (*provider.FetchResult, error) {
	var items []elkoProduct
	if err := a.doRequest(ctx, "Catalogs/Products", &items); err != nil {
		return nil, err
	}

	products := make([]provider.NormalizedProduct, 0, len(items))
	for _, p := range items {
		code := p.externalID()
		if code == "" {
			continue
		}

		priceVal := p.Price
		stock := p.Stock
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		var avail elkoAvailability
		if err := a.doRequest(ctx, "Catalogs/Products/"+code+"/Availability", &avail); err == nil {
			if avail.Price != nil {
				priceVal = *avail.Price
			}
			if avail.Stock != nil {
				stock = *avail.Stock
			}
		}

		var price *decimal.Decimal
		if priceVal > 0 {
			d := decimal.NewFromFloat(priceVal)
			price = &d
		}

		name := p.Name
		if name == "" {
			name = code
		}
		attrs := make(map[string]string)
		if p.EAN != "" {
			attrs["ean"] = p.EAN
		}
		if p.Weight > 0 {
			attrs["weight"] = strconv.FormatFloat(p.Weight, 'f', -1, 64)
		}

		qty := stock
		products = append(products, provider.NormalizedProduct{
			ExternalID:         code,
			SKU:                code,
			Name:               name,
			Description:        p.Description,
			Price:              price,
			Currency:           "EUR",
			StockQty:           &qty,
			InStock:            stock > 0,
			Images:             p.Images,
			BrandExternalID:    p.VendorCode,
			CategoryExternalID: p.CategoryCode,
			Attributes:         attrs,
			RawPayload:         p,
		})
	}

	return &provider.FetchResult{Products: products}, nil
}

func (a *ElkoAdapter) doRequest(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", provider.ErrFeedRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", provider.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("%w: elko %d: %s", provider.ErrFeedRequestFailed, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedResponseSize)).Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", provider.ErrFeedInvalidResponse, err)
	}
	return nil
}

// Ensure ElkoAdapter implements Adapter
var _ provider.Adapter = (*ElkoAdapter)(nil)
