package distributor

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/catalogsync/backend/internal/infrastructure/feed"
	"github.com/pkg/sftp"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/ssh"
)

var numericOnlyRe = regexp.MustCompile(`^\d+$`)

// ALSOAdapter downloads the ALSO price list over SFTP. The file is a
// multi-delimiter CSV: tab-separated super-columns, each internally
// semicolon-delimited. Prices arrive VAT-inclusive and are divided down
// to net; the feed carries no stock figures.
type ALSOAdapter struct {
	config *ALSOConfig
}

// NewALSOAdapter creates a new ALSO adapter with the given configuration
func NewALSOAdapter(config *ALSOConfig) (*ALSOAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ALSOAdapter{config: config}, nil
}

// Key returns the registry key of the distributor
func (a *ALSOAdapter) Key() string { return "also" }

// Name returns the distributor name
func (a *ALSOAdapter) Name() string { return "ALSO" }

// TestConnection downloads the price list and reports its size
func (a *ALSOAdapter) TestConnection(ctx context.Context) provider.TestResult {
	start := time.Now()
	records, err := a.downloadAndParse(ctx)
	if err != nil {
		return provider.TestResult{
			Success:   false,
			Message:   err.Error(),
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}
	return provider.TestResult{
		Success:   true,
		Message:   fmt.Sprintf("ALSO SFTP reachable, price list has %d rows", len(records)),
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// FetchBrands returns nothing; brands are collected from products
func (a *ALSOAdapter) FetchBrands(ctx context.Context) ([]provider.NormalizedBrand, error) {
	return []provider.NormalizedBrand{}, nil
}

// FetchCategories returns nothing; the feed carries category names
// inline without hierarchy
func (a *ALSOAdapter) FetchCategories(ctx context.Context) ([]provider.NormalizedCategory, error) {
	return []provider.NormalizedCategory{}, nil
}

// FetchProducts downloads and parses the full price list in one page
func (a *ALSOAdapter) FetchProducts(ctx context.Context, opts provider.FetchOptions) (*provider.FetchResult, error) {
	records, err := a.downloadAndParse(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]provider.NormalizedProduct, 0, len(records))
	for _, rec := range records {
		p, ok := a.normalizeRecord(rec)
		if !ok {
			continue
		}
		products = append(products, p)
	}
	return &provider.FetchResult{Products: products}, nil
}

// normalizeRecord maps one parsed price list row. Layout of the first
// super-column: id;code;;brand;ean;name;;gross_price;;category... with
// further category names spread over the remaining super-columns.
func (a *ALSOAdapter) normalizeRecord(rec feed.Record) (provider.NormalizedProduct, bool) {
	externalID := rec.SegmentField(0, 0)
	if externalID == "" {
		return provider.NormalizedProduct{}, false
	}

	code := rec.SegmentField(0, 1)
	brand := rec.SegmentField(0, 3)
	ean := rec.SegmentField(0, 4)
	name := rec.SegmentField(0, 5)
	if name == "" {
		name = "Product " + externalID
	}

	gross := alsoPrice(rec.SegmentField(0, 7))
	var price *decimal.Decimal
	if gross != nil {
		net := gross.Div(a.config.VATRate).Round(4)
		price = &net
	}

	var categories []string
	if len(rec.Segments) > 0 {
		for _, f := range rec.Segments[0][min(9, len(rec.Segments[0])):] {
			if f != "" {
				categories = append(categories, f)
			}
		}
	}
	for _, seg := range rec.Segments[1:] {
		for _, f := range seg {
			if f != "" && !numericOnlyRe.MatchString(f) {
				categories = append(categories, f)
			}
		}
	}
	categories = dedupe(categories)

	sku := code
	if sku == "" {
		sku = externalID
	}

	attrs := make(map[string]string)
	if ean != "" {
		attrs["ean"] = ean
	}
	if brand != "" {
		attrs["brand"] = brand
	}
	if len(categories) > 0 {
		attrs["main_category"] = categories[0]
	}
	if len(categories) > 1 {
		attrs["sub_category"] = categories[1]
	}
	if gross != nil {
		attrs["price_with_vat"] = gross.String()
	}

	return provider.NormalizedProduct{
		ExternalID: externalID,
		SKU:        sku,
		Name:       name,
		Price:      price,
		Currency:   "RON",
		InStock:    price != nil,
		Attributes: attrs,
		RawPayload: rec.Segments,
	}, true
}

// downloadAndParse opens the SSH session, streams the remote file through
// the multi-segment parser and closes everything down. Transport and auth
// failures wrap ErrFeedUnavailable.
func (a *ALSOAdapter) downloadAndParse(ctx context.Context) ([]feed.Record, error) {
	sshConfig := &ssh.ClientConfig{
		User:            a.config.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(a.config.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         a.config.Timeout,
	}

	addr := fmt.Sprintf("%s:%d", a.config.Host, a.config.Port)
	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: also sftp dial: %v", provider.ErrFeedUnavailable, err)
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return nil, fmt.Errorf("%w: also sftp session: %v", provider.ErrFeedUnavailable, err)
	}
	defer client.Close()

	file, err := client.Open(a.config.RemotePath)
	if err != nil {
		return nil, fmt.Errorf("%w: also open %s: %v", provider.ErrFeedRequestFailed, a.config.RemotePath, err)
	}
	defer file.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := feed.ParseMultiSegment(io.Reader(file))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrFeedInvalidResponse, err)
	}
	return records, nil
}

// alsoPrice parses a comma-decimal gross price; zero means "no price"
func alsoPrice(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil || !d.IsPositive() {
		return nil
	}
	return &d
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Ensure ALSOAdapter implements Adapter
var _ provider.Adapter = (*ALSOAdapter)(nil)
