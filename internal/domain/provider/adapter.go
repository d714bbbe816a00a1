package provider

import (
	"context"
	"time"
)

// FetchOptions controls one page of a product fetch
type FetchOptions struct {
	// Cursor is the adapter-opaque position of the page to fetch. Empty
	// means the first page.
	Cursor string
	// UpdatedSince restricts the fetch to items changed after the given
	// instant. Nil requests the full catalog. Adapters without delta
	// support ignore it.
	UpdatedSince *time.Time
	// Limit caps the page size. Zero lets the adapter choose.
	Limit int
}

// FetchResult is one page of normalized products
type FetchResult struct {
	Products   []NormalizedProduct
	NextCursor string
	HasMore    bool
}

// TestResult reports the outcome of a connectivity probe. A failed probe
// is a result, not an error.
type TestResult struct {
	Success   bool
	Message   string
	LatencyMs int64
}

// Adapter is the port every distributor integration implements. Adapters
// hold no mutable state between calls and translate feed-native payloads
// into the normalized model; they never touch persistence.
type Adapter interface {
	// Key returns the stable registry key of the distributor
	Key() string

	// Name returns the human-readable distributor name
	Name() string

	// TestConnection probes the feed with the configured credentials
	TestConnection(ctx context.Context) TestResult

	// FetchBrands returns the full brand list of the feed
	FetchBrands(ctx context.Context) ([]NormalizedBrand, error)

	// FetchCategories returns the full category list of the feed,
	// flattened to parent references
	FetchCategories(ctx context.Context) ([]NormalizedCategory, error)

	// FetchProducts returns one page of products per opts
	FetchProducts(ctx context.Context, opts FetchOptions) (*FetchResult, error)
}

// Registry resolves adapter instances by key. Get constructs a fresh
// adapter per call so credential changes take effect without restart.
type Registry interface {
	// Get returns a new adapter for the given key, or
	// ErrAdapterNotRegistered
	Get(key string) (Adapter, error)

	// Keys returns the keys of all registered adapters, sorted
	Keys() []string
}
