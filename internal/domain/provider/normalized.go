package provider

import "github.com/shopspring/decimal"

// NormalizedBrand is a feed brand reduced to the fields the catalog keeps
type NormalizedBrand struct {
	ExternalID string
	Name       string
}

// NormalizedCategory is a feed category flattened to a parent reference
type NormalizedCategory struct {
	ExternalID       string
	Name             string
	ParentExternalID string
}

// NormalizedProduct is the adapter-independent product shape handed to the
// sync orchestrator. Price and StockQty are nil when the feed did not
// carry them, which is distinct from zero.
type NormalizedProduct struct {
	ExternalID         string
	SKU                string
	Name               string
	Description        string
	Price              *decimal.Decimal
	Currency           string
	StockQty           *int
	InStock            bool
	URL                string
	Images             []string
	BrandExternalID    string
	CategoryExternalID string
	Attributes         map[string]string
	// RawPayload is the feed-native record, retained verbatim for audit
	RawPayload any
}
