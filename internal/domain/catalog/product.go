package catalog

import (
	"encoding/json"

	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the persisted, normalized view of one distributor item.
// (ProviderID, ExternalID) is the natural key; external ids are only unique
// within a provider's namespace.
type Product struct {
	shared.BaseEntity
	ProviderID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_product_provider_external,priority:1"`
	ExternalID  string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_provider_external,priority:2"`
	SKU         string           `gorm:"type:varchar(100);index"`
	Name        string           `gorm:"type:varchar(500);not null"`
	Description string           `gorm:"type:text"`
	Price       *decimal.Decimal `gorm:"type:numeric(14,4)"`
	Currency    string           `gorm:"type:varchar(10);not null;default:'RON'"`
	StockQty    *int             `gorm:""`
	InStock     bool             `gorm:"not null;default:false;index"`
	URL         string           `gorm:"type:varchar(1000)"`
	Images      []string         `gorm:"serializer:json"`
	RawPayload  string           `gorm:"type:text"`
	BrandID     *uuid.UUID       `gorm:"type:uuid;index"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product under the given provider
func NewProduct(providerID uuid.UUID, externalID, name string) (*Product, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "Product external ID is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name is required")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		ProviderID: providerID,
		ExternalID: externalID,
		Name:       name,
		Currency:   "RON",
	}, nil
}

// SetRawPayload stores the feed-native record as JSON text for audit.
// Unmarshalable payloads leave the stored text untouched.
func (p *Product) SetRawPayload(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	p.RawPayload = string(data)
}

// PriceChanged reports whether observing newPrice should append a price
// history entry: only a present price that differs from the stored one
// counts. An absent price means the feed did not report one this cycle and
// never records a change.
func (p *Product) PriceChanged(newPrice *decimal.Decimal) bool {
	if newPrice == nil {
		return false
	}
	if p.Price == nil {
		return true
	}
	return !p.Price.Equal(*newPrice)
}

// ProductAttribute is one key/value pair attached to a product. The full set
// is replaced on every sync, never diffed key by key.
type ProductAttribute struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Key       string    `gorm:"type:varchar(100);not null"`
	Value     string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (ProductAttribute) TableName() string {
	return "product_attributes"
}

// NewProductAttribute creates an attribute row for a product
func NewProductAttribute(productID uuid.UUID, key, value string) ProductAttribute {
	return ProductAttribute{
		ID:        uuid.New(),
		ProductID: productID,
		Key:       key,
		Value:     value,
	}
}
