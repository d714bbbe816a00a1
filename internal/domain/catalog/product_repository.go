package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the persistence port for products, their
// attributes and their price history. The sync orchestrator is the sole
// writer behind this interface.
type ProductRepository interface {
	// FindByExternalID finds a product by its provider-scoped external ID
	FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// ReplaceAttributes deletes all attributes of a product and inserts the
	// given set in one pass
	ReplaceAttributes(ctx context.Context, productID uuid.UUID, attrs []ProductAttribute) error

	// AddPriceHistory appends one immutable price observation
	AddPriceHistory(ctx context.Context, entry PriceHistory) error

	// CountForProvider counts a provider's products
	CountForProvider(ctx context.Context, providerID uuid.UUID) (int64, error)
}
