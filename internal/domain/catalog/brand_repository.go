package catalog

import (
	"context"

	"github.com/google/uuid"
)

// BrandRepository defines the persistence port for brands
type BrandRepository interface {
	// FindByExternalID finds a brand by its provider-scoped external ID
	FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*Brand, error)

	// Save creates or updates a brand
	Save(ctx context.Context, brand *Brand) error
}
