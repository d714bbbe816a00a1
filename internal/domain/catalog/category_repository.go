package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the persistence port for categories
type CategoryRepository interface {
	// FindByExternalID finds a category by its provider-scoped external ID
	FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error
}
