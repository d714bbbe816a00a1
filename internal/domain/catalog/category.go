package catalog

import (
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category is one node of a provider's taxonomy, stored flat. The parent
// reference is kept as the provider's external id rather than a foreign key:
// providers routinely deliver children before parents (or orphans), and the
// forest is never validated for cycles.
type Category struct {
	shared.BaseEntity
	ProviderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_provider_external,priority:1"`
	ExternalID       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_provider_external,priority:2"`
	Name             string    `gorm:"type:varchar(200);not null"`
	Slug             string    `gorm:"type:varchar(100);not null;index"`
	ParentExternalID string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category under the given provider
func NewCategory(providerID uuid.UUID, externalID, name, parentExternalID string) (*Category, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "Category external ID is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name is required")
	}
	return &Category{
		BaseEntity:       shared.NewBaseEntity(),
		ProviderID:       providerID,
		ExternalID:       externalID,
		Name:             name,
		Slug:             Slugify(name),
		ParentExternalID: parentExternalID,
	}, nil
}

// Rename updates the category name and its slug
func (c *Category) Rename(name string) {
	c.Name = name
	c.Slug = Slugify(name)
	c.Touch()
}
