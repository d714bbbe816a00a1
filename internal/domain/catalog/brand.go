package catalog

import (
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Brand is a manufacturer as reported by a single provider. Identity is
// provider-scoped: the same externalId may exist under two providers and
// names two unrelated brands.
type Brand struct {
	shared.BaseEntity
	ProviderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_brand_provider_external,priority:1"`
	ExternalID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_brand_provider_external,priority:2"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Slug       string    `gorm:"type:varchar(100);not null;index"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a brand under the given provider
func NewBrand(providerID uuid.UUID, externalID, name string) (*Brand, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "Brand external ID is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BRAND_NAME", "Brand name is required")
	}
	return &Brand{
		BaseEntity: shared.NewBaseEntity(),
		ProviderID: providerID,
		ExternalID: externalID,
		Name:       name,
		Slug:       Slugify(name),
	}, nil
}

// Rename updates the brand name, keeping the slug in step
func (b *Brand) Rename(name string) {
	b.Name = name
	b.Slug = Slugify(name)
	b.Touch()
}
